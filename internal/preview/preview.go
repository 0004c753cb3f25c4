// Package preview renders shaded PNG thumbnails of triangle models.
package preview

import (
	"errors"
	"fmt"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/funnelworks/funnel/render"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View describes the camera looking at a model scaled to fit the bi-unit cube.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// output width and height in pixels
	Width, Height int
	// supersampling factor, downsampled for antialiasing
	Scale int
}

// DefaultView looks at the model from above one corner.
func DefaultView() View {
	return View{
		Up:     r3.Vec{Z: 1},
		Eye:    r3.Vec{X: 3, Y: 3, Z: 3},
		Near:   1,
		Far:    10,
		Width:  640,
		Height: 480,
		Scale:  2,
	}
}

const fovy = 30 // vertical field of view in degrees

// Render returns a shaded image of the model.
func Render(model []render.Triangle3, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty model")
	}
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(vec(t.V[0]), vec(t.V[1]), vec(t.V[2]))
	}
	return draw(fauxgl.NewTriangleMesh(tris), view)
}

// STLToPNG renders a binary STL file to a PNG file.
func STLToPNG(stlPath, pngPath string, view View) error {
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", stlPath, err)
	}
	img, err := draw(mesh, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(pngPath, img)
}

// SavePNG writes the rendered image of the model to path.
func SavePNG(path string, model []render.Triangle3, view View) error {
	img, err := Render(model, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func draw(mesh *fauxgl.Mesh, view View) (image.Image, error) {
	if view.Width <= 0 || view.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", view.Width, view.Height)
	}
	scale := view.Scale
	if scale < 1 {
		scale = 1
	}
	var (
		eye    = vec(view.Eye)
		center = vec(view.LookAt)
		up     = vec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")           // object color
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	return resize.Resize(uint(view.Width), uint(view.Height), context.Image(), resize.Bilinear), nil
}

func vec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
