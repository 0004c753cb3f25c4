package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/funnelworks/funnel/form3"
	"github.com/funnelworks/funnel/render"
	"github.com/funnelworks/funnel/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLCreateWriteRead(t *testing.T) {
	const quality = 30
	cyl, err := form3.Cylinder(6, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	ball, err := form3.Sphere(1.5)
	if err != nil {
		t.Fatal(err)
	}
	object := sdf.Difference3D(cyl, sdf.Transform3D(ball, sdf.Translate3D(r3.Vec{Z: 3})))
	path := filepath.Join(t.TempDir(), "cup.stl")
	if err := render.CreateSTL(path, render.NewOctreeRenderer(object, quality)); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewOctreeRenderer(object, quality))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatal("WriteSTL and CreateSTL output length mismatch")
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}
