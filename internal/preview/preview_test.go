package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funnelworks/funnel/form3/must3"
	"github.com/funnelworks/funnel/render"
	"gonum.org/v1/plot/cmpimg"
)

// imgDelta a normalized imgDelta parameter to describe how close the matching
// should be performed (imgDelta=0: perfect match, imgDelta=1, loose match)
const imgDelta = 0

func TestRenderDeterministic(t *testing.T) {
	model, err := render.RenderAll(render.NewOctreeRenderer(must3.Cone(2, 1, 0.5, 0), 24))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	view := DefaultView()
	view.Width, view.Height = 160, 120

	if err := SavePNG(filepath.Join(dir, "model.png"), model, view); err != nil {
		t.Fatal(err)
	}
	stl := filepath.Join(dir, "cone.stl")
	fp, err := os.Create(stl)
	if err != nil {
		t.Fatal(err)
	}
	if err := render.WriteSTL(fp, model); err != nil {
		t.Fatal(err)
	}
	if err := fp.Close(); err != nil {
		t.Fatal(err)
	}
	fromSTL := filepath.Join(dir, "stl.png")
	if err := STLToPNG(stl, fromSTL, view); err != nil {
		t.Fatal(err)
	}
	again := filepath.Join(dir, "again.png")
	if err := STLToPNG(stl, again, view); err != nil {
		t.Fatal(err)
	}
	if !equalImages(t, fromSTL, again) {
		t.Error("rendering the same STL twice gave different images")
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(nil, DefaultView()); err == nil {
		t.Error("expected error for empty model")
	}
	model := []render.Triangle3{{}}
	model[0].V[1].X, model[0].V[2].Y = 1, 1
	view := DefaultView()
	view.Width = 0
	if _, err := Render(model, view); err == nil {
		t.Error("expected error for zero width")
	}
}

func equalImages(t *testing.T, png1, png2 string) bool {
	equal, err := cmpimg.EqualApprox("png", readFile(t, png1), readFile(t, png2), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	return equal
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
