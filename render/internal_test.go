package render

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/funnelworks/funnel/form3/must3"
	"github.com/funnelworks/funnel/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTetraCube(t *testing.T) {
	// every tetrahedron contains the main diagonal and two adjacent
	// corners of the ring around it.
	for i, tet := range cubeTetrahedra {
		if tet[0] != 0 || tet[1] != 6 {
			t.Errorf("tetrahedron %d does not share the main diagonal", i)
		}
		next := cubeTetrahedra[(i+1)%len(cubeTetrahedra)]
		if tet[3] != next[2] {
			t.Errorf("tetrahedra %d and %d do not share a face", i, i+1)
		}
	}
	if cubeMaxTriangles != 12 {
		t.Errorf("want 12 max triangles per cube, got %d", cubeMaxTriangles)
	}
}

func TestTetraOrientation(t *testing.T) {
	p := [4]r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	for _, v := range [][4]float64{
		{-1, 1, 1, 1},
		{1, -1, -1, -1},
		{-1, -1, 1, 1},
		{1, -1, 1, -1},
	} {
		var dst [2]Triangle3
		n := tetraToTriangles(dst[:], p, v)
		if n == 0 {
			t.Fatalf("no triangles for %v", v)
		}
		var cin, cout r3.Vec
		for i := range v {
			if v[i] < 0 {
				cin = r3.Add(cin, p[i])
			} else {
				cout = r3.Add(cout, p[i])
			}
		}
		dir := r3.Sub(cout, cin)
		for _, tri := range dst[:n] {
			if r3.Dot(tri.Normal(), dir) <= 0 {
				t.Errorf("values %v: normal %v points inside", v, tri.Normal())
			}
		}
	}
}

func TestOctreeSphere(t *testing.T) {
	const (
		radius  = 10.
		quality = 40
	)
	model, err := RenderAll(NewOctreeRenderer(must3.Sphere(radius), quality))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("no triangles rendered")
	}
	cell := 2 * radius * 1.01 / quality
	for i, tri := range model {
		c := r3.Scale(1./3, r3.Add(tri.V[0], r3.Add(tri.V[1], tri.V[2])))
		if d := r3.Norm(c) - radius; math.Abs(d) > cell {
			t.Fatalf("triangle %d centroid %g away from surface", i, d)
		}
		// outward normals on a sphere point away from the center.
		if r3.Dot(tri.Normal(), c) <= 0 {
			t.Fatalf("triangle %d normal points inwards", i)
		}
	}
	bb := d3.Box(Bounds(model))
	want := d3.NewBox(r3.Vec{}, d3.Elem(2*radius))
	if !bb.Equals(want, cell) {
		t.Errorf("want bounds %v, got %v", want, bb)
	}
}

func TestOctreeSmallBuffer(t *testing.T) {
	all, err := RenderAll(NewOctreeRenderer(must3.Sphere(1), 12))
	if err != nil {
		t.Fatal(err)
	}
	r := NewOctreeRenderer(must3.Sphere(1), 12)
	var got []Triangle3
	buf := make([]Triangle3, 5)
	for {
		n, err := r.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != len(all) {
		t.Fatalf("small buffer read %d triangles, want %d", len(got), len(all))
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const (
		quality = 60
		tol     = 1e-5
	)
	s0 := must3.Cone(20, 8, 3, 1)
	size := r3.Norm(d3.Box(s0.Bounds()).Size())
	rtol := tol * size
	input, err := RenderAll(NewOctreeRenderer(s0, quality))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	// the writer drops triangles that are degenerate in float32.
	kept := input[:0:0]
	for _, tri := range input {
		if !stlTriangleFrom(tri).degenerate(0) {
			kept = append(kept, tri)
		}
	}
	input = kept
	if b.Len() != stlHeaderSize+stlTriangleSize*len(input) {
		t.Fatalf("unexpected STL size %d for %d triangles", b.Len(), len(input))
	}
	output, err := ReadSTL(&b)
	if err != nil && !errors.Is(err, ErrNormalMismatch) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], rtol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got.V[i], expect.V[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestReadSTLErrors(t *testing.T) {
	var b bytes.Buffer
	if _, err := ReadSTL(&b); err == nil {
		t.Error("expected error for empty input")
	}
	var header [stlHeaderSize]byte
	header[80] = 2 // two triangles promised, none present
	if _, err := ReadSTL(bytes.NewReader(header[:])); err == nil {
		t.Error("expected error for truncated input")
	}
	if err := WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}

// failingRenderer returns a few triangles and then an error.
type failingRenderer struct {
	calls int
}

func (f *failingRenderer) ReadTriangles(dst []Triangle3) (int, error) {
	f.calls++
	if f.calls > 2 {
		return 0, errors.New("sampling failed")
	}
	dst[0] = Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}
	return 1, nil
}

type emptyRenderer struct{}

func (emptyRenderer) ReadTriangles([]Triangle3) (int, error) { return 0, io.EOF }

func TestCreateSTLErrorRemovesFile(t *testing.T) {
	for _, test := range []struct {
		name string
		r    Renderer
	}{
		{"render error", &failingRenderer{}},
		{"empty model", emptyRenderer{}},
	} {
		path := filepath.Join(t.TempDir(), "broken.stl")
		if err := CreateSTL(path, test.r); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s: partial file left behind: %v", test.name, err)
		}
	}
}
