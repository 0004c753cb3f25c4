package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Binary STL layout: an 80 byte free form header, a little endian uint32
// triangle count, then 50 bytes per triangle.
const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
	// triangles rendered per batch by CreateSTL.
	stlBatch   = 1 << 10
	stlComment = "binary STL from funnel"
)

func putSTLHeader(b []byte, count uint32) {
	copy(b[:80], stlComment)
	binary.LittleEndian.PutUint32(b[80:], count)
}

// CreateSTL renders an SDF3 to a binary STL file at path. Triangles are
// streamed to disk as they are rendered and the header is written last.
// Its output is byte for byte that of WriteSTL on the same triangles.
// On error no file is left at path.
func CreateSTL(path string, r Renderer) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			// a file without its header is not a valid STL.
			os.Remove(path)
		}
	}()
	if _, err = file.Seek(stlHeaderSize, io.SeekStart); err != nil {
		return err
	}
	w := bufio.NewWriterSize(file, stlBatch*stlTriangleSize)
	batch := make([]Triangle3, stlBatch)
	var count int
	for {
		n, rerr := r.ReadTriangles(batch)
		n, err = writeTriangles(w, batch[:n])
		if err != nil {
			return err
		}
		count += n
		if rerr == io.EOF {
			break
		} else if rerr != nil {
			return fmt.Errorf("rendering %s: %w", path, rerr)
		}
	}
	if err = checkCount(count); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return err
	}
	var header [stlHeaderSize]byte
	putSTLHeader(header[:], uint32(count))
	_, err = file.WriteAt(header[:], 0)
	return err
}

// WriteSTL writes model triangles to a writer in binary STL format.
// Triangles that collapse once rounded to float32 are left out.
func WriteSTL(w io.Writer, model []Triangle3) error {
	count := 0
	for _, t := range model {
		if !stlTriangleFrom(t).degenerate(0) {
			count++
		}
	}
	if err := checkCount(count); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	var header [stlHeaderSize]byte
	putSTLHeader(header[:], uint32(count))
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if _, err := writeTriangles(bw, model); err != nil {
		return err
	}
	return bw.Flush()
}

func checkCount(n int) error {
	switch {
	case n == 0:
		return errors.New("empty triangle slice")
	case uint64(n) > math.MaxUint32:
		return fmt.Errorf("%d triangles do not fit in an STL file", n)
	}
	return nil
}

func writeTriangles(w io.Writer, model []Triangle3) (n int, err error) {
	var b [stlTriangleSize]byte
	for _, t := range model {
		st := stlTriangleFrom(t)
		if st.degenerate(0) {
			continue
		}
		st.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ReadSTL reads a binary STL file. Triangles whose stored normal disagrees
// with the one computed from their vertices are still returned together
// with an error wrapping ErrNormalMismatch.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	var header [stlHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	count := int(binary.LittleEndian.Uint32(header[80:]))
	if count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf        [stlTriangleSize]byte
		d          stlTriangle
		mismatches int
	)
	// Grow as triangles arrive since count may be corrupt.
	output := make([]Triangle3, 0, min(count, 1<<16))
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%d/%d STL triangles read: %w", i, count, err)
		}
		d.get(buf[:])
		err := d.validate()
		if errors.Is(err, ErrNormalMismatch) {
			mismatches++
		} else if err != nil {
			return nil, fmt.Errorf("STL triangle %d: %w", i, err)
		}
		output = append(output, d.toTriangle3())
	}
	if mismatches > 0 {
		// High resolution models may trip this check on valid triangles.
		return output, fmt.Errorf("%d/%d STL triangles: %w", mismatches, count, ErrNormalMismatch)
	}
	return output, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func stlTriangleFrom(t Triangle3) stlTriangle {
	n := t.Normal()
	return stlTriangle{
		Normal:  [3]float32{float32(n.X), float32(n.Y), float32(n.Z)},
		Vertex1: f32From(t.V[0]),
		Vertex2: f32From(t.V[1]),
		Vertex3: f32From(t.V[2]),
	}
}

func f32From(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}

	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// no attributes supported yet.
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

// ErrNormalMismatch is returned when an STL triangle normal is not approximately
// equal to the normal calculated from its vertices. Ignore it if the model is OK.
var ErrNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices")

func (t stlTriangle) validate() error {
	const epsilon = 1e-12
	const normTol = 5e-2
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.degenerate(epsilon) {
		return errors.New("triangle is degenerate")
	}
	calcNormal := t.normalFromVertices()
	calcNormalNeg := [3]float32{-calcNormal[0], -calcNormal[1], -calcNormal[2]}
	if !equalWithin3F32(calcNormal, t.Normal, normTol) && !equalWithin3F32(calcNormalNeg, t.Normal, normTol) {
		return ErrNormalMismatch // sometimes may fail
	}
	return nil
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func (t stlTriangle) normalFromVertices() [3]float32 {
	v1 := r3.Scale(10, r3From3F32(t.Vertex1))
	v2 := r3.Scale(10, r3From3F32(t.Vertex2))
	v3 := r3.Scale(10, r3From3F32(t.Vertex3))
	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)
	n := r3.Unit(r3.Cross(e1, e2))
	n32 := [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	return n32
}

// Degenerate returns true if the triangle is degenerate.
func (t stlTriangle) degenerate(tol float32) bool {
	// check for identical vertices.
	return equalWithin3F32(t.Vertex1, t.Vertex2, tol) ||
		equalWithin3F32(t.Vertex2, t.Vertex3, tol) ||
		equalWithin3F32(t.Vertex3, t.Vertex1, tol)
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func (d stlTriangle) toTriangle3() Triangle3 {
	return Triangle3{V: [3]r3.Vec{
		r3From3F32(d.Vertex1),
		r3From3F32(d.Vertex2),
		r3From3F32(d.Vertex3),
	}}
}
