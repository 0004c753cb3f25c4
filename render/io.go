package render

import (
	"errors"
	"io"

	"github.com/funnelworks/funnel/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// RenderAll reads triangles from r until it is exhausted. Like io.ReadAll,
// reaching io.EOF is not an error.
func RenderAll(r Renderer) ([]Triangle3, error) {
	model := make([]Triangle3, 0, 1<<12)
	var batch [1 << 10]Triangle3
	for {
		n, err := r.ReadTriangles(batch[:])
		model = append(model, batch[:n]...)
		if errors.Is(err, io.EOF) {
			return model, nil
		} else if err != nil {
			return model, err
		}
	}
}

// Bounds returns the axis aligned box enclosing all triangle vertices.
// It returns the zero box for an empty model.
func Bounds(model []Triangle3) r3.Box {
	if len(model) == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: model[0].V[0], Max: model[0].V[0]}
	for _, t := range model {
		for _, v := range t.V {
			bb.Min = d3.MinElem(bb.Min, v)
			bb.Max = d3.MaxElem(bb.Max, v)
		}
	}
	return r3.Box(bb)
}

type triangle3Buffer struct {
	buf []Triangle3
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t []Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }
