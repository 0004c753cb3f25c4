package must2

import (
	"math"

	"github.com/funnelworks/funnel/internal/d2"
	"github.com/funnelworks/funnel/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// polygon is an SDF2 made from a closed set of line segments.
type polygon struct {
	vertex []r2.Vec  // vertices
	vector []r2.Vec  // unit line vectors
	length []float64 // line lengths
	bb     r2.Box    // bounding box
}

// Polygon returns an SDF2 made from a closed set of line segments.
// The vertex slice is not modified.
func Polygon(vertex []r2.Vec) sdf.SDF2 {
	n := len(vertex)
	if n < 3 {
		panic("number of vertices < 3")
	}
	s := polygon{}
	s.vertex = append(make([]r2.Vec, 0, n+1), vertex...)
	// Close the loop (if necessary)
	if !d2.EqualWithin(vertex[0], vertex[n-1], tolerance) {
		s.vertex = append(s.vertex, vertex[0])
	}

	// allocate pre-calculated line segment info
	nsegs := len(s.vertex) - 1
	s.vector = make([]r2.Vec, nsegs)
	s.length = make([]float64, nsegs)

	vmin := s.vertex[0]
	vmax := s.vertex[0]
	for i := 0; i < nsegs; i++ {
		l := r2.Sub(s.vertex[i+1], s.vertex[i])
		s.length[i] = r2.Norm(l)
		if s.length[i] == 0 {
			panic("repeated polygon vertex")
		}
		s.vector[i] = r2.Unit(l)
		vmin = d2.MinElem(vmin, s.vertex[i])
		vmax = d2.MaxElem(vmax, s.vertex[i])
	}
	s.bb = r2.Box{Min: vmin, Max: vmax}
	return &s
}

// Evaluate returns the minimum distance for a 2d polygon.
func (s *polygon) Evaluate(p r2.Vec) float64 {
	dd := math.MaxFloat64 // d^2 to polygon (>0)
	wn := 0               // winding number (inside/outside)

	// iterate over the line segments
	nsegs := len(s.vertex) - 1
	pb := r2.Sub(p, s.vertex[0])

	for i := 0; i < nsegs; i++ {
		a := s.vertex[i]
		b := s.vertex[i+1]

		pa := pb
		pb = r2.Sub(p, b)

		t := r2.Dot(pa, s.vector[i])                                  // t-parameter of projection onto line
		dn := r2.Dot(pa, r2.Vec{X: s.vector[i].Y, Y: -s.vector[i].X}) // normal distance from p to line

		// Distance to line segment
		if t < 0 {
			dd = math.Min(dd, r2.Norm2(pa)) // distance to vertex[0] of line
		} else if t > s.length[i] {
			dd = math.Min(dd, r2.Norm2(pb)) // distance to vertex[1] of line
		} else {
			dd = math.Min(dd, dn*dn) // normal distance to line
		}

		// Is the point in the polygon?
		// See: http://geomalgorithms.com/a03-_inclusion.html
		if a.Y <= p.Y {
			if b.Y > p.Y && dn < 0 { // upward crossing, p left of segment
				wn++
			}
		} else if b.Y <= p.Y && dn > 0 { // downward crossing, p right of segment
			wn--
		}
	}

	d := math.Sqrt(dd)
	if wn != 0 {
		return -d
	}
	return d
}

// Bounds returns the bounding box of a 2d polygon.
func (s *polygon) Bounds() r2.Box {
	return s.bb
}

// Polygon building code.

// PolygonBuilder stores a set of 2d polygon vertices.
type PolygonBuilder struct {
	vlist []polygonVertex
}

// polygonVertex is a polygon vertex.
type polygonVertex struct {
	relative bool   // vertex position is relative to previous vertex
	vertex   r2.Vec // vertex coordinates
}

// Rel positions the polygon vertex relative to the prior vertex.
func (v *polygonVertex) Rel() *polygonVertex {
	v.relative = true
	return v
}

// NewPolygon returns an empty polygon.
func NewPolygon() *PolygonBuilder {
	return &PolygonBuilder{}
}

// AddV2 adds a vertex to a polygon.
func (p *PolygonBuilder) AddV2(x r2.Vec) *polygonVertex {
	p.vlist = append(p.vlist, polygonVertex{vertex: x})
	return &p.vlist[len(p.vlist)-1]
}

// Add an x,y vertex to a polygon.
func (p *PolygonBuilder) Add(x, y float64) *polygonVertex {
	return p.AddV2(r2.Vec{X: x, Y: y})
}

// Vertices returns the absolute vertices of the polygon.
// Relative vertices are resolved against the previous vertex.
func (p *PolygonBuilder) Vertices() []r2.Vec {
	if len(p.vlist) == 0 {
		panic("empty vertex list. was PolygonBuilder initialized?")
	}
	if p.vlist[0].relative {
		panic("relative vertex needs an absolute reference")
	}
	v := make([]r2.Vec, len(p.vlist))
	for i, pv := range p.vlist {
		v[i] = pv.vertex
		if pv.relative {
			v[i] = r2.Add(v[i-1], pv.vertex)
		}
	}
	return v
}
