package must2

import (
	"math"

	"github.com/funnelworks/funnel/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

const tolerance = 1e-9

// 2D Circle

// circle is the 2d signed distance object for a circle.
type circle struct {
	radius float64
	bb     r2.Box
}

// Circle returns the SDF2 for a 2d circle.
func Circle(radius float64) *circle {
	if radius <= 0 {
		panic("radius <= 0")
	}
	d := r2.Vec{X: radius, Y: radius}
	return &circle{
		radius: radius,
		bb:     r2.Box{Min: r2.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a 2d circle.
func (s *circle) Evaluate(p r2.Vec) float64 {
	return r2.Norm(p) - s.radius
}

// Bounds returns the bounding box of a 2d circle.
func (s *circle) Bounds() r2.Box {
	return s.bb
}

// 2D Box (rounded corners with round > 0)

// box is the 2d signed distance object for a rectangular box.
type box struct {
	size  r2.Vec
	round float64
	bb    r2.Box
}

// Box returns a 2d box centered on the origin.
func Box(size r2.Vec, round float64) *box {
	if size.X <= 0 || size.Y <= 0 {
		panic("size <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	size = r2.Scale(0.5, size)
	if round > math.Min(size.X, size.Y) {
		panic("round > half of the smallest side")
	}
	return &box{
		size:  r2.Sub(size, d2.Elem(round)),
		round: round,
		bb:    r2.Box{Min: r2.Scale(-1, size), Max: size},
	}
}

// Evaluate returns the minimum distance to a 2d box.
func (s *box) Evaluate(p r2.Vec) float64 {
	return sdfBox2d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 2d box.
func (s *box) Bounds() r2.Box {
	return s.bb
}

func sdfBox2d(p, s r2.Vec) float64 {
	p = d2.AbsElem(p)
	d := r2.Sub(p, s)
	k := s.Y - s.X
	if d.X > 0 && d.Y > 0 {
		return r2.Norm(d)
	}
	if p.Y-p.X > k {
		return d.Y
	}
	return d.X
}
