package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func Elem(sides float64) r2.Vec {
	return r2.Vec{X: sides, Y: sides}
}

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

func AbsElem(a r2.Vec) r2.Vec {
	return r2.Vec{X: math.Abs(a.X), Y: math.Abs(a.Y)}
}

// Cross returns the z component of the cross product a x b.
func Cross(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

type Set []r2.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// SegmentsIntersect reports whether the closed segments p0-p1 and q0-q1 share a point.
func SegmentsIntersect(p0, p1, q0, q1 r2.Vec) bool {
	d1 := Cross(r2.Sub(q1, q0), r2.Sub(p0, q0))
	d2 := Cross(r2.Sub(q1, q0), r2.Sub(p1, q0))
	d3 := Cross(r2.Sub(p1, p0), r2.Sub(q0, p0))
	d4 := Cross(r2.Sub(p1, p0), r2.Sub(q1, p0))
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(q0, q1, p0):
		return true
	case d2 == 0 && onSegment(q0, q1, p1):
		return true
	case d3 == 0 && onSegment(p0, p1, q0):
		return true
	case d4 == 0 && onSegment(p0, p1, q1):
		return true
	}
	return false
}

// onSegment reports whether collinear point p lies within the bounding box of a-b.
func onSegment(a, b, p r2.Vec) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
