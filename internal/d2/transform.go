package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is a 2D affine transformation (rotation, scaling, translation)
// stored as the top two rows of a 3x3 row major matrix.
// The zero value of Transform is the identity transform.
type Transform struct {
	// diagonal elements are stored with 1 subtracted so
	// the zero value represents the identity.
	d00, x01, x02 float64
	x10, d11, x12 float64
}

// Translate returns a translation by v.
func Translate(v r2.Vec) Transform {
	return Transform{x02: v.X, x12: v.Y}
}

// Rotate returns a counterclockwise rotation of a radians about the origin.
func Rotate(a float64) Transform {
	s, c := math.Sincos(a)
	return Transform{d00: c - 1, x01: -s, x10: s, d11: c - 1}
}

// Scale returns a scaling about the origin.
func Scale(v r2.Vec) Transform {
	return Transform{d00: v.X - 1, d11: v.Y - 1}
}

// Apply returns the transformed position.
func (t Transform) Apply(v r2.Vec) r2.Vec {
	if t == (Transform{}) {
		return v
	}
	return r2.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12,
	}
}

// ApplyBox transforms a 2d bounding box and resizes it for axis alignment.
func (t Transform) ApplyBox(b Box) Box {
	if t == (Transform{}) {
		return b
	}
	v := b.Vertices()
	for i := range v {
		v[i] = t.Apply(v[i])
	}
	return Box{Min: v.Min(), Max: v.Max()}
}

// Mul returns the composition t*b, which applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	a00, a11 := t.d00+1, t.d11+1
	b00, b11 := b.d00+1, b.d11+1
	return Transform{
		d00: a00*b00 + t.x01*b.x10 - 1,
		x01: a00*b.x01 + t.x01*b11,
		x02: a00*b.x02 + t.x01*b.x12 + t.x02,
		x10: t.x10*b00 + a11*b.x10,
		d11: t.x10*b.x01 + a11*b11 - 1,
		x12: t.x10*b.x02 + a11*b.x12 + t.x12,
	}
}

// Det returns the determinant of the linear part of the transform.
func (t Transform) Det() float64 {
	return (t.d00+1)*(t.d11+1) - t.x01*t.x10
}

// Inv returns the inverse transform. A singular transform
// yields a transform with NaN elements.
func (t Transform) Inv() Transform {
	if t == (Transform{}) {
		return t
	}
	d := 1 / t.Det()
	a00, a11 := t.d00+1, t.d11+1
	i00 := a11 * d
	i01 := -t.x01 * d
	i10 := -t.x10 * d
	i11 := a00 * d
	return Transform{
		d00: i00 - 1, x01: i01, x02: -(i00*t.x02 + i01*t.x12),
		x10: i10, d11: i11 - 1, x12: -(i10*t.x02 + i11*t.x12),
	}
}
