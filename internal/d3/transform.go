package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a 3D affine transformation stored as the top
// three rows of a 4x4 row major matrix.
// The zero value of Transform is the identity transform.
type Transform struct {
	// diagonal elements are stored with 1 subtracted so
	// the zero value represents the identity.
	d00, x01, x02, x03 float64
	x10, d11, x12, x13 float64
	x20, x21, d22, x23 float64
}

// NewTransform returns a transform from a row major 3x4 matrix.
func NewTransform(a [12]float64) Transform {
	return Transform{
		d00: a[0] - 1, x01: a[1], x02: a[2], x03: a[3],
		x10: a[4], d11: a[5] - 1, x12: a[6], x13: a[7],
		x20: a[8], x21: a[9], d22: a[10] - 1, x23: a[11],
	}
}

// Translate returns a translation by v.
func Translate(v r3.Vec) Transform {
	return Transform{x03: v.X, x13: v.Y, x23: v.Z}
}

// Scale returns a scaling about the origin.
func Scale(v r3.Vec) Transform {
	return Transform{d00: v.X - 1, d11: v.Y - 1, d22: v.Z - 1}
}

// RotateX returns a counterclockwise rotation of a radians about the X axis.
func RotateX(a float64) Transform {
	s, c := math.Sincos(a)
	return NewTransform([12]float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
	})
}

// RotateZ returns a counterclockwise rotation of a radians about the Z axis.
func RotateZ(a float64) Transform {
	s, c := math.Sincos(a)
	return NewTransform([12]float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
	})
}

// MirrorYZ returns a reflection across the YZ plane (x -> -x).
func MirrorYZ() Transform {
	return Transform{d00: -2}
}

func (t Transform) rows() [12]float64 {
	return [12]float64{
		t.d00 + 1, t.x01, t.x02, t.x03,
		t.x10, t.d11 + 1, t.x12, t.x13,
		t.x20, t.x21, t.d22 + 1, t.x23,
	}
}

// Apply returns the transformed position.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	if t == (Transform{}) {
		return v
	}
	m := t.rows()
	return r3.Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// ApplyBox transforms a 3d bounding box and resizes it for axis alignment.
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
	x, y := t.rows(), b.rows()
	var r [12]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			v := x[4*i+0]*y[j] + x[4*i+1]*y[4+j] + x[4*i+2]*y[8+j]
			if j == 3 {
				v += x[4*i+3]
			}
			r[4*i+j] = v
		}
	}
	return NewTransform(r)
}

// Det returns the determinant of the linear part of the transform.
func (t Transform) Det() float64 {
	m := t.rows()
	return m[0]*(m[5]*m[10]-m[6]*m[9]) -
		m[1]*(m[4]*m[10]-m[6]*m[8]) +
		m[2]*(m[4]*m[9]-m[5]*m[8])
}

// Inv returns the inverse transform. A singular transform
// yields a transform with NaN or Inf elements.
func (t Transform) Inv() Transform {
	if t == (Transform{}) {
		return t
	}
	m := t.rows()
	d := 1 / t.Det()
	// inverse of the linear part by cofactors.
	i00 := (m[5]*m[10] - m[6]*m[9]) * d
	i01 := (m[2]*m[9] - m[1]*m[10]) * d
	i02 := (m[1]*m[6] - m[2]*m[5]) * d
	i10 := (m[6]*m[8] - m[4]*m[10]) * d
	i11 := (m[0]*m[10] - m[2]*m[8]) * d
	i12 := (m[2]*m[4] - m[0]*m[6]) * d
	i20 := (m[4]*m[9] - m[5]*m[8]) * d
	i21 := (m[1]*m[8] - m[0]*m[9]) * d
	i22 := (m[0]*m[5] - m[1]*m[4]) * d
	tx, ty, tz := m[3], m[7], m[11]
	return NewTransform([12]float64{
		i00, i01, i02, -(i00*tx + i01*ty + i02*tz),
		i10, i11, i12, -(i10*tx + i11*ty + i12*tz),
		i20, i21, i22, -(i20*tx + i21*ty + i22*tz),
	})
}

// Equal reports whether the elements of a and b are within tol of each other.
func (t Transform) Equal(b Transform, tol float64) bool {
	x, y := t.rows(), b.rows()
	for i := range x {
		if math.Abs(x[i]-y[i]) > tol {
			return false
		}
	}
	return true
}
