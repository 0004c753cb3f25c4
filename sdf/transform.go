package sdf

import (
	"github.com/funnelworks/funnel/internal/d2"
	"github.com/funnelworks/funnel/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// M33 is a 2D affine transform. The zero value is the identity.
type M33 = d2.Transform

// M44 is a 3D affine transform. The zero value is the identity.
type M44 = d3.Transform

// Translate2D returns a 2D translation by v.
func Translate2D(v r2.Vec) M33 { return d2.Translate(v) }

// Rotate2D returns a 2D counterclockwise rotation by a radians.
func Rotate2D(a float64) M33 { return d2.Rotate(a) }

// Translate3D returns a 3D translation by v.
func Translate3D(v r3.Vec) M44 { return d3.Translate(v) }

// Scale3D returns a 3D scaling about the origin.
func Scale3D(v r3.Vec) M44 { return d3.Scale(v) }

// RotateX returns a counterclockwise rotation by a radians about the X axis.
func RotateX(a float64) M44 { return d3.RotateX(a) }

// RotateZ returns a counterclockwise rotation by a radians about the Z axis.
func RotateZ(a float64) M44 { return d3.RotateZ(a) }

// MirrorYZ returns a reflection across the YZ plane, negating X.
func MirrorYZ() M44 { return d3.MirrorYZ() }
