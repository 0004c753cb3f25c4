package sdf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	pi        = math.Pi
	tau       = 2 * pi
	tolerance = 1e-9
)

// DtoR converts degrees to radians.
func DtoR(degrees float64) float64 { return degrees * pi / 180 }

// ExtrudeFunc maps a 3D point to the 2D point at which an extruded
// section is evaluated.
type ExtrudeFunc func(p r3.Vec) r2.Vec

// NormalExtrude projects p onto the XY plane.
func NormalExtrude(p r3.Vec) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// TwistExtrude rotates the section by twist radians over height.
func TwistExtrude(height, twist float64) ExtrudeFunc {
	k := twist / height
	return func(p r3.Vec) r2.Vec {
		return Rotate2D(p.Z * k).Apply(r2.Vec{X: p.X, Y: p.Y})
	}
}
