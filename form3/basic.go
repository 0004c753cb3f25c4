package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/funnelworks/funnel/form3/must3"
	"github.com/funnelworks/funnel/sdf"
)

// shapeErr is a panic raised by a must3 constructor.
type shapeErr struct {
	shape    string
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s: %v", s.shape, s.panicObj)
}

// Stack returns the stack trace captured when the shape failed to build.
func (s *shapeErr) Stack() string {
	return s.stack
}

func build(shape string, f func() sdf.SDF3) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			s = nil
			err = &shapeErr{shape: shape, panicObj: a, stack: string(debug.Stack())}
		}
	}()
	return f(), nil
}

// Sphere return an SDF3 for a sphere.
func Sphere(radius float64) (sdf.SDF3, error) {
	return build("sphere", func() sdf.SDF3 { return must3.Sphere(radius) })
}

// Cylinder return an SDF3 for a cylinder (rounded edges with round > 0).
func Cylinder(height, radius, round float64) (sdf.SDF3, error) {
	return build("cylinder", func() sdf.SDF3 { return must3.Cylinder(height, radius, round) })
}

// Cone returns the SDF3 for a truncated cone (round > 0 gives rounded edges).
// r0 is the bottom radius and r1 the top radius.
func Cone(height, r0, r1, round float64) (sdf.SDF3, error) {
	return build("cone", func() sdf.SDF3 { return must3.Cone(height, r0, r1, round) })
}
