package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/funnelworks/funnel/form2/must2"
	"github.com/funnelworks/funnel/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// shapeErr is a panic raised by a must2 constructor.
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

// build runs a must2 constructor and recovers its panic as a *shapeErr.
func build(shape string, f func() sdf.SDF2) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			s = nil
			err = &shapeErr{shape: shape, panicObj: a, stack: string(debug.Stack())}
		}
	}()
	return f(), nil
}

// Circle returns the SDF2 for a 2d circle.
func Circle(radius float64) (sdf.SDF2, error) {
	return build("circle", func() sdf.SDF2 { return must2.Circle(radius) })
}

// Box returns a 2d box centered on the origin.
func Box(size r2.Vec, round float64) (sdf.SDF2, error) {
	return build("box", func() sdf.SDF2 { return must2.Box(size, round) })
}
