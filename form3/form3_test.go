package form3

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestShapeErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		f    func() error
		want string
	}{
		{"sphere", func() error { _, err := Sphere(0); return err }, "sphere: radius <= 0"},
		{"cylinder", func() error { _, err := Cylinder(1, 1, 0.6); return err }, "cylinder:"},
		{"cone", func() error { _, err := Cone(1, 0, 0, 0); return err }, "cone: both radii are zero"},
		{"cone height", func() error { _, err := Cone(-1, 1, 1, 0); return err }, "cone: height <= 0"},
	} {
		err := test.f()
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: want error containing %q, got %v", test.name, test.want, err)
			continue
		}
		var serr *shapeErr
		if !errors.As(err, &serr) || serr.Stack() == "" {
			t.Errorf("%s: expected shape error with stack", test.name)
		}
	}
}

func TestConeRadii(t *testing.T) {
	// r0 is at the bottom.
	s, err := Cone(10, 4, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		p    r3.Vec
		want float64 // sign only
	}{
		{p: r3.Vec{X: 3.5, Z: -4.9}, want: -1},
		{p: r3.Vec{X: 3.5, Z: 4.9}, want: 1},
		{p: r3.Vec{Y: 1.9, Z: 4.9}, want: -1},
		{p: r3.Vec{Z: 5.5}, want: 1},
	} {
		if got := s.Evaluate(test.p); math.Signbit(got) != math.Signbit(test.want) {
			t.Errorf("at %v want sign of %g, got %g", test.p, test.want, got)
		}
	}
}
