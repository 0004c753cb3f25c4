package matter

import (
	"math"
	"testing"

	"github.com/funnelworks/funnel/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    ViscousMaterial
		ok      bool
		wantErr bool
	}{
		{"pla", PLA, true, false},
		{"PETG", PETG, true, false},
		{" none ", ViscousMaterial{}, false, false},
		{"", ViscousMaterial{}, false, false},
		{"abs", ViscousMaterial{}, false, true},
	}
	for _, tt := range tests {
		got, ok, err := Lookup(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if ok != tt.ok || got != tt.want {
			t.Errorf("Lookup(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScale(t *testing.T) {
	s := PLA.Scale(must3.Sphere(10))
	r := 10 / (1 - PLA.shrink)
	if d := s.Evaluate(r3.Vec{X: r}); math.Abs(d) > 1e-9 {
		t.Errorf("scaled surface not at %g, distance %g", r, d)
	}
	got := PLA.InternalDimScale(10)
	if want := 10*1.002 + 0.45; math.Abs(got-want) > 1e-12 {
		t.Errorf("InternalDimScale(10) = %g, want %g", got, want)
	}
}
