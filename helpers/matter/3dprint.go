package matter

import (
	"fmt"
	"strings"

	"github.com/funnelworks/funnel/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "pla", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// PETG shrinks a little more than PLA and strings when pulled.
	PETG = ViscousMaterial{name: "petg", shrink: 0.4e-2, pullShrink: .5}
)

// ViscousMaterial compensates a model for the contraction of
// a printed thermoplastic as it cools.
type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage.
	pullShrink float64
}

// Lookup returns the material with the given name. The name "none" or
// an empty name returns false with no error.
func Lookup(name string) (m ViscousMaterial, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return m, false, nil
	case PLA.name:
		return PLA, true, nil
	case PETG.name:
		return PETG, true, nil
	}
	return m, false, fmt.Errorf("unknown material %q", name)
}

func (m ViscousMaterial) String() string { return m.name }

// Scale enlarges a model so it has its design size once cooled.
func (m ViscousMaterial) Scale(s sdf.SDF3) sdf.SDF3 {
	return sdf.ScaleUniform3D(s, 1/(1-m.shrink))
}

// InternalDimScale returns the dimension to model for an internal feature
// such as a hole so that it measures real once printed.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
