package funnel

import (
	"fmt"
	"math"

	"github.com/funnelworks/funnel/form2"
	"github.com/funnelworks/funnel/form3"
	"github.com/funnelworks/funnel/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// FinType selects the fin cutouts on the outside of the cone.
// Fins leave channels for air to escape while the funnel sits in a bottle neck.
type FinType int

const (
	FinOff      FinType = iota // no fins
	FinBasic                   // single twisted extrusion per fin, depth bounded by an inset cone
	FinImproved                // stacked extrusions following the local cone diameter
)

func (f FinType) String() (str string) {
	switch f {
	case FinOff:
		str = "off"
	case FinBasic:
		str = "basic"
	case FinImproved:
		str = "improved"
	default:
		str = "unknown"
	}
	return str
}

// FinDirection is the sense of the fin twist going up the cone,
// seen from above.
type FinDirection int

const (
	Clockwise FinDirection = iota
	CounterClockwise
)

const (
	// improvedSegments is the number of stacked extrusions of an improved fin.
	improvedSegments = 12
	// finMargin is how far blades extend past the surface they cut.
	finMargin = 1.0
	// boreOverrun is how far air gap bores extend past the faces they open.
	boreOverrun = 1.0
)

// FinnedParms defines a solid funnel insert: a cone tapering into a stem
// with an air gap channel running through it and optional twisted fins
// cut into the cone. Lengths are in millimetres, angles in degrees.
type FinnedParms struct {
	OuterDiameter    float64 // cone diameter at the base (z=0)
	ConeAngle        float64 // full apex angle of the cone
	StemDiameter     float64
	StemLength       float64
	StemTaper        float64 // stem tip diameter reduction, percent
	AirGapPercentage float64 // air gap diameter as percent of StemDiameter
	FinType          FinType
	FinCount         int
	FinTwistAngle    float64 // helix angle of the fins at the base
	FinDirection     FinDirection
	FinDepth         float64
	// FinWidth is the blade thickness. Zero means 1mm.
	FinWidth float64
	// Thumb tab on the base rim. Zero values select
	// OuterDiameter/5 and 2mm respectively.
	TabDiameter float64
	TabHeight   float64
}

// FinSegment is one stacked extrusion of an improved fin.
// Angles are in degrees.
type FinSegment struct {
	Z        float64 // base height of the segment
	Height   float64
	Diameter float64 // cone diameter at Z
	Twist    float64 // clockwise twist over the segment
	Offset   float64 // accumulated twist of the segments below
}

// ConeHeight returns the height of the cone joining the outer diameter to the stem.
func ConeHeight(k FinnedParms) float64 {
	return (k.OuterDiameter - k.StemDiameter) / (2 * math.Tan(sdf.DtoR(k.ConeAngle/2)))
}

// StemTipDiameter returns the stem diameter at its tapered tip.
func StemTipDiameter(k FinnedParms) float64 {
	return k.StemDiameter * (1 - k.StemTaper/100)
}

// AirGapDiameter returns the diameter of the air gap channel.
func AirGapDiameter(k FinnedParms) float64 {
	return k.StemDiameter * k.AirGapPercentage / 100
}

// FinAngles returns the angular position in degrees of each fin.
func FinAngles(k FinnedParms) []float64 {
	if k.FinCount <= 0 {
		return nil
	}
	offset := 2.5 + 360/k.OuterDiameter
	step := 360 / float64(k.FinCount)
	angles := make([]float64, k.FinCount)
	for i := range angles {
		angles[i] = offset + float64(i)*step
	}
	return angles
}

// ImprovedSegments returns the stacked segments of an improved fin from
// the base of the cone upwards.
func ImprovedSegments(k FinnedParms) []FinSegment {
	h := ConeHeight(k)
	dz := h / improvedSegments
	tanTwist := math.Tan(sdf.DtoR(k.FinTwistAngle))
	segs := make([]FinSegment, improvedSegments)
	acc := 0.0
	for i := range segs {
		z := float64(i) * dz
		d := k.OuterDiameter - (k.OuterDiameter-k.StemDiameter)*z/h
		twist := helixTwist(dz, d, tanTwist)
		segs[i] = FinSegment{Z: z, Height: dz, Diameter: d, Twist: twist, Offset: acc}
		acc += twist
	}
	return segs
}

// helixTwist returns the rotation in degrees of a helix of the
// given pitch angle tangent climbing height on a cylinder of diameter d.
func helixTwist(height, d, tanPitch float64) float64 {
	return height * tanPitch / (math.Pi * d) * 360
}

// Finned returns the finned funnel solid. The base of the cone sits on
// z=0 and the stem points up the Z axis.
func Finned(k FinnedParms) (s sdf.SDF3, err error) {
	h := ConeHeight(k)
	cone, err := form3.Cone(h, k.OuterDiameter/2, k.StemDiameter/2, 0)
	if err != nil {
		return nil, fmt.Errorf("funnel cone: %w", err)
	}
	stem, err := form3.Cone(k.StemLength, k.StemDiameter/2, StemTipDiameter(k)/2, 0)
	if err != nil {
		return nil, fmt.Errorf("funnel stem: %w", err)
	}
	s = sdf.Union3D(
		sdf.Transform3D(cone, sdf.Translate3D(r3.Vec{Z: h / 2})),
		sdf.Transform3D(stem, sdf.Translate3D(r3.Vec{Z: h + k.StemLength/2})),
	)

	if g := AirGapDiameter(k); g > 0 {
		gap, err := airGap(k, h, g)
		if err != nil {
			return nil, fmt.Errorf("funnel air gap: %w", err)
		}
		s = sdf.Difference3D(s, gap)
	}

	fins, err := finCutter(k, h)
	if err != nil {
		return nil, fmt.Errorf("funnel fins: %w", err)
	}
	if fins != nil {
		if k.FinDirection == CounterClockwise {
			fins = sdf.Transform3D(fins, sdf.MirrorYZ())
		}
		s = sdf.Difference3D(s, fins)
	}

	tab, err := thumbTab(k)
	if err != nil {
		return nil, fmt.Errorf("funnel tab: %w", err)
	}
	return sdf.Union3D(s, tab), nil
}

// airGap returns the channel that lets air out of the vessel: a ball at the
// cone/stem junction, a bore up the stem and a bore down along the cone slant.
func airGap(k FinnedParms, h, g float64) (sdf.SDF3, error) {
	junction := r3.Vec{Z: h}
	ball, err := form3.Sphere(g / 2)
	if err != nil {
		return nil, err
	}
	straightLen := k.StemLength + 2*boreOverrun
	straight, err := form3.Cylinder(straightLen, g/2, 0)
	if err != nil {
		return nil, err
	}
	half := sdf.DtoR(k.ConeAngle / 2)
	slantLen := h/math.Cos(half) + 2*boreOverrun
	slant, err := form3.Cylinder(slantLen, g/2, 0)
	if err != nil {
		return nil, err
	}
	sin, cos := math.Sincos(half)
	dir := r3.Vec{Y: sin, Z: -cos} // down the slant, in the YZ plane
	center := r3.Add(junction, r3.Scale(slantLen/2-boreOverrun, dir))
	return sdf.Union3D(
		sdf.Transform3D(ball, sdf.Translate3D(junction)),
		sdf.Transform3D(straight, sdf.Translate3D(r3.Vec{Z: h + straightLen/2})),
		sdf.Transform3D(slant, sdf.Translate3D(center).Mul(sdf.RotateX(half))),
	), nil
}

// finCutter returns the clockwise fin cutouts or nil if there are none.
func finCutter(k FinnedParms, h float64) (sdf.SDF3, error) {
	angles := FinAngles(k)
	if len(angles) == 0 {
		return nil, nil
	}
	width := k.FinWidth
	if width == 0 {
		width = 1
	}
	switch k.FinType {
	case FinBasic:
		return basicFins(k, h, width, angles)
	case FinImproved:
		return improvedFins(k, width, angles)
	}
	return nil, nil
}

func basicFins(k FinnedParms, h, width float64, angles []float64) (sdf.SDF3, error) {
	length := k.OuterDiameter/2 + finMargin
	blade, err := bladeSection(0, length, width)
	if err != nil {
		return nil, err
	}
	twist := helixTwist(h, k.OuterDiameter, math.Tan(sdf.DtoR(k.FinTwistAngle)))
	seg := FinSegment{Height: h, Twist: twist}
	blades := placeBlades(angles, twistedSegment(blade, seg))

	// keep only the outer FinDepth of the blades, measured normal to the slant.
	inset := k.FinDepth / math.Cos(sdf.DtoR(k.ConeAngle/2))
	core, err := form3.Cone(h, math.Max(k.OuterDiameter/2-inset, 0), math.Max(k.StemDiameter/2-inset, 0), 0)
	if err != nil {
		return nil, err
	}
	return sdf.Difference3D(blades, sdf.Transform3D(core, sdf.Translate3D(r3.Vec{Z: h / 2}))), nil
}

func improvedFins(k FinnedParms, width float64, angles []float64) (sdf.SDF3, error) {
	segs := ImprovedSegments(k)
	parts := make([]sdf.SDF3, len(segs))
	for i, seg := range segs {
		blade, err := bladeSection(seg.Diameter/2-k.FinDepth, seg.Diameter/2+finMargin, width)
		if err != nil {
			return nil, err
		}
		parts[i] = twistedSegment(blade, seg)
	}
	return placeBlades(angles, union(parts)), nil
}

// bladeSection returns the cross section of a fin blade spanning x0 to x1
// radially, centered on the X axis.
func bladeSection(x0, x1, width float64) (sdf.SDF2, error) {
	b, err := form2.Box(r2.Vec{X: x1 - x0, Y: width}, 0)
	if err != nil {
		return nil, err
	}
	return sdf.Transform2D(b, sdf.Translate2D(r2.Vec{X: (x0 + x1) / 2})), nil
}

// twistedSegment extrudes a blade section over a segment so that its bottom
// face is rotated clockwise by seg.Offset and its top face by seg.Offset+seg.Twist.
func twistedSegment(blade sdf.SDF2, seg FinSegment) sdf.SDF3 {
	s := sdf.TwistExtrude3D(blade, seg.Height, sdf.DtoR(seg.Twist))
	m := sdf.Translate3D(r3.Vec{Z: seg.Z + seg.Height/2}).
		Mul(sdf.RotateZ(-sdf.DtoR(seg.Offset + seg.Twist/2)))
	return sdf.Transform3D(s, m)
}

// placeBlades returns a copy of blade rotated to each of the angles.
func placeBlades(angles []float64, blade sdf.SDF3) sdf.SDF3 {
	parts := make([]sdf.SDF3, len(angles))
	for i, a := range angles {
		parts[i] = sdf.Transform3D(blade, sdf.RotateZ(sdf.DtoR(a)))
	}
	return union(parts)
}

// thumbTab returns the tab standing on the base rim on the -Y side,
// opposite the air gap exit.
func thumbTab(k FinnedParms) (sdf.SDF3, error) {
	d, height := k.TabDiameter, k.TabHeight
	if d == 0 {
		d = k.OuterDiameter / 5
	}
	if height == 0 {
		height = 2
	}
	disc, err := form2.Circle(d / 2)
	if err != nil {
		return nil, err
	}
	tab := sdf.Extrude3D(disc, height)
	// slant radius of the cone at half tab height.
	rho := k.OuterDiameter/2 - height/2*math.Tan(sdf.DtoR(k.ConeAngle/2))
	return sdf.Transform3D(tab, sdf.Translate3D(r3.Vec{Y: -rho, Z: height / 2})), nil
}

func union(s []sdf.SDF3) sdf.SDF3 {
	if len(s) == 1 {
		return s[0]
	}
	return sdf.Union3D(s...)
}
