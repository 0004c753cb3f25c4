package sdf

import (
	"math"
	"strconv"

	"github.com/funnelworks/funnel/internal/d2"
	"github.com/funnelworks/funnel/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// revolution3 solid of revolution, SDF2 to SDF3.
type revolution3 struct {
	sdf   SDF2
	theta float64 // angle for partial revolutions
	norm  r2.Vec  // pre-calculated normal to theta line
	bb    r3.Box
}

// Revolve3D returns an SDF3 for a solid of revolution about the Z axis.
// The X coordinate of the SDF2 maps to the radius and Y maps to Z.
// theta is in radians. For a full revolution call
//
//	Revolve3D(s0, 2*math.Pi)
func Revolve3D(sdf SDF2, theta float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if theta <= 0 {
		return empty3{}
	}
	if math.Abs(theta-tau) < tolerance {
		theta = 0 // internally theta=0 is a full revolution.
	}
	s := revolution3{sdf: sdf}
	s.theta = math.Mod(math.Abs(theta), tau)
	sin, cos := math.Sincos(s.theta)
	// pre-calculate the normal to the theta line
	s.norm = r2.Vec{X: -sin, Y: cos}
	// work out the bounding box
	var vset d2.Set
	if s.theta == 0 {
		vset = d2.Set{{X: 1, Y: 1}, {X: -1, Y: -1}}
	} else {
		vset = d2.Set{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: cos, Y: sin}}
		if s.theta > 0.5*pi {
			vset = append(vset, r2.Vec{X: 0, Y: 1})
		}
		if s.theta > pi {
			vset = append(vset, r2.Vec{X: -1, Y: 0})
		}
		if s.theta > 1.5*pi {
			vset = append(vset, r2.Vec{X: 0, Y: -1})
		}
	}
	bb := sdf.Bounds()
	l := math.Max(math.Abs(bb.Min.X), math.Abs(bb.Max.X))
	vmin := r2.Scale(l, vset.Min())
	vmax := r2.Scale(l, vset.Max())
	s.bb = r3.Box{
		Min: r3.Vec{X: vmin.X, Y: vmin.Y, Z: bb.Min.Y},
		Max: r3.Vec{X: vmax.X, Y: vmax.Y, Z: bb.Max.Y},
	}
	return &s
}

// Evaluate returns the minimum distance to a solid of revolution.
func (s *revolution3) Evaluate(p r3.Vec) float64 {
	x := math.Hypot(p.X, p.Y)
	a := s.sdf.Evaluate(r2.Vec{X: x, Y: p.Z})
	b := a
	if s.theta != 0 {
		// combine two vertical planes to give an intersection wedge
		d := s.norm.Dot(r2.Vec{X: p.X, Y: p.Y})
		if s.theta < pi {
			b = math.Max(-p.Y, d) // intersect
		} else {
			b = math.Min(-p.Y, d) // union
		}
	}
	return math.Max(a, b)
}

// Bounds returns the bounding box for a solid of revolution.
func (s *revolution3) Bounds() r3.Box {
	return s.bb
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf     SDF2
	height  float64
	extrude ExtrudeFunc
	// rate is the twist in radians per unit height and rmax the largest
	// radius of the section. Together they bound the stretch of the mapping.
	rate, rmax float64
	bb         r3.Box
}

// Extrude3D does a linear extrude on an SDF2, centered on z=0.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	s := extrude3{sdf: sdf, height: height / 2, extrude: NormalExtrude}
	bb := sdf.Bounds()
	s.bb = r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height},
	}
	return &s
}

// TwistExtrude3D extrudes an SDF2 while rotating by twist radians over the height of the extrusion.
// The extrusion is centered on z=0. A positive twist turns the section clockwise
// when looking down the Z axis as z increases.
//
// A point at radius r of a section turning k radians per unit height moves
// sqrt(1+(k*r)^2) times faster than along a straight extrusion, so the
// section distance is divided by that factor, taking r no smaller than the
// largest radius of the section. The result is a lower bound of the true distance.
func TwistExtrude3D(sdf SDF2, height, twist float64) SDF3 {
	bb := sdf.Bounds()
	// the section sweeps a disc about the origin.
	l := math.Max(
		math.Max(r2.Norm(bb.Min), r2.Norm(bb.Max)),
		math.Max(math.Hypot(bb.Min.X, bb.Max.Y), math.Hypot(bb.Max.X, bb.Min.Y)),
	)
	s := extrude3{
		sdf:     sdf,
		height:  height / 2,
		extrude: TwistExtrude(height, twist),
		rate:    twist / height,
		rmax:    l,
	}
	s.bb = r3.Box{
		Min: r3.Vec{X: -l, Y: -l, Z: -s.height},
		Max: r3.Vec{X: l, Y: l, Z: s.height},
	}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(s.extrude(p))
	if s.rate != 0 {
		r := math.Max(math.Hypot(p.X, p.Y), s.rmax)
		a /= math.Hypot(1, s.rate*r)
	}
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// transform3 is an SDF3 transformed with an affine transform.
type transform3 struct {
	sdf     SDF3
	inverse M44
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
func Transform3D(sdf SDF3, matrix M44) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	return &transform3{
		sdf:     sdf,
		inverse: matrix.Inv(),
		bb:      r3.Box(matrix.ApplyBox(d3.Box(sdf.Bounds()))),
	}
}

// Evaluate returns the minimum distance to a transformed SDF3.
// Distance is *not* preserved with scaling.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.Apply(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	m := Scale3D(r3.Vec{X: k, Y: k, Z: k})
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   r3.Box(m.ApplyBox(d3.Box(sdf.Bounds()))),
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
// The distance is correct with scaling.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	q := r3.Scale(s.invK, p)
	return s.sdf.Evaluate(q) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list has less than two
// elements or if an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3 {
	if len(sdf) < 2 {
		panic("union require at least 2 sdfs")
	}
	s := union3{sdf: sdf}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
// Members whose bounding box lies farther than the current
// minimum are not evaluated.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		if boxDistance(x.Bounds(), p) > d {
			continue
		}
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// boxDistance returns the distance from p to the box, zero if p is inside.
func boxDistance(b r3.Box, p r3.Vec) float64 {
	q := d3.MaxElem(r3.Sub(b.Min, p), r3.Sub(p, b.Max))
	return r3.Norm(d3.MaxElem(q, r3.Vec{}))
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0 SDF3
	s1 SDF3
	bb r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// The result keeps the bounds of s0.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{s0: s0, s1: s1, bb: s0.Bounds()}
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// empty3 is a solid with no volume. It is used where a
// construction degenerates, e.g. a zero degree revolution.
type empty3 struct {
	center r3.Vec
}

var _ SDF3 = empty3{}

func (e empty3) Evaluate(r3.Vec) float64 {
	return math.MaxFloat64
}

func (e empty3) Bounds() r3.Box {
	return r3.Box{Min: e.center, Max: e.center}
}
