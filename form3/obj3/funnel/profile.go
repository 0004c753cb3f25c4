package funnel

import (
	"fmt"
	"math"

	"github.com/funnelworks/funnel/form2"
	"github.com/funnelworks/funnel/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// ProfileParms defines a thin walled funnel: a conical shell with a
// cylindrical throat below it and a short vertical lip above it.
// All dimensions are in millimetres.
type ProfileParms struct {
	FunnelHeight    float64 // height of the conical section
	FunnelTopRadius float64 // inner radius at the top of the cone
	ThroatHeight    float64 // height of the cylindrical throat
	ThroatRadius    float64 // inner radius of the throat
	WallThickness   float64
	TopEdgeHeight   float64 // height of the vertical lip above the cone
}

// ProfileVertices returns the 9 vertices of the funnel wall cross section
// ordered counterclockwise starting at the inner bottom of the throat.
// X is the radial coordinate relative to FunnelTopRadius, Y is height.
func ProfileVertices(k ProfileParms) []r2.Vec {
	R, r := k.FunnelTopRadius, k.ThroatRadius
	w := k.WallThickness
	zc := k.ThroatHeight                  // cone start
	zt := k.ThroatHeight + k.FunnelHeight // cone top
	// the outer cone wall is the inner one offset by w along its normal.
	slope := (R - r) / k.FunnelHeight
	sec := math.Sqrt(1 + slope*slope)
	c := w * sec                  // horizontal wall thickness of the cone
	drop := w * slope / (sec + 1) // outer wall meets the throat below zc

	p := form2.NewPolygon()
	p.Add(r, 0)
	p.Add(w, 0).Rel()
	p.Add(r+w, zc-drop)
	p.Add(R+c, zt)
	p.Add(R+w, zt)
	p.Add(0, k.TopEdgeHeight).Rel()
	p.Add(-w, 0).Rel()
	p.Add(R, zt)
	p.Add(r, zc)
	v := p.Vertices()
	for i := range v {
		v[i].X -= R
	}
	return v
}

// Profile returns the funnel shell as the wall cross section
// revolved about the Z axis. The throat bottom sits on z=0.
func Profile(k ProfileParms) (sdf.SDF3, error) {
	poly, err := form2.Polygon(ProfileVertices(k))
	if err != nil {
		return nil, fmt.Errorf("funnel profile: %w", err)
	}
	poly = sdf.Transform2D(poly, sdf.Translate2D(r2.Vec{X: k.FunnelTopRadius}))
	return sdf.Revolve3D(poly, 2*math.Pi), nil
}
