package form2

import (
	"github.com/funnelworks/funnel/form2/must2"
	"github.com/funnelworks/funnel/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon returns an SDF2 made from a closed set of line segments.
func Polygon(vertex []r2.Vec) (sdf.SDF2, error) {
	return build("polygon", func() sdf.SDF2 { return must2.Polygon(vertex) })
}

// NewPolygon returns an empty polygon builder. Pass its Vertices to Polygon.
func NewPolygon() *must2.PolygonBuilder {
	return must2.NewPolygon()
}
