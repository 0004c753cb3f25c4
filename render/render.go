package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams the triangles of a tessellated model.
// ReadTriangles returns io.EOF once the model has been fully read.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle. Vertices are ordered counterclockwise
// when seen from outside the model.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle given by its winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two vertices of the triangle are within tol
// of each other or the vertices are collinear within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	if r3.Norm(r3.Sub(t.V[0], t.V[1])) <= tol ||
		r3.Norm(r3.Sub(t.V[1], t.V[2])) <= tol ||
		r3.Norm(r3.Sub(t.V[2], t.V[0])) <= tol {
		return true
	}
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Norm(r3.Cross(e1, e2)) <= tol*tol
}
