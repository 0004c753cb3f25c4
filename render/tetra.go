package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Marching tetrahedra. Each cube is split into 6 tetrahedra sharing the
// diagonal from corner 0 to corner 6. Neighbouring cubes split their
// shared faces the same way so the resulting surface is watertight.

// cubeMaxTriangles is the maximum number of triangles a cube can emit.
const cubeMaxTriangles = 2 * len(cubeTetrahedra)

// cubeTetrahedra are the corner indices of the tetrahedra of a cube
// with corners ordered as in octree.processCube.
var cubeTetrahedra = [6][4]int{
	{0, 6, 1, 2},
	{0, 6, 2, 3},
	{0, 6, 3, 7},
	{0, 6, 7, 4},
	{0, 6, 4, 5},
	{0, 6, 5, 1},
}

// mtToTriangles writes the triangles of the iso surface at level x within
// a cube to dst and returns how many were written. dst must have room for
// cubeMaxTriangles triangles.
func mtToTriangles(dst []Triangle3, p [8]r3.Vec, v [8]float64, x float64) int {
	n := 0
	for _, tet := range cubeTetrahedra {
		var tp [4]r3.Vec
		var tv [4]float64
		for i, c := range tet {
			tp[i] = p[c]
			tv[i] = v[c] - x
		}
		n += tetraToTriangles(dst[n:], tp, tv)
	}
	return n
}

// tetraToTriangles emits 0, 1 or 2 triangles for a tetrahedron.
// Negative values are inside the surface.
func tetraToTriangles(dst []Triangle3, p [4]r3.Vec, v [4]float64) int {
	var in, out [4]int
	nin, nout := 0, 0
	for i := range v {
		if v[i] < 0 {
			in[nin] = i
			nin++
		} else {
			out[nout] = i
			nout++
		}
	}
	if nin == 0 || nout == 0 {
		return 0
	}
	// direction from the inside vertices towards the outside ones.
	var cin, cout r3.Vec
	for _, i := range in[:nin] {
		cin = r3.Add(cin, p[i])
	}
	for _, i := range out[:nout] {
		cout = r3.Add(cout, p[i])
	}
	dir := r3.Sub(r3.Scale(1/float64(nout), cout), r3.Scale(1/float64(nin), cin))

	edge := func(a, b int) r3.Vec {
		t := v[a] / (v[a] - v[b])
		return r3.Add(p[a], r3.Scale(t, r3.Sub(p[b], p[a])))
	}
	n := 0
	emit := func(a, b, c r3.Vec) {
		t := Triangle3{V: [3]r3.Vec{a, b, c}}
		if r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)), dir) < 0 {
			t.V[1], t.V[2] = c, b
		}
		if t.Degenerate(epsilon) {
			return
		}
		dst[n] = t
		n++
	}
	switch {
	case nin == 1:
		a := in[0]
		emit(edge(a, out[0]), edge(a, out[1]), edge(a, out[2]))
	case nout == 1:
		a := out[0]
		emit(edge(in[0], a), edge(in[1], a), edge(in[2], a))
	default:
		a, b := in[0], in[1]
		c, d := out[0], out[1]
		ac, ad, bd, bc := edge(a, c), edge(a, d), edge(b, d), edge(b, c)
		emit(ac, ad, bd)
		emit(ac, bd, bc)
	}
	return n
}

const epsilon = 1e-12
