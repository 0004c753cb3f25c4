package d3

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTransformInverse(t *testing.T) {
	const tol = 1e-9
	rng := rand.New(rand.NewSource(1))
	transforms := []Transform{
		{},
		Translate(r3.Vec{X: 1, Y: -2, Z: 3}),
		RotateX(0.3),
		RotateZ(-1.1),
		RotateZ(2.5),
		MirrorYZ(),
		Scale(r3.Vec{X: 2, Y: 3, Z: 0.5}),
		Translate(r3.Vec{X: 4, Z: 7}).Mul(RotateZ(1).Mul(RotateX(0.4))),
	}
	pts := randomSet(rng, NewBox(r3.Vec{}, Elem(20)), 50)
	for i, tr := range transforms {
		inv := tr.Inv()
		if !tr.Mul(inv).Equal(Transform{}, tol) {
			t.Errorf("transform %d: t*inv(t) is not identity", i)
		}
		for _, p := range pts {
			got := inv.Apply(tr.Apply(p))
			if !EqualWithin(got, p, tol) {
				t.Fatalf("transform %d: roundtrip %v got %v", i, p, got)
			}
		}
	}
}

func TestTransformMulOrder(t *testing.T) {
	// Mul applies the right hand transform first.
	move := Translate(r3.Vec{X: 1})
	rot := RotateZ(math.Pi / 2)
	got := move.Mul(rot).Apply(r3.Vec{X: 1})
	want := r3.Vec{X: 1, Y: 1}
	if !EqualWithin(got, want, 1e-12) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestRotateX(t *testing.T) {
	a := 0.25
	got := RotateX(a).Apply(r3.Vec{Z: 1})
	want := r3.Vec{Y: -math.Sin(a), Z: math.Cos(a)}
	if !EqualWithin(got, want, 1e-12) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestApplyBox(t *testing.T) {
	b := NewBox(r3.Vec{}, r3.Vec{X: 2, Y: 4, Z: 6})
	got := RotateZ(math.Pi / 2).ApplyBox(b)
	want := NewBox(r3.Vec{}, r3.Vec{X: 4, Y: 2, Z: 6})
	if !got.Equals(want, 1e-12) {
		t.Errorf("want %v, got %v", want, got)
	}
	if MirrorYZ().Det() != -1 {
		t.Error("mirror should have negative determinant")
	}
}

// randomSet returns n points uniformly distributed within the box.
func randomSet(rng *rand.Rand, b Box, n int) Set {
	s := make(Set, n)
	sz := b.Size()
	for i := range s {
		s[i] = r3.Vec{
			X: b.Min.X + rng.Float64()*sz.X,
			Y: b.Min.Y + rng.Float64()*sz.Y,
			Z: b.Min.Z + rng.Float64()*sz.Z,
		}
	}
	return s
}
