package metro

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestTransformAtom_TranslationOnly(t *testing.T) {
	a := Atom{X: 1, Y: 2, Z: 3}
	pivot := a
	transformAtom(&a, pivot, moveParams{Delta: [3]float64{0.5, -1, 2}})

	if !almostEqual(a.X, 1.5) || !almostEqual(a.Y, 1) || !almostEqual(a.Z, 5) {
		t.Errorf("translated atom = (%v, %v, %v)", a.X, a.Y, a.Z)
	}
}

func TestTransformAtom_QuarterTurnAboutZ(t *testing.T) {
	// Atom one unit along +x from the pivot, rotated +90 degrees about z,
	// ends up one unit along +y.
	pivot := Atom{X: 5, Y: 5, Z: 5}
	a := Atom{X: 6, Y: 5, Z: 5}
	transformAtom(&a, pivot, moveParams{Deg: [3]float64{0, 0, 90}})

	if !almostEqual(a.X, 5) || !almostEqual(a.Y, 6) || !almostEqual(a.Z, 5) {
		t.Errorf("rotated atom = (%v, %v, %v), want (5, 6, 5)", a.X, a.Y, a.Z)
	}
}

func TestTransformAtom_QuarterTurnAboutX(t *testing.T) {
	// Atom one unit along +y from the pivot, rotated +90 degrees about x,
	// ends up one unit along +z.
	pivot := Atom{X: 5, Y: 5, Z: 5}
	a := Atom{X: 5, Y: 6, Z: 5}
	transformAtom(&a, pivot, moveParams{Deg: [3]float64{90, 0, 0}})

	if !almostEqual(a.X, 5) || !almostEqual(a.Y, 5) || !almostEqual(a.Z, 6) {
		t.Errorf("rotated atom = (%v, %v, %v), want (5, 5, 6)", a.X, a.Y, a.Z)
	}
}

func TestTransformAtom_PivotIsFixedPoint(t *testing.T) {
	pivot := Atom{X: 2, Y: 3, Z: 4}
	a := pivot
	transformAtom(&a, pivot, moveParams{Deg: [3]float64{33, -71, 120}})

	if !almostEqual(a.X, 2) || !almostEqual(a.Y, 3) || !almostEqual(a.Z, 4) {
		t.Errorf("pivot moved under pure rotation: (%v, %v, %v)", a.X, a.Y, a.Z)
	}
}

func TestTransformAtom_FullTurnIsIdentity(t *testing.T) {
	pivot := Atom{X: 1, Y: 1, Z: 1}
	a := Atom{X: 2.5, Y: -0.5, Z: 1.75}
	orig := a
	transformAtom(&a, pivot, moveParams{Deg: [3]float64{360, 0, 0}})

	if math.Abs(a.X-orig.X) > 1e-9 || math.Abs(a.Y-orig.Y) > 1e-9 || math.Abs(a.Z-orig.Z) > 1e-9 {
		t.Errorf("full turn moved the atom: (%v, %v, %v)", a.X, a.Y, a.Z)
	}
}
