package metro

import (
	"reflect"
	"testing"
)

// newTestMolecule builds a molecule with every sub-collection populated so
// copy and restore tests exercise all of them.
func newTestMolecule(id int) Molecule {
	return Molecule{
		ID: id,
		Atoms: []Atom{
			{ID: 0, Element: "O", X: 1.0, Y: 2.0, Z: 3.0, Sigma: 3.15, Epsilon: 0.152, Charge: -0.834},
			{ID: 1, Element: "H", X: 1.9, Y: 2.0, Z: 3.0, Charge: 0.417},
			{ID: 2, Element: "H", X: 0.7, Y: 2.9, Z: 3.0, Charge: 0.417},
		},
		Bonds: []Bond{
			{Atom1: 0, Atom2: 1, Distance: 0.9572, Variable: false},
			{Atom1: 0, Atom2: 2, Distance: 0.9572, Variable: false},
		},
		Angles: []Angle{
			{Atom1: 1, Atom2: 2, Value: 104.52},
		},
		Dihedrals: []Dihedral{
			{Atom1: 1, Atom2: 2, Value: 0, Variable: true},
		},
		Hops: []Hop{
			{Atom1: 1, Atom2: 2, Distance: 2},
		},
	}
}

func TestMolecule_Clone(t *testing.T) {
	src := newTestMolecule(7)
	clone := src.Clone()

	if !reflect.DeepEqual(src, clone) {
		t.Fatalf("clone differs from source:\n src=%+v\ngot=%+v", src, clone)
	}

	// The clone must be standalone: mutating the source must not show
	// through it.
	src.Atoms[0].X = 99
	src.Bonds[0].Distance = 99
	src.Angles[0].Value = 99
	src.Dihedrals[0].Value = 99
	src.Hops[0].Distance = 99
	src.ID = 99

	if clone.Atoms[0].X == 99 || clone.Bonds[0].Distance == 99 ||
		clone.Angles[0].Value == 99 || clone.Dihedrals[0].Value == 99 ||
		clone.Hops[0].Distance == 99 || clone.ID == 99 {
		t.Error("clone shares storage with its source")
	}
}

func TestMolecule_CloneExactSizing(t *testing.T) {
	src := newTestMolecule(1)
	clone := src.Clone()

	checks := []struct {
		name     string
		len, cap int
	}{
		{"atoms", len(clone.Atoms), cap(clone.Atoms)},
		{"bonds", len(clone.Bonds), cap(clone.Bonds)},
		{"angles", len(clone.Angles), cap(clone.Angles)},
		{"dihedrals", len(clone.Dihedrals), cap(clone.Dihedrals)},
		{"hops", len(clone.Hops), cap(clone.Hops)},
	}
	for _, c := range checks {
		if c.len != c.cap {
			t.Errorf("%s: clone capacity %d exceeds count %d, want exact sizing", c.name, c.cap, c.len)
		}
	}
}

func TestCopyMolecule_CapacityMismatchLeavesDestinationUntouched(t *testing.T) {
	src := newTestMolecule(1)
	dst := Molecule{
		ID:        2,
		Atoms:     make([]Atom, 1), // too small for src's three atoms
		Bonds:     make([]Bond, 2),
		Angles:    make([]Angle, 1),
		Dihedrals: make([]Dihedral, 1),
		Hops:      make([]Hop, 1),
	}
	before := dst.Clone()

	err := copyMolecule(&dst, &src)
	if err == nil {
		t.Fatal("expected capacity mismatch error")
	}
	if !reflect.DeepEqual(dst, before) {
		t.Error("failed copy modified the destination")
	}
}
