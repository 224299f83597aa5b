package metro

// Atom is a single particle in a molecule. Position is in box coordinates;
// Sigma, Epsilon and Charge are force-field parameters carried for the
// external energy evaluator but never interpreted here.
type Atom struct {
	ID      int
	Element string
	X       float64
	Y       float64
	Z       float64
	Sigma   float64
	Epsilon float64
	Charge  float64
}

// Bond connects two atoms, referenced by their indices within the molecule.
type Bond struct {
	Atom1    int
	Atom2    int
	Distance float64
	Variable bool
}

// Angle is the angle formed at the bond chain between two end atoms.
type Angle struct {
	Atom1    int
	Atom2    int
	Value    float64
	Variable bool
}

// Dihedral is the torsion angle between two atoms across a bond chain.
type Dihedral struct {
	Atom1    int
	Atom2    int
	Value    float64
	Variable bool
}

// Hop records the number of bonds separating two atoms in a molecule's
// connectivity graph.
type Hop struct {
	Atom1    int
	Atom2    int
	Distance int
}
