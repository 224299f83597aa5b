package metro

// Environment holds the global simulation parameters: the periodic box
// dimensions, the per-move perturbation limits and the resolved totals.
// It is read-only after construction and shared by every component.
type Environment struct {
	X              float64
	Y              float64
	Z              float64
	MaxTranslation float64
	MaxRotation    float64 // degrees
	NumOfAtoms     int
	NumOfMolecules int
}

// System owns the molecule collection and the environment. It is a passive
// container: molecule indices are stable for the simulation's lifetime and
// all behavior lives in the box implementations.
type System struct {
	Molecules   []Molecule
	Environment *Environment
}
