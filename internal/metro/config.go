package metro

// AtomConfig describes one atom of a molecule in the construction bundle.
type AtomConfig struct {
	ID      int     `json:"id"`
	Element string  `json:"element,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Sigma   float64 `json:"sigma,omitempty"`
	Epsilon float64 `json:"epsilon,omitempty"`
	Charge  float64 `json:"charge,omitempty"`
}

// BondConfig references atoms by their indices within the molecule.
type BondConfig struct {
	Atom1    int     `json:"atom1"`
	Atom2    int     `json:"atom2"`
	Distance float64 `json:"distance,omitempty"`
	Variable bool    `json:"variable,omitempty"`
}

type AngleConfig struct {
	Atom1    int     `json:"atom1"`
	Atom2    int     `json:"atom2"`
	Value    float64 `json:"value,omitempty"`
	Variable bool    `json:"variable,omitempty"`
}

type DihedralConfig struct {
	Atom1    int     `json:"atom1"`
	Atom2    int     `json:"atom2"`
	Value    float64 `json:"value,omitempty"`
	Variable bool    `json:"variable,omitempty"`
}

type HopConfig struct {
	Atom1    int `json:"atom1"`
	Atom2    int `json:"atom2"`
	Distance int `json:"distance"`
}

type MoleculeConfig struct {
	ID        int              `json:"id"`
	Atoms     []AtomConfig     `json:"atoms"`
	Bonds     []BondConfig     `json:"bonds,omitempty"`
	Angles    []AngleConfig    `json:"angles,omitempty"`
	Dihedrals []DihedralConfig `json:"dihedrals,omitempty"`
	Hops      []HopConfig      `json:"hops,omitempty"`
}

// EnvironmentConfig carries the global simulation parameters. Counts may be
// omitted, in which case the builder resolves them from the molecule
// collection; when present they must match it.
type EnvironmentConfig struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Z              float64 `json:"z"`
	MaxTranslation float64 `json:"max_translation"`
	MaxRotation    float64 `json:"max_rotation"`
	NumOfAtoms     int     `json:"num_of_atoms,omitempty"`
	NumOfMolecules int     `json:"num_of_molecules,omitempty"`
}

// SystemConfig is the full construction bundle for a simulation box.
type SystemConfig struct {
	Name        string            `json:"name"`
	Environment EnvironmentConfig `json:"environment"`
	Molecules   []MoleculeConfig  `json:"molecules"`
}
