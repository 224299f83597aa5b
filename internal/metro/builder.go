package metro

import "fmt"

// BuildSystemFromConfig turns a validated SystemConfig into an owned System:
// exactly-sized molecule collections and a resolved Environment. The input
// should have passed ValidateSystemConfig first; the builder re-checks only
// what it cannot build without.
func BuildSystemFromConfig(cfg SystemConfig) (*System, error) {
	if len(cfg.Molecules) == 0 {
		return nil, fmt.Errorf("cannot build system %q: no molecules", cfg.Name)
	}

	molecules := make([]Molecule, len(cfg.Molecules))
	totalAtoms := 0
	for i, mc := range cfg.Molecules {
		if len(mc.Atoms) == 0 {
			return nil, fmt.Errorf("cannot build system %q: molecule %d has no atoms", cfg.Name, mc.ID)
		}
		molecules[i] = buildMolecule(mc)
		totalAtoms += len(mc.Atoms)
	}

	env := &Environment{
		X:              cfg.Environment.X,
		Y:              cfg.Environment.Y,
		Z:              cfg.Environment.Z,
		MaxTranslation: cfg.Environment.MaxTranslation,
		MaxRotation:    cfg.Environment.MaxRotation,
		NumOfAtoms:     totalAtoms,
		NumOfMolecules: len(molecules),
	}

	return &System{Molecules: molecules, Environment: env}, nil
}

func buildMolecule(mc MoleculeConfig) Molecule {
	m := Molecule{
		ID:        mc.ID,
		Atoms:     make([]Atom, len(mc.Atoms)),
		Bonds:     make([]Bond, len(mc.Bonds)),
		Angles:    make([]Angle, len(mc.Angles)),
		Dihedrals: make([]Dihedral, len(mc.Dihedrals)),
		Hops:      make([]Hop, len(mc.Hops)),
	}

	for i, ac := range mc.Atoms {
		m.Atoms[i] = Atom{
			ID:      ac.ID,
			Element: ac.Element,
			X:       ac.X,
			Y:       ac.Y,
			Z:       ac.Z,
			Sigma:   ac.Sigma,
			Epsilon: ac.Epsilon,
			Charge:  ac.Charge,
		}
	}
	for i, bc := range mc.Bonds {
		m.Bonds[i] = Bond{Atom1: bc.Atom1, Atom2: bc.Atom2, Distance: bc.Distance, Variable: bc.Variable}
	}
	for i, ac := range mc.Angles {
		m.Angles[i] = Angle{Atom1: ac.Atom1, Atom2: ac.Atom2, Value: ac.Value, Variable: ac.Variable}
	}
	for i, dc := range mc.Dihedrals {
		m.Dihedrals[i] = Dihedral{Atom1: dc.Atom1, Atom2: dc.Atom2, Value: dc.Value, Variable: dc.Variable}
	}
	for i, hc := range mc.Hops {
		m.Hops[i] = Hop{Atom1: hc.Atom1, Atom2: hc.Atom2, Distance: hc.Distance}
	}

	return m
}
