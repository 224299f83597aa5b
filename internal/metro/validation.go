package metro

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid system config: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "system config validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateSystemConfig performs comprehensive validation of a SystemConfig
// before it is turned into a live system: positive box dimensions,
// non-negative move limits, counts consistent with the collections, unique
// molecule IDs and topology indices that stay within their molecule.
func ValidateSystemConfig(cfg SystemConfig) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("system name is required")
	}

	env := cfg.Environment
	if env.X <= 0 {
		err.Add(fmt.Sprintf("box dimension x must be positive, got %v", env.X))
	}
	if env.Y <= 0 {
		err.Add(fmt.Sprintf("box dimension y must be positive, got %v", env.Y))
	}
	if env.Z <= 0 {
		err.Add(fmt.Sprintf("box dimension z must be positive, got %v", env.Z))
	}
	if env.MaxTranslation < 0 {
		err.Add(fmt.Sprintf("max_translation must be non-negative, got %v", env.MaxTranslation))
	}
	if env.MaxRotation < 0 {
		err.Add(fmt.Sprintf("max_rotation must be non-negative, got %v", env.MaxRotation))
	}

	if len(cfg.Molecules) == 0 {
		err.Add("at least one molecule is required")
	}
	if env.NumOfMolecules != 0 && env.NumOfMolecules != len(cfg.Molecules) {
		err.Add(fmt.Sprintf("environment num_of_molecules is %d but %d molecules are configured",
			env.NumOfMolecules, len(cfg.Molecules)))
	}

	totalAtoms := 0
	molIDs := make(map[int]bool)
	for i, mc := range cfg.Molecules {
		prefix := fmt.Sprintf("molecule at index %d", i)

		if molIDs[mc.ID] {
			err.Add(fmt.Sprintf("duplicate molecule ID: %d", mc.ID))
		} else {
			molIDs[mc.ID] = true
		}

		if len(mc.Atoms) == 0 {
			err.Add(prefix + ": at least one atom is required")
			continue
		}
		totalAtoms += len(mc.Atoms)

		validateTopologyIndices(prefix, mc, err)
	}

	if env.NumOfAtoms != 0 && env.NumOfAtoms != totalAtoms {
		err.Add(fmt.Sprintf("environment num_of_atoms is %d but %d atoms are configured",
			env.NumOfAtoms, totalAtoms))
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

// validateTopologyIndices checks that every bond, angle, dihedral and hop of
// a molecule references atom indices within [0, numOfAtoms).
func validateTopologyIndices(prefix string, mc MoleculeConfig, err *ValidationError) {
	n := len(mc.Atoms)
	check := func(kind string, i, atom1, atom2 int) {
		if atom1 < 0 || atom1 >= n || atom2 < 0 || atom2 >= n {
			err.Add(fmt.Sprintf("%s %s at index %d references atom out of range [0,%d): (%d, %d)",
				prefix, kind, i, n, atom1, atom2))
		}
	}

	for i, b := range mc.Bonds {
		check("bond", i, b.Atom1, b.Atom2)
	}
	for i, a := range mc.Angles {
		check("angle", i, a.Atom1, a.Atom2)
	}
	for i, d := range mc.Dihedrals {
		check("dihedral", i, d.Atom1, d.Atom2)
	}
	for i, h := range mc.Hops {
		check("hop", i, h.Atom1, h.Atom2)
	}
}
