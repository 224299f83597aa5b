package metro

// Molecule is an ordered sequence of atoms plus the topology records that
// reference them by index. Counts are the slice lengths; a molecule never
// holds more entries than its slices were allocated for.
type Molecule struct {
	ID        int
	Atoms     []Atom
	Bonds     []Bond
	Angles    []Angle
	Dihedrals []Dihedral
	Hops      []Hop
}

// Clone returns a standalone deep copy of the molecule, with every
// sub-collection sized exactly to the source counts.
func (m *Molecule) Clone() Molecule {
	out := Molecule{
		ID:        m.ID,
		Atoms:     make([]Atom, len(m.Atoms)),
		Bonds:     make([]Bond, len(m.Bonds)),
		Angles:    make([]Angle, len(m.Angles)),
		Dihedrals: make([]Dihedral, len(m.Dihedrals)),
		Hops:      make([]Hop, len(m.Hops)),
	}
	copy(out.Atoms, m.Atoms)
	copy(out.Bonds, m.Bonds)
	copy(out.Angles, m.Angles)
	copy(out.Dihedrals, m.Dihedrals)
	copy(out.Hops, m.Hops)
	return out
}

// copyMolecule copies id and the element-wise contents of every
// sub-collection from src into dst, resizing dst's slices within their
// allocated capacity. It is the shared primitive behind checkpoint save and
// restore. Returns ErrSnapshotCapacityMismatch if any destination slice was
// allocated smaller than the corresponding source count.
func copyMolecule(dst, src *Molecule) error {
	if cap(dst.Atoms) < len(src.Atoms) ||
		cap(dst.Bonds) < len(src.Bonds) ||
		cap(dst.Angles) < len(src.Angles) ||
		cap(dst.Dihedrals) < len(src.Dihedrals) ||
		cap(dst.Hops) < len(src.Hops) {
		return ErrSnapshotCapacityMismatch
	}

	dst.ID = src.ID
	dst.Atoms = dst.Atoms[:len(src.Atoms)]
	dst.Bonds = dst.Bonds[:len(src.Bonds)]
	dst.Angles = dst.Angles[:len(src.Angles)]
	dst.Dihedrals = dst.Dihedrals[:len(src.Dihedrals)]
	dst.Hops = dst.Hops[:len(src.Hops)]

	copy(dst.Atoms, src.Atoms)
	copy(dst.Bonds, src.Bonds)
	copy(dst.Angles, src.Angles)
	copy(dst.Dihedrals, src.Dihedrals)
	copy(dst.Hops, src.Hops)
	return nil
}
