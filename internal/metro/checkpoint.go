package metro

// Snapshot is a standalone deep copy of exactly one molecule's state,
// captured before a proposed move so the move can be undone verbatim.
// A snapshot is only valid for the molecule index it was captured from;
// its sub-collections are sized exactly to that molecule's counts at
// capture time.
type Snapshot struct {
	MoleculeIndex int
	Molecule      Molecule
}

// SaveMolecule captures a snapshot of src, recorded as belonging to molecule
// index idx. Each call allocates a fresh snapshot; boxes hold at most one
// per slot, so the previous snapshot of a slot is released for collection
// when it is overwritten.
func SaveMolecule(src *Molecule, idx int) *Snapshot {
	return &Snapshot{
		MoleculeIndex: idx,
		Molecule:      src.Clone(),
	}
}

// RestoreInto deep-copies the snapshot's fields into dst, overwriting its
// current contents. The destination's allocated capacity must be at least
// the snapshot's counts; a smaller destination is a contract violation and
// returns ErrSnapshotCapacityMismatch rather than truncating.
//
// Restoring into a molecule other than the one the snapshot was captured
// from is not detected here; the boxes track snapshot identity and reject
// mismatched rollbacks before calling RestoreInto.
func (s *Snapshot) RestoreInto(dst *Molecule) error {
	return copyMolecule(dst, &s.Molecule)
}
