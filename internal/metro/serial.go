package metro

import "fmt"

// SerialBox is the strictly sequential strategy: one
// propose/evaluate/accept-reject cycle at a time on a single goroutine, no
// operation suspends. It holds the base single-flight checkpoint slot, so at
// most one proposal is in flight at any time; each save overwrites the
// previous snapshot.
type SerialBox struct {
	baseBox
	snap *Snapshot
}

// NewSerialBox constructs the sequential strategy over a fully loaded
// system. A nil rng gets a time-seeded default, a nil logger is a no-op.
// Construction reports the resolved atom and molecule counts through the
// logger.
func NewSerialBox(sys *System, rng Source, logger Logger) *SerialBox {
	return &SerialBox{baseBox: newBaseBox(sys, rng, logger)}
}

// ProposeMove checkpoints molecules[idx] into the single slot, applies the
// randomized rigid perturbation and wraps the molecule back into the box.
// The returned index is idx, now referring to the mutated molecule.
func (b *SerialBox) ProposeMove(idx int) (int, error) {
	if err := b.checkIndex(idx); err != nil {
		return idx, fmt.Errorf("propose move: %w", err)
	}

	mol := &b.system.Molecules[idx]
	b.snap = SaveMolecule(mol, idx)
	b.moveSeq.Add(1)

	mv := b.drawMove(len(mol.Atoms))
	pivot := mol.Atoms[mv.Pivot]
	for i := range mol.Atoms {
		transformAtom(&mol.Atoms[i], pivot, mv)
	}
	KeepMoleculeInBox(mol, b.system.Environment)

	b.emitMoveEvent(MoveProposed, idx, mol.ID, mv)
	return idx, nil
}

// Rollback restores molecules[idx] from the live snapshot and clears the
// slot. Rolling back a different index than the live snapshot's is
// ErrSnapshotIdentityMismatch; rolling back with no proposal in flight is
// ErrNoSnapshot.
func (b *SerialBox) Rollback(idx int) error {
	if err := b.checkIndex(idx); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	if b.snap == nil {
		return fmt.Errorf("rollback molecule %d: %w", idx, ErrNoSnapshot)
	}
	if b.snap.MoleculeIndex != idx {
		return fmt.Errorf("rollback molecule %d, snapshot holds %d: %w",
			idx, b.snap.MoleculeIndex, ErrSnapshotIdentityMismatch)
	}

	mol := &b.system.Molecules[idx]
	if err := b.snap.RestoreInto(mol); err != nil {
		return fmt.Errorf("rollback molecule %d: %w", idx, err)
	}
	b.snap = nil

	b.emitMoveEvent(MoveRolledBack, idx, mol.ID, moveParams{})
	return nil
}
