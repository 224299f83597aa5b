package metro

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ParallelBox distributes the per-atom transform and boundary-wrap work of a
// move across a bounded set of workers. The per-atom math is a pure function
// of one atom's coordinates and the move parameters, so no locking is needed
// inside a molecule.
//
// Unlike the base single slot, snapshots are keyed by molecule index, one
// slot per molecule, so concurrent proposals on distinct molecules each keep
// their own checkpoint while the single-flight invariant still holds per
// slot. The random source is shared through a LockedSource: one synchronized
// stream, which gives up exact draw-order reproducibility once proposals
// overlap.
type ParallelBox struct {
	baseBox
	workers int

	mu    sync.Mutex
	snaps map[int]*Snapshot
}

// NewParallelBox constructs the parallel strategy. workers <= 0 defaults to
// runtime.NumCPU(). The rng is wrapped in a LockedSource if it is not one
// already.
func NewParallelBox(sys *System, rng Source, logger Logger, workers int) *ParallelBox {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if rng == nil {
		rng = NewRandSource(0)
	}
	return &ParallelBox{
		baseBox: newBaseBox(sys, NewLockedSource(rng), logger),
		workers: workers,
		snaps:   make(map[int]*Snapshot),
	}
}

// ProposeMove checkpoints molecules[idx] into its own slot, then fans the
// per-atom rotate/translate/wrap work out across the workers. A proposal on
// an index with an undischarged snapshot overwrites that snapshot, so each
// slot never accumulates more than one.
func (b *ParallelBox) ProposeMove(idx int) (int, error) {
	if err := b.checkIndex(idx); err != nil {
		return idx, fmt.Errorf("propose move: %w", err)
	}

	mol := &b.system.Molecules[idx]
	snap := SaveMolecule(mol, idx)
	b.mu.Lock()
	b.snaps[idx] = snap
	b.mu.Unlock()
	b.moveSeq.Add(1)

	mv := b.drawMove(len(mol.Atoms))
	pivot := mol.Atoms[mv.Pivot]
	env := b.system.Environment

	g := new(errgroup.Group)
	g.SetLimit(b.workers)
	chunk := (len(mol.Atoms) + b.workers - 1) / b.workers
	for start := 0; start < len(mol.Atoms); start += chunk {
		end := min(start+chunk, len(mol.Atoms))
		atoms := mol.Atoms[start:end]
		g.Go(func() error {
			for i := range atoms {
				transformAtom(&atoms[i], pivot, mv)
				atoms[i].X = WrapCoordinate(atoms[i].X, env.X)
				atoms[i].Y = WrapCoordinate(atoms[i].Y, env.Y)
				atoms[i].Z = WrapCoordinate(atoms[i].Z, env.Z)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return idx, fmt.Errorf("propose move: %w", err)
	}

	b.emitMoveEvent(MoveProposed, idx, mol.ID, mv)
	return idx, nil
}

// Rollback restores molecules[idx] from its own slot and clears it. Since
// slots are keyed by index an identity mismatch cannot occur here; a missing
// slot is ErrNoSnapshot.
func (b *ParallelBox) Rollback(idx int) error {
	if err := b.checkIndex(idx); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	b.mu.Lock()
	snap, ok := b.snaps[idx]
	delete(b.snaps, idx)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("rollback molecule %d: %w", idx, ErrNoSnapshot)
	}

	mol := &b.system.Molecules[idx]
	if err := snap.RestoreInto(mol); err != nil {
		return fmt.Errorf("rollback molecule %d: %w", idx, err)
	}

	b.emitMoveEvent(MoveRolledBack, idx, mol.ID, moveParams{})
	return nil
}
