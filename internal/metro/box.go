package metro

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Box is the contract consumed by the simulation driver. Two interchangeable
// execution strategies implement it over the same data model: SerialBox runs
// every move synchronously on the caller's goroutine, ParallelBox distributes
// the per-atom transform work across workers. The strategy is selected at
// construction time.
//
// The per-move cycle is: ChooseMolecule, ProposeMove (which checkpoints the
// molecule, perturbs it and wraps it back into the box), then either keep the
// new state or call Rollback to restore the checkpoint. The energy evaluation
// and the accept/reject decision belong to the driver.
type Box interface {
	// ChooseMolecule draws a uniformly distributed molecule index in
	// [0, numOfMolecules).
	ChooseMolecule() int

	// ProposeMove checkpoints molecules[idx], applies a randomized rigid
	// perturbation (translation plus rotation about a random pivot atom),
	// wraps the result into the periodic volume and returns idx.
	ProposeMove(idx int) (int, error)

	// Rollback restores molecules[idx] from the live snapshot captured by
	// the matching ProposeMove, field for field.
	Rollback(idx int) error

	// System exposes the owned molecule collection and environment.
	System() *System
}

// baseBox carries the state and behavior shared by both strategies.
type baseBox struct {
	system      *System
	rng         Source
	logger      Logger
	runID       string
	moveSeq     atomic.Int64
	notifMgr    *NotificationManager
	notifierIDs []string
}

func newBaseBox(sys *System, rng Source, logger Logger) baseBox {
	if rng == nil {
		rng = NewRandSource(0)
	}
	if logger == nil {
		logger = NewNoOpLogger()
	}
	b := baseBox{
		system: sys,
		rng:    rng,
		logger: logger,
		runID:  NewRunID(),
	}
	b.logger.Infof("# of atoms: %d", sys.Environment.NumOfAtoms)
	b.logger.Infof("# of molecules: %d", sys.Environment.NumOfMolecules)
	return b
}

// System returns the owned molecule collection and environment.
func (b *baseBox) System() *System {
	return b.system
}

// RunID returns the identifier stamped on this box's move events and
// snapshots.
func (b *baseBox) RunID() string {
	return b.runID
}

// SetNotificationManager routes move events through mgr to the notifiers
// with the given IDs. A nil manager disables event reporting.
func (b *baseBox) SetNotificationManager(mgr *NotificationManager, notifierIDs []string) {
	b.notifMgr = mgr
	b.notifierIDs = notifierIDs
}

// ChooseMolecule draws one value from a continuous uniform distribution over
// [0, numOfMolecules) and truncates it, so every index is equally likely
// under equal-width binning.
func (b *baseBox) ChooseMolecule() int {
	return int(b.rng.Draw(0, float64(b.system.Environment.NumOfMolecules)))
}

func (b *baseBox) checkIndex(idx int) error {
	if idx < 0 || idx >= len(b.system.Molecules) {
		return fmt.Errorf("molecule %d of %d: %w", idx, len(b.system.Molecules), ErrIndexOutOfRange)
	}
	return nil
}

// drawMove draws the pivot and the six perturbation parameters for one move,
// in a fixed order: pivot, translation deltas X Y Z, rotation angles X Y Z.
func (b *baseBox) drawMove(numOfAtoms int) moveParams {
	env := b.system.Environment
	mv := moveParams{
		Pivot: int(b.rng.Draw(0, float64(numOfAtoms))),
	}
	for i := 0; i < 3; i++ {
		mv.Delta[i] = b.rng.Draw(-env.MaxTranslation, env.MaxTranslation)
	}
	for i := 0; i < 3; i++ {
		mv.Deg[i] = b.rng.Draw(-env.MaxRotation, env.MaxRotation)
	}
	return mv
}

func (b *baseBox) emitMoveEvent(phase MovePhase, idx int, molID int, mv moveParams) {
	if b.notifMgr == nil {
		return
	}
	event := MoveEvent{
		RunID:         b.runID,
		Move:          b.moveSeq.Load(),
		Phase:         phase,
		MoleculeIndex: idx,
		MoleculeID:    molID,
		PivotAtom:     mv.Pivot,
		Deltas:        mv.Delta,
		Degrees:       mv.Deg,
		Timestamp:     time.Now().Unix(),
	}
	b.notifMgr.Enqueue(event, b.notifierIDs)
}
