package metro

import "errors"

// Sentinel errors surfaced to the driver. Index and capacity violations are
// caller errors; none of these are retryable within this package.
var (
	// ErrIndexOutOfRange is returned when a molecule index falls outside
	// [0, numOfMolecules).
	ErrIndexOutOfRange = errors.New("molecule index out of range")

	// ErrNoSnapshot is returned by rollback when no proposal is in flight.
	ErrNoSnapshot = errors.New("no live snapshot to roll back")

	// ErrSnapshotCapacityMismatch is returned when a restore target's
	// allocated capacity is smaller than the snapshot's recorded counts.
	ErrSnapshotCapacityMismatch = errors.New("restore target capacity smaller than snapshot counts")

	// ErrSnapshotIdentityMismatch is returned when rollback targets a
	// molecule index different from the one the live snapshot was captured
	// from.
	ErrSnapshotIdentityMismatch = errors.New("rollback index does not match live snapshot")
)
