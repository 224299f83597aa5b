package metro

import (
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// NewRunID returns a lexicographically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// SystemSnapshot represents a point-in-time capture of the whole system's
// state: the run it belongs to, the number of moves proposed so far, the
// environment and a deep copy of every molecule.
type SystemSnapshot struct {
	RunID       string      `json:"run_id"`
	MoveCount   int64       `json:"move_count"`
	Environment Environment `json:"environment"`
	Molecules   []Molecule  `json:"molecules"`
}

// CaptureSystemSnapshot deep-copies the system's current state. The copy is
// standalone: later moves do not show through it.
func CaptureSystemSnapshot(runID string, moveCount int64, sys *System) SystemSnapshot {
	mols := make([]Molecule, len(sys.Molecules))
	for i := range sys.Molecules {
		mols[i] = sys.Molecules[i].Clone()
	}
	return SystemSnapshot{
		RunID:       runID,
		MoveCount:   moveCount,
		Environment: *sys.Environment,
		Molecules:   mols,
	}
}

// ValidateSystemSnapshot performs sanity checks on a decoded snapshot:
// counts consistent with the environment, unique molecule IDs, positive box
// dimensions. Returns an error if validation fails, nil otherwise.
func ValidateSystemSnapshot(snap SystemSnapshot) error {
	if snap.Environment.X <= 0 || snap.Environment.Y <= 0 || snap.Environment.Z <= 0 {
		return fmt.Errorf("snapshot has non-positive box dimensions (%v, %v, %v)",
			snap.Environment.X, snap.Environment.Y, snap.Environment.Z)
	}

	if snap.Environment.NumOfMolecules != len(snap.Molecules) {
		return fmt.Errorf("snapshot records %d molecules but holds %d",
			snap.Environment.NumOfMolecules, len(snap.Molecules))
	}

	totalAtoms := 0
	seen := make(map[int]struct{})
	for i, mol := range snap.Molecules {
		if _, exists := seen[mol.ID]; exists {
			return fmt.Errorf("duplicate molecule ID in snapshot: %d", mol.ID)
		}
		seen[mol.ID] = struct{}{}

		if len(mol.Atoms) == 0 {
			return fmt.Errorf("molecule at index %d has no atoms", i)
		}
		totalAtoms += len(mol.Atoms)
	}

	if snap.Environment.NumOfAtoms != totalAtoms {
		return fmt.Errorf("snapshot records %d atoms but holds %d",
			snap.Environment.NumOfAtoms, totalAtoms)
	}

	return nil
}

// EncodeSystemSnapshotJSON encodes a snapshot to JSON format.
// Returns the JSON bytes and any encoding error.
func EncodeSystemSnapshotJSON(snap SystemSnapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSystemSnapshotJSON decodes a snapshot from JSON format.
// Returns the decoded snapshot and any decoding error.
func DecodeSystemSnapshotJSON(data []byte) (SystemSnapshot, error) {
	var snap SystemSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return SystemSnapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
