// Package client provides a fluent builder for system configurations and a
// small HTTP client for a running metrobox server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/daniacca/metrobox/internal/metro"
)

// SystemBuilder provides a fluent API for building system configurations.
// Use it to describe the periodic box, the move limits and the molecules that
// make up a simulation.
type SystemBuilder struct {
	name      string
	env       metro.EnvironmentConfig
	molecules []*MoleculeBuilder
}

// NewSystem creates a new system builder with the given name.
func NewSystem(name string) *SystemBuilder {
	return &SystemBuilder{
		name:      name,
		molecules: make([]*MoleculeBuilder, 0),
	}
}

// Box sets the periodic box dimensions. All three must be positive.
func (sb *SystemBuilder) Box(x, y, z float64) *SystemBuilder {
	sb.env.X = x
	sb.env.Y = y
	sb.env.Z = z
	return sb
}

// MoveLimits sets the per-move perturbation limits: the maximum translation
// along each axis and the maximum rotation about each axis in degrees.
func (sb *SystemBuilder) MoveLimits(maxTranslation, maxRotation float64) *SystemBuilder {
	sb.env.MaxTranslation = maxTranslation
	sb.env.MaxRotation = maxRotation
	return sb
}

// Molecule adds a molecule definition to the system.
func (sb *SystemBuilder) Molecule(mb *MoleculeBuilder) *SystemBuilder {
	sb.molecules = append(sb.molecules, mb)
	return sb
}

// Build converts the builder to a SystemConfig that can be used with
// ApplySystem or validated and built directly.
func (sb *SystemBuilder) Build() metro.SystemConfig {
	molecules := make([]metro.MoleculeConfig, 0, len(sb.molecules))
	for _, mb := range sb.molecules {
		molecules = append(molecules, mb.Build())
	}

	return metro.SystemConfig{
		Name:        sb.name,
		Environment: sb.env,
		Molecules:   molecules,
	}
}

// MoleculeBuilder provides a fluent API for building molecule configurations:
// the ordered atom list plus the topology records that reference it.
type MoleculeBuilder struct {
	id        int
	atoms     []metro.AtomConfig
	bonds     []metro.BondConfig
	angles    []metro.AngleConfig
	dihedrals []metro.DihedralConfig
	hops      []metro.HopConfig
}

// NewMolecule creates a new molecule builder with the given ID.
// The ID must be unique within a system.
func NewMolecule(id int) *MoleculeBuilder {
	return &MoleculeBuilder{id: id}
}

// Atom appends an atom at the given position.
func (mb *MoleculeBuilder) Atom(id int, element string, x, y, z float64) *MoleculeBuilder {
	mb.atoms = append(mb.atoms, metro.AtomConfig{ID: id, Element: element, X: x, Y: y, Z: z})
	return mb
}

// AtomLJ appends an atom with Lennard-Jones parameters and a partial charge.
func (mb *MoleculeBuilder) AtomLJ(id int, element string, x, y, z, sigma, epsilon, charge float64) *MoleculeBuilder {
	mb.atoms = append(mb.atoms, metro.AtomConfig{
		ID: id, Element: element,
		X: x, Y: y, Z: z,
		Sigma: sigma, Epsilon: epsilon, Charge: charge,
	})
	return mb
}

// Bond appends a bond between two atom indices of this molecule.
func (mb *MoleculeBuilder) Bond(atom1, atom2 int, distance float64) *MoleculeBuilder {
	mb.bonds = append(mb.bonds, metro.BondConfig{Atom1: atom1, Atom2: atom2, Distance: distance})
	return mb
}

// Angle appends an angle between two end atom indices of this molecule.
func (mb *MoleculeBuilder) Angle(atom1, atom2 int, value float64) *MoleculeBuilder {
	mb.angles = append(mb.angles, metro.AngleConfig{Atom1: atom1, Atom2: atom2, Value: value})
	return mb
}

// Dihedral appends a torsion between two atom indices of this molecule.
func (mb *MoleculeBuilder) Dihedral(atom1, atom2 int, value float64) *MoleculeBuilder {
	mb.dihedrals = append(mb.dihedrals, metro.DihedralConfig{Atom1: atom1, Atom2: atom2, Value: value})
	return mb
}

// Hop appends a connectivity hop record between two atom indices.
func (mb *MoleculeBuilder) Hop(atom1, atom2, distance int) *MoleculeBuilder {
	mb.hops = append(mb.hops, metro.HopConfig{Atom1: atom1, Atom2: atom2, Distance: distance})
	return mb
}

// Build converts the builder to a MoleculeConfig.
func (mb *MoleculeBuilder) Build() metro.MoleculeConfig {
	return metro.MoleculeConfig{
		ID:        mb.id,
		Atoms:     mb.atoms,
		Bonds:     mb.bonds,
		Angles:    mb.angles,
		Dihedrals: mb.dihedrals,
		Hops:      mb.hops,
	}
}

// StepResult reports the outcome of a batch of Monte Carlo moves.
type StepResult struct {
	Moves    int     `json:"moves"`
	Accepted int     `json:"accepted"`
	Rejected int     `json:"rejected"`
	Energy   float64 `json:"energy"`
}

// ApplySystem sends the system configuration to a metrobox server.
// The baseURL is the server's base URL (e.g., "http://localhost:8080").
func ApplySystem(ctx context.Context, baseURL string, system *SystemBuilder) error {
	cfg := system.Build()

	jsonData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal system: %w", err)
	}

	u, err := url.JoinPath(baseURL, "system")
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Step asks the server to run the given number of Monte Carlo moves and
// returns the acceptance outcome.
func Step(ctx context.Context, baseURL string, moves int) (StepResult, error) {
	jsonData, err := json.Marshal(map[string]int{"moves": moves})
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	u, err := url.JoinPath(baseURL, "step")
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonData))
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return StepResult{}, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var result StepResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return StepResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, nil
}

// FetchState retrieves the server's current system snapshot.
func FetchState(ctx context.Context, baseURL string) (metro.SystemSnapshot, error) {
	u, err := url.JoinPath(baseURL, "state")
	if err != nil {
		return metro.SystemSnapshot{}, fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return metro.SystemSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return metro.SystemSnapshot{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return metro.SystemSnapshot{}, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var snap metro.SystemSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return metro.SystemSnapshot{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return snap, nil
}
