// Package energy is the external energy-evaluation collaborator of the
// simulation box: the box proposes moves, this package scores them, and the
// driver decides acceptance. The core in internal/metro never depends on it.
package energy

import (
	"math"

	"github.com/daniacca/metrobox/internal/metro"
)

// BoltzmannKcalPerMolK is the Boltzmann constant in kcal/(mol K), matching
// the kcal/mol scale of the Lennard-Jones epsilon parameters.
const BoltzmannKcalPerMolK = 0.0019872041

// Evaluator scores a full system configuration.
type Evaluator interface {
	Total(sys *metro.System) float64
}

// LennardJones evaluates the pairwise 12-6 Lennard-Jones energy between
// atoms of distinct molecules, with the minimum-image convention over the
// periodic box. Intra-molecular terms are skipped: rigid moves never change
// them.
type LennardJones struct{}

// Total returns the inter-molecular Lennard-Jones energy of the system.
func (LennardJones) Total(sys *metro.System) float64 {
	env := sys.Environment
	total := 0.0
	for i := 0; i < len(sys.Molecules); i++ {
		for j := i + 1; j < len(sys.Molecules); j++ {
			total += moleculePairEnergy(&sys.Molecules[i], &sys.Molecules[j], env)
		}
	}
	return total
}

func moleculePairEnergy(a, b *metro.Molecule, env *metro.Environment) float64 {
	total := 0.0
	for i := range a.Atoms {
		for j := range b.Atoms {
			total += atomPairEnergy(&a.Atoms[i], &b.Atoms[j], env)
		}
	}
	return total
}

func atomPairEnergy(a, b *metro.Atom, env *metro.Environment) float64 {
	// Lorentz-Berthelot combining rules
	sigma := (a.Sigma + b.Sigma) / 2
	epsilon := math.Sqrt(a.Epsilon * b.Epsilon)
	if sigma == 0 || epsilon == 0 {
		return 0
	}

	dx := minimumImage(a.X-b.X, env.X)
	dy := minimumImage(a.Y-b.Y, env.Y)
	dz := minimumImage(a.Z-b.Z, env.Z)
	r2 := dx*dx + dy*dy + dz*dz
	if r2 == 0 {
		return 0
	}

	s2 := sigma * sigma / r2
	s6 := s2 * s2 * s2
	return 4 * epsilon * (s6*s6 - s6)
}

// minimumImage maps a coordinate difference to its nearest periodic image.
func minimumImage(d, dim float64) float64 {
	return d - dim*math.Round(d/dim)
}

// MetropolisAccept applies the Metropolis criterion at the given temperature
// (Kelvin): downhill moves are always accepted, uphill moves with
// probability exp(-dE/kT) using one draw from the random source.
func MetropolisAccept(eOld, eNew, temperature float64, rng metro.Source) bool {
	if eNew <= eOld {
		return true
	}
	if temperature <= 0 {
		return false
	}
	return rng.Draw(0, 1) < math.Exp(-(eNew-eOld)/(BoltzmannKcalPerMolK*temperature))
}
