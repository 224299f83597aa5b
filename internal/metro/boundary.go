package metro

import "math"

// WrapCoordinate returns the representative of c modulo dim lying in
// [0, dim). Negative and over-range inputs wrap periodically rather than
// clamping: WrapCoordinate(11, 10) = 1, WrapCoordinate(-1, 10) = 9.
func WrapCoordinate(c, dim float64) float64 {
	w := math.Mod(c, dim)
	if w < 0 {
		w += dim
	}
	// float rounding can land the sum exactly on dim
	if w >= dim {
		w -= dim
	}
	return w
}

// KeepMoleculeInBox wraps every atom of the molecule back into the periodic
// volume, axis by axis, mutating positions in place.
//
// Atoms are wrapped independently, so a molecule straddling a face can end up
// split across the two opposite sides of the box. Minimum-image distance
// calculations are unaffected.
func KeepMoleculeInBox(mol *Molecule, env *Environment) {
	for i := range mol.Atoms {
		mol.Atoms[i].X = WrapCoordinate(mol.Atoms[i].X, env.X)
		mol.Atoms[i].Y = WrapCoordinate(mol.Atoms[i].Y, env.Y)
		mol.Atoms[i].Z = WrapCoordinate(mol.Atoms[i].Z, env.Z)
	}
}
