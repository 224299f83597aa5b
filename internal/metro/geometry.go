package metro

import "math"

// moveParams holds the six perturbation parameters of one proposed move plus
// the chosen pivot atom index.
type moveParams struct {
	Pivot int
	Delta [3]float64 // translation, per axis
	Deg   [3]float64 // rotation about the pivot, per axis, degrees
}

// transformAtom applies one move to a single atom: rigid rotation about the
// pivot position, X axis first, then Y, then Z (fixed order), followed by
// the translation. A pure function of one atom's coordinates and the move
// parameters, so atoms of one molecule can be transformed concurrently.
// The pivot must be the pivot atom's pre-move position.
func transformAtom(a *Atom, pivot Atom, mv moveParams) {
	x := a.X - pivot.X
	y := a.Y - pivot.Y
	z := a.Z - pivot.Z

	// about X
	rad := mv.Deg[0] * math.Pi / 180
	sin, cos := math.Sincos(rad)
	y, z = y*cos-z*sin, y*sin+z*cos

	// about Y
	rad = mv.Deg[1] * math.Pi / 180
	sin, cos = math.Sincos(rad)
	x, z = x*cos+z*sin, -x*sin+z*cos

	// about Z
	rad = mv.Deg[2] * math.Pi / 180
	sin, cos = math.Sincos(rad)
	x, y = x*cos-y*sin, x*sin+y*cos

	a.X = pivot.X + x + mv.Delta[0]
	a.Y = pivot.Y + y + mv.Delta[1]
	a.Z = pivot.Z + z + mv.Delta[2]
}
