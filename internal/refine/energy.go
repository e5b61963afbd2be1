// Package refine implements the mesh refinement engine of spec.md
// section 4.8: iterative SPLIT/COLLAPSE/SWAP/SMOOTH passes driven by a
// per-tet AMIPS-style shape energy, bounded by the envelope predicate.
package refine

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Energy is the AMIPS shape-distortion energy of a tet. It is a distinct
// finite/infinite sum type rather than math.Inf(1): inverted or
// degenerate tets are infinitely bad, but carrying that through
// math.Inf arithmetic into aggregate statistics (max, mean) would poison
// every comparison with NaN the moment two infinities interact.
type Energy struct {
	finite bool
	value  float64
}

// FiniteEnergy wraps a finite energy value.
func FiniteEnergy(v float64) Energy { return Energy{finite: true, value: v} }

// Inf is the energy of an inverted or degenerate tet (det(J) <= 0).
var Inf = Energy{finite: false}

// IsFinite reports whether e is not Inf.
func (e Energy) IsFinite() bool { return e.finite }

// Value returns e's numeric value, or +Inf if e is Inf.
func (e Energy) Value() float64 {
	if !e.finite {
		return math.Inf(1)
	}
	return e.value
}

// Less orders energies with every Inf greater than every finite value.
func (e Energy) Less(o Energy) bool {
	if e.finite != o.finite {
		return e.finite
	}
	if !e.finite {
		return false
	}
	return e.value < o.value
}

// referenceInv is the inverse edge matrix of a unit regular tetrahedron,
// the fixed reference AMIPS maps every tet against.
var referenceInv = mustInverse(edgeMatrix(
	r3.Vec{X: 1, Y: 1, Z: 1},
	r3.Vec{X: 1, Y: -1, Z: -1},
	r3.Vec{X: -1, Y: -1, Z: 1},
	r3.Vec{X: -1, Y: 1, Z: -1},
))

func mustInverse(m *mat.Dense) *mat.Dense {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		panic("refine: singular reference tetrahedron")
	}
	return &inv
}

func edgeMatrix(v0, v1, v2, v3 r3.Vec) *mat.Dense {
	e1, e2, e3 := r3.Sub(v1, v0), r3.Sub(v2, v0), r3.Sub(v3, v0)
	return mat.NewDense(3, 3, []float64{
		e1.X, e2.X, e3.X,
		e1.Y, e2.Y, e3.Y,
		e1.Z, e2.Z, e3.Z,
	})
}

// TetEnergy computes E(t) = (tr(J^T J))^1.5 / (3^1.5 * det(J)), where J
// maps the unit regular tet onto (v0,v1,v2,v3); Inf when det(J) <= 0.
func TetEnergy(v0, v1, v2, v3 r3.Vec) Energy {
	S := edgeMatrix(v0, v1, v2, v3)
	var J mat.Dense
	J.Mul(S, referenceInv)
	det := mat.Det(&J)
	if det <= 0 {
		return Inf
	}
	var JtJ mat.Dense
	JtJ.Mul(J.T(), &J)
	tr := mat.Trace(&JtJ)
	return FiniteEnergy(math.Pow(tr, 1.5) / (math.Pow(3, 1.5) * det))
}
