package refine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTetEnergyOfRegularTetIsOne(t *testing.T) {
	v0 := r3.Vec{X: 1, Y: 1, Z: 1}
	v1 := r3.Vec{X: 1, Y: -1, Z: -1}
	v2 := r3.Vec{X: -1, Y: -1, Z: 1}
	v3 := r3.Vec{X: -1, Y: 1, Z: -1}
	e := TetEnergy(v0, v1, v2, v3)
	if !e.IsFinite() {
		t.Fatal("expected a finite energy for a regular tet")
	}
	if math.Abs(e.Value()-1) > 1e-9 {
		t.Errorf("expected energy 1 for a regular tet, got %v", e.Value())
	}
}

func TestTetEnergyIsInfForInvertedTet(t *testing.T) {
	v0 := r3.Vec{X: 0, Y: 0, Z: 0}
	v1 := r3.Vec{X: 1, Y: 0, Z: 0}
	v2 := r3.Vec{X: 0, Y: 1, Z: 0}
	v3 := r3.Vec{X: 0, Y: 0, Z: -1} // negative-orientation tet.
	e := TetEnergy(v0, v1, v2, v3)
	if e.IsFinite() {
		t.Errorf("expected Inf for an inverted tet, got %v", e.Value())
	}
}

func TestEnergyLessOrdersInfAboveFinite(t *testing.T) {
	f := FiniteEnergy(1000)
	if !f.Less(Inf) {
		t.Error("expected any finite energy to be Less than Inf")
	}
	if Inf.Less(f) {
		t.Error("expected Inf to never be Less than a finite energy")
	}
}
