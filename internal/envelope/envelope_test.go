package envelope

import (
	"testing"

	"github.com/solidgeom/tetwild/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func unitSquareTris() []d3.Triangle {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 1, Y: 0, Z: 0}
	c := r3.Vec{X: 1, Y: 1, Z: 0}
	d := r3.Vec{X: 0, Y: 1, Z: 0}
	return []d3.Triangle{{a, b, c}, {a, c, d}}
}

func TestInsideMonotoneInEps(t *testing.T) {
	e := New(unitSquareTris(), 0.01)
	p := r3.Vec{X: 0.5, Y: 0.5, Z: 0.05}
	if e.Inside(p) {
		t.Fatal("point 0.05 above plane should be outside a 0.01 envelope")
	}
	e.SetEps(0.1)
	if !e.Inside(p) {
		t.Fatal("point 0.05 above plane should be inside a 0.1 envelope (monotonicity)")
	}
}

func TestTriangleInside(t *testing.T) {
	e := New(unitSquareTris(), 1e-3)
	onSurface := d3.Triangle{
		{X: 0.1, Y: 0.1, Z: 0},
		{X: 0.5, Y: 0.1, Z: 0},
		{X: 0.1, Y: 0.5, Z: 0},
	}
	if !e.TriangleInside(onSurface) {
		t.Error("coplanar sub-triangle should be inside a tight envelope")
	}
	offSurface := d3.Triangle{
		{X: 0.1, Y: 0.1, Z: 1},
		{X: 0.5, Y: 0.1, Z: 1},
		{X: 0.1, Y: 0.5, Z: 1},
	}
	if e.TriangleInside(offSurface) {
		t.Error("triangle offset by 1 unit should be outside a tight envelope")
	}
}
