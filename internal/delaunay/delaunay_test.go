package delaunay

import (
	"testing"

	"github.com/solidgeom/tetwild/internal/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTetrahedralizeUnitTet(t *testing.T) {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	verts, tets := Tetrahedralize(points)
	if len(tets) == 0 {
		t.Fatal("expected at least one tet for four non-coplanar points")
	}
	pts := make([]kernel.Point, len(verts))
	for i, v := range verts {
		pts[i] = kernel.NewPointFloat(v)
	}
	for _, tt := range tets {
		if kernel.Orient3D(pts[tt[0]], pts[tt[1]], pts[tt[2]], pts[tt[3]]) != kernel.Positive {
			t.Errorf("tet %v is not positively oriented", tt)
		}
	}
}

func TestTetrahedralizeCubeCorners(t *testing.T) {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	_, tets := Tetrahedralize(points)
	if len(tets) < 5 {
		t.Errorf("expected at least 5 tets to fill a cube, got %d", len(tets))
	}
}
