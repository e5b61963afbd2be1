package winding

import (
	"math"
	"testing"

	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/simpletet"
	"gonum.org/v1/gonum/spatial/r3"
)

func cubeTriangles() []d3.Triangle {
	v := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	idx := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom (outward normal -Z)
		{4, 5, 6}, {4, 6, 7}, // top (+Z)
		{0, 1, 5}, {0, 5, 4}, // front (-Y)
		{1, 2, 6}, {1, 6, 5}, // right (+X)
		{2, 3, 7}, {2, 7, 6}, // back (+Y)
		{3, 0, 4}, {3, 4, 7}, // left (-X)
	}
	out := make([]d3.Triangle, len(idx))
	for i, t := range idx {
		out[i] = d3.Triangle{v[t[0]], v[t[1]], v[t[2]]}
	}
	return out
}

func TestWindingNumberInsideCubeIsOne(t *testing.T) {
	f := NewField(cubeTriangles())
	w := f.WindingNumber(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	if math.Abs(w-1) > 0.05 {
		t.Errorf("expected winding number ~1 at cube center, got %v", w)
	}
}

func TestWindingNumberOutsideCubeIsZero(t *testing.T) {
	f := NewField(cubeTriangles())
	w := f.WindingNumber(r3.Vec{X: 5, Y: 5, Z: 5})
	if math.Abs(w) > 0.05 {
		t.Errorf("expected winding number ~0 far outside the cube, got %v", w)
	}
}

func TestFilterInsideOutsideKeepsInteriorTet(t *testing.T) {
	verts := []r3.Vec{
		{X: 0.4, Y: 0.4, Z: 0.4}, {X: 0.6, Y: 0.4, Z: 0.4},
		{X: 0.4, Y: 0.6, Z: 0.4}, {X: 0.4, Y: 0.4, Z: 0.6},
		{X: 10, Y: 10, Z: 10}, {X: 11, Y: 10, Z: 10}, {X: 10, Y: 11, Z: 10}, {X: 10, Y: 10, Z: 11},
	}
	tets := []simpletet.Tet{
		{Verts: [4]int{0, 1, 2, 3}},
		{Verts: [4]int{4, 5, 6, 7}},
	}
	outV, outT := FilterInsideOutside(verts, tets, cubeTriangles())
	if len(outT) != 1 {
		t.Fatalf("expected exactly 1 surviving tet, got %d", len(outT))
	}
	if len(outV) != 4 {
		t.Fatalf("expected a dense 4-vertex remap, got %d", len(outV))
	}
	for _, v := range outT[0].Verts {
		if v < 0 || v >= len(outV) {
			t.Errorf("tet references out-of-range remapped vertex %d", v)
		}
	}
}
