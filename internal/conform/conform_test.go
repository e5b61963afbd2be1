package conform

import (
	"testing"

	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/delaunay"
	"gonum.org/v1/gonum/spatial/r3"
)

// singleTetSoup returns the four boundary triangles of the unit tet used
// below, each oriented outward.
func singleTetSoup() (v []r3.Vec, t [][3]int) {
	v = []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	t = [][3]int{
		{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3},
	}
	return v, t
}

func TestConformMatchesAllFacesOfSingleTet(t *testing.T) {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	verts, tets := delaunay.Tetrahedralize(points)
	if len(tets) != 1 {
		t.Fatalf("expected exactly one tet, got %d", len(tets))
	}

	soupV, soupT := singleTetSoup()
	res := Conform(verts, tets, soupV, soupT)

	if len(res.Matched) != 4 {
		t.Errorf("expected all 4 facets matched, got %d: %v", len(res.Matched), res.Matched)
	}
	if len(res.Cutters) != 0 {
		t.Errorf("expected no cutters, got %d", len(res.Cutters))
	}
}

func TestConformProducesCutterForNonConformingTriangle(t *testing.T) {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 2, Z: 0}, {X: 0, Y: 0, Z: 2},
	}
	verts, tets := delaunay.Tetrahedralize(points)
	if len(tets) == 0 {
		t.Fatal("expected at least one tet")
	}

	// A triangle that slices diagonally through the tet's interior: it does
	// not lie in the plane of any cell facet, so it must surface as a cutter.
	soupV := []r3.Vec{{X: 0.5, Y: 0, Z: 0}, {X: 0, Y: 0.5, Z: 0}, {X: 0, Y: 0, Z: 0.5}}
	soupT := [][3]int{{0, 1, 2}}

	res := Conform(verts, tets, soupV, soupT)
	if len(res.Cutters) != 1 {
		t.Fatalf("expected 1 cutter, got %d", len(res.Cutters))
	}
	if res.Cutters[0].TriIdx != 0 {
		t.Errorf("cutter should reference input triangle 0, got %d", res.Cutters[0].TriIdx)
	}
	got := res.Cutters[0].Tri
	want := d3.Triangle{soupV[0], soupV[1], soupV[2]}
	if got != want {
		t.Errorf("cutter triangle = %v, want %v", got, want)
	}
}

func TestSortedFaceIsOrderIndependent(t *testing.T) {
	perms := [][3]int{{1, 2, 3}, {3, 2, 1}, {2, 3, 1}, {2, 1, 3}}
	want := sortedFace(1, 2, 3)
	for _, p := range perms {
		if got := sortedFace(p[0], p[1], p[2]); got != want {
			t.Errorf("sortedFace(%v) = %v, want %v", p, got, want)
		}
	}
}
