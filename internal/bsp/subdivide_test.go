package bsp

import (
	"testing"

	"github.com/solidgeom/tetwild/internal/conform"
	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/delaunay"
	"gonum.org/v1/gonum/spatial/r3"
)

func unitTetCell() (verts []r3.Vec, cells []Cell) {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	vs, tets := delaunay.Tetrahedralize(points)
	return vs, FromDelaunay(tets, map[conform.Face]int{})
}

func TestSubdivideNoCuttersLeavesCellsUntouched(t *testing.T) {
	verts, cells := unitTetCell()
	out := Subdivide(verts, cells, nil)
	if len(out.Cells) != len(cells) {
		t.Fatalf("expected %d cells unchanged, got %d", len(cells), len(out.Cells))
	}
}

func TestSubdivideSplitsCellCrossingCutter(t *testing.T) {
	verts, cells := unitTetCell()
	if len(cells) != 1 {
		t.Fatalf("expected 1 initial cell, got %d", len(cells))
	}

	// Plane through the tet's interior: x=0.25, normal +X.
	cutter := conform.Cutter{
		TriIdx: 0,
		Tri: d3.Triangle{
			{X: 0.25, Y: 0, Z: 0},
			{X: 0.25, Y: 1, Z: 0},
			{X: 0.25, Y: 0, Z: 1},
		},
	}

	out := Subdivide(verts, cells, []conform.Cutter{cutter})
	if len(out.Cells) != 2 {
		t.Fatalf("expected the single cell to split into 2, got %d", len(out.Cells))
	}
	for _, c := range out.Cells {
		if len(c.Faces) < 4 {
			t.Errorf("expected each child cell to have at least 4 faces, got %d", len(c.Faces))
		}
		for _, f := range c.Faces {
			if len(f.Verts) < 3 {
				t.Errorf("face with fewer than 3 vertices: %v", f.Verts)
			}
		}
	}

	foundCutFace := false
	for _, c := range out.Cells {
		for _, f := range c.Faces {
			if f.SurfaceTri == 0 {
				foundCutFace = true
			}
		}
	}
	if !foundCutFace {
		t.Error("expected at least one face tagged with the cutter's triangle index")
	}
}

func TestSubdivideCutterOutsideCellIsANoop(t *testing.T) {
	verts, cells := unitTetCell()
	cutter := conform.Cutter{
		TriIdx: 0,
		Tri: d3.Triangle{
			{X: 10, Y: 0, Z: 0}, {X: 10, Y: 1, Z: 0}, {X: 10, Y: 0, Z: 1},
		},
	}
	out := Subdivide(verts, cells, []conform.Cutter{cutter})
	if len(out.Cells) != 1 {
		t.Fatalf("expected the cell to survive untouched, got %d cells", len(out.Cells))
	}
}
