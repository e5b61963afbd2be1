package simpletet

import (
	"testing"

	"github.com/solidgeom/tetwild/internal/bsp"
	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

func unitTetCell() (verts []r3.Vec, cell bsp.Cell) {
	verts = []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	cell = bsp.Cell{Faces: []bsp.Face{
		{Verts: []int{0, 2, 1}, SurfaceTri: 0},
		{Verts: []int{0, 1, 3}, SurfaceTri: 1},
		{Verts: []int{0, 3, 2}, SurfaceTri: 2},
		{Verts: []int{1, 2, 3}, SurfaceTri: 3},
	}}
	return verts, cell
}

func TestTetrahedralizeSingleTetProducesOneTet(t *testing.T) {
	verts, cell := unitTetCell()
	bb := d3.Box{Min: r3.Vec{X: 0, Y: 0, Z: 0}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	tets := Tetrahedralize([]bsp.Cell{cell}, verts, bb, true)
	if len(tets) != 1 {
		t.Fatalf("expected exactly 1 tet from a single tetrahedral cell, got %d", len(tets))
	}
	tt := tets[0]

	pts := make([]kernel.Point, len(verts))
	for i, v := range verts {
		pts[i] = kernel.NewPointFloat(v)
	}
	if kernel.Orient3D(pts[tt.Verts[0]], pts[tt.Verts[1]], pts[tt.Verts[2]], pts[tt.Verts[3]]) != kernel.Positive {
		t.Error("expected the produced tet to be positively oriented")
	}

	seen := map[int]bool{}
	for _, tag := range tt.FaceTags {
		if tag < 0 {
			t.Errorf("expected every facet tagged with its source triangle, got %d", tag)
		}
		seen[tag] = true
	}
	for want := 0; want < 4; want++ {
		if !seen[want] {
			t.Errorf("expected facet tag %d to appear among the tet's 4 facets", want)
		}
	}
}

func TestTagUnsharedFacetsMarksBboxOnOpenCell(t *testing.T) {
	verts, cell := unitTetCell()
	// Untag every face so the unshared-facet pass has something to assign.
	for i := range cell.Faces {
		cell.Faces[i].SurfaceTri = NotSurface
	}
	bb := d3.Box{Min: r3.Vec{X: 0, Y: 0, Z: 0}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	tets := Tetrahedralize([]bsp.Cell{cell}, verts, bb, true)
	if len(tets) != 1 {
		t.Fatalf("expected 1 tet, got %d", len(tets))
	}
	for _, tag := range tets[0].FaceTags {
		if tag != Bbox {
			t.Errorf("expected every untagged unshared facet to be Bbox, got %d", tag)
		}
	}
}
