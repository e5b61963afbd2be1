package bsp

import (
	"github.com/solidgeom/tetwild/internal/conform"
	"github.com/solidgeom/tetwild/internal/delaunay"
)

// FromDelaunay turns the Delaunay tetrahedralization into the BSP's
// initial cell complex: one Cell per tet, its four triangular facets
// tagged with the input triangle they were matched to by the conformer,
// or NoSurface when the facet is interior (spec.md section 4.6's "starts
// from the conformed Delaunay complex").
func FromDelaunay(tets []delaunay.Tet, matched map[conform.Face]int) []Cell {
	cells := make([]Cell, len(tets))
	for i, t := range tets {
		combos := [4][3]int{
			{t[0], t[2], t[1]},
			{t[0], t[1], t[3]},
			{t[0], t[3], t[2]},
			{t[1], t[2], t[3]},
		}
		faces := make([]Face, 4)
		for j, tri := range combos {
			tag := NoSurface
			if idx, ok := matched[sortedTriple(tri)]; ok {
				tag = idx
			}
			faces[j] = Face{Verts: []int{tri[0], tri[1], tri[2]}, SurfaceTri: tag}
		}
		cells[i] = Cell{Faces: faces}
	}
	return cells
}

func sortedTriple(f [3]int) conform.Face {
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	if f[1] > f[2] {
		f[1], f[2] = f[2], f[1]
	}
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	return conform.Face(f)
}
