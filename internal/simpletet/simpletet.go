// Package simpletet implements the simple tetrahedralizer of spec.md
// section 4.7: it decomposes each convex BSP cell into tets by fanning
// from a pivot vertex, carries surface tags from the parent BSP faces
// onto the resulting tet facets, and labels the facets of the whole
// tetrahedralization that touch no other tet: either the outer bounding
// box (bbox) or, for open input surfaces, a hole boundary (boundary).
package simpletet

import (
	"math"

	"github.com/solidgeom/tetwild/internal/bsp"
	"github.com/solidgeom/tetwild/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Facet tag sentinels below NotSurface (spec.md's NOT_SURFACE) that do not
// index an input triangle. Non-negative tags are input triangle indices.
const (
	NotSurface = bsp.NoSurface
	Bbox       = -2
	Boundary   = -3
)

// Tet is a tetrahedron with one surface tag per facet. FaceTags[i] labels
// the facet opposite Verts[i].
type Tet struct {
	Verts    [4]int
	FaceTags [4]int
}

// Tetrahedralize decomposes every cell into tets, then tags the facets of
// the resulting mesh that border no other tet: bbox facets lie on bb's
// boundary, and (when isMeshClosed is false) the remaining unmatched
// unshared facets are labelled boundary so the refinement engine can
// smooth open-hole edges.
func Tetrahedralize(cells []bsp.Cell, verts []r3.Vec, bb d3.Box, isMeshClosed bool) []Tet {
	var tets []Tet
	for _, c := range cells {
		tets = append(tets, tetrahedralizeCell(c)...)
	}
	tagUnsharedFacets(tets, verts, bb, isMeshClosed)
	return tets
}

func tetrahedralizeCell(cell bsp.Cell) []Tet {
	if len(cell.Faces) == 0 {
		return nil
	}
	pivot := lowestIndex(cell)

	lateralTag := make(map[[3]int]int)
	for _, f := range cell.Faces {
		if !contains(f.Verts, pivot) {
			continue
		}
		for _, tri := range fanFrom(f.Verts, pivot) {
			lateralTag[sorted3(tri)] = f.SurfaceTri
		}
	}

	var tets []Tet
	for _, f := range cell.Faces {
		if contains(f.Verts, pivot) {
			continue
		}
		for _, tri := range fanFrom(f.Verts, f.Verts[0]) {
			t := Tet{Verts: [4]int{pivot, tri[0], tri[1], tri[2]}}
			t.FaceTags[0] = f.SurfaceTri
			t.FaceTags[1] = lookupTag(lateralTag, pivot, tri[1], tri[2])
			t.FaceTags[2] = lookupTag(lateralTag, pivot, tri[0], tri[2])
			t.FaceTags[3] = lookupTag(lateralTag, pivot, tri[0], tri[1])
			tets = append(tets, t)
		}
	}
	return tets
}

func lowestIndex(cell bsp.Cell) int {
	min := -1
	for _, f := range cell.Faces {
		for _, v := range f.Verts {
			if min == -1 || v < min {
				min = v
			}
		}
	}
	return min
}

func contains(loop []int, v int) bool {
	for _, x := range loop {
		if x == v {
			return true
		}
	}
	return false
}

// fanFrom triangulates loop (a closed polygon that contains apex) into
// triangles sharing apex, rotating the loop so apex leads.
func fanFrom(loop []int, apex int) [][3]int {
	if len(loop) < 3 {
		return nil
	}
	start := 0
	for i, v := range loop {
		if v == apex {
			start = i
			break
		}
	}
	rot := make([]int, len(loop))
	for i := range loop {
		rot[i] = loop[(start+i)%len(loop)]
	}
	var out [][3]int
	for i := 1; i+1 < len(rot); i++ {
		out = append(out, [3]int{rot[0], rot[i], rot[i+1]})
	}
	return out
}

func sorted3(t [3]int) [3]int {
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	if t[1] > t[2] {
		t[1], t[2] = t[2], t[1]
	}
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	return t
}

func lookupTag(m map[[3]int]int, a, b, c int) int {
	if tag, ok := m[sorted3([3]int{a, b, c})]; ok {
		return tag
	}
	return NotSurface
}

const onBboxTol = 1e-7

// tagUnsharedFacets finds every tet facet with no matching facet on any
// other tet (the boundary of the whole tetrahedralization) that is still
// NotSurface, and relabels it Bbox or Boundary.
func tagUnsharedFacets(tets []Tet, verts []r3.Vec, bb d3.Box, isMeshClosed bool) {
	type occurrence struct {
		tetIdx, faceIdx int
	}
	count := make(map[[3]int]int)
	owners := make(map[[3]int][]occurrence)
	facetVerts := func(t Tet, i int) [3]int {
		switch i {
		case 0:
			return [3]int{t.Verts[1], t.Verts[2], t.Verts[3]}
		case 1:
			return [3]int{t.Verts[0], t.Verts[2], t.Verts[3]}
		case 2:
			return [3]int{t.Verts[0], t.Verts[1], t.Verts[3]}
		default:
			return [3]int{t.Verts[0], t.Verts[1], t.Verts[2]}
		}
	}
	for ti, t := range tets {
		for fi := 0; fi < 4; fi++ {
			key := sorted3(facetVerts(t, fi))
			count[key]++
			owners[key] = append(owners[key], occurrence{ti, fi})
		}
	}
	for key, n := range count {
		if n != 1 {
			continue
		}
		occ := owners[key][0]
		t := &tets[occ.tetIdx]
		if t.FaceTags[occ.faceIdx] != NotSurface {
			continue
		}
		if allOnBbox(key, verts, bb) {
			t.FaceTags[occ.faceIdx] = Bbox
		} else if !isMeshClosed {
			t.FaceTags[occ.faceIdx] = Boundary
		}
	}
}

func allOnBbox(f [3]int, verts []r3.Vec, bb d3.Box) bool {
	for _, idx := range f {
		if !onBbox(verts[idx], bb) {
			return false
		}
	}
	return true
}

func onBbox(v r3.Vec, bb d3.Box) bool {
	near := func(a, b float64) bool { return math.Abs(a-b) <= onBboxTol }
	return near(v.X, bb.Min.X) || near(v.X, bb.Max.X) ||
		near(v.Y, bb.Min.Y) || near(v.Y, bb.Max.Y) ||
		near(v.Z, bb.Min.Z) || near(v.Z, bb.Max.Z)
}
