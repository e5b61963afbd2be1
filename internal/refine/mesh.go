package refine

import (
	"github.com/solidgeom/tetwild/internal/simpletet"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is the mutable tet mesh the refinement operations act on. Removed
// tets are tombstoned in Alive rather than spliced out, so operations can
// reference tet indices stably within a single pass.
type Mesh struct {
	Verts []r3.Vec
	Tets  []simpletet.Tet
	Alive []bool
}

// NewMesh takes ownership of verts and tets as the initial mesh state.
func NewMesh(verts []r3.Vec, tets []simpletet.Tet) *Mesh {
	alive := make([]bool, len(tets))
	for i := range alive {
		alive[i] = true
	}
	return &Mesh{Verts: verts, Tets: tets, Alive: alive}
}

// addVertex appends v and returns its new index.
func (m *Mesh) addVertex(v r3.Vec) int {
	m.Verts = append(m.Verts, v)
	return len(m.Verts) - 1
}

// addTet appends t (alive) and returns its new index.
func (m *Mesh) addTet(t simpletet.Tet) int {
	m.Tets = append(m.Tets, t)
	m.Alive = append(m.Alive, true)
	return len(m.Tets) - 1
}

func (m *Mesh) kill(i int) { m.Alive[i] = false }

// LiveTets returns the indices of every alive tet.
func (m *Mesh) LiveTets() []int {
	out := make([]int, 0, len(m.Tets))
	for i, a := range m.Alive {
		if a {
			out = append(out, i)
		}
	}
	return out
}

// tetsWithEdge returns the indices of every alive tet containing both u
// and v, i.e. the edge's link.
func (m *Mesh) tetsWithEdge(u, v int) []int {
	var out []int
	for i, t := range m.Tets {
		if !m.Alive[i] {
			continue
		}
		if hasVertex(t, u) && hasVertex(t, v) {
			out = append(out, i)
		}
	}
	return out
}

// tetsWithVertex returns the indices of every alive tet containing v.
func (m *Mesh) tetsWithVertex(v int) []int {
	var out []int
	for i, t := range m.Tets {
		if !m.Alive[i] {
			continue
		}
		if hasVertex(t, v) {
			out = append(out, i)
		}
	}
	return out
}

func hasVertex(t simpletet.Tet, v int) bool {
	for _, x := range t.Verts {
		if x == v {
			return true
		}
	}
	return false
}

func posOf(t simpletet.Tet, v int) int {
	for i, x := range t.Verts {
		if x == v {
			return i
		}
	}
	return -1
}

// Edges enumerates every distinct edge referenced by an alive tet.
func (m *Mesh) Edges() [][2]int {
	seen := make(map[[2]int]bool)
	var out [][2]int
	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		k := [2]int{a, b}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for i, t := range m.Tets {
		if !m.Alive[i] {
			continue
		}
		v := t.Verts
		add(v[0], v[1])
		add(v[0], v[2])
		add(v[0], v[3])
		add(v[1], v[2])
		add(v[1], v[3])
		add(v[2], v[3])
	}
	return out
}

// TetVerts returns the tet's 4 vertex positions.
func (m *Mesh) TetVerts(i int) (v0, v1, v2, v3 r3.Vec) {
	t := m.Tets[i]
	return m.Verts[t.Verts[0]], m.Verts[t.Verts[1]], m.Verts[t.Verts[2]], m.Verts[t.Verts[3]]
}

// Energy returns the shape energy of alive tet i.
func (m *Mesh) Energy(i int) Energy {
	v0, v1, v2, v3 := m.TetVerts(i)
	return TetEnergy(v0, v1, v2, v3)
}

// MaxEnergy returns the worst energy among a set of tet indices, and
// whether the set was non-empty.
func MaxEnergy(m *Mesh, idx []int) (Energy, bool) {
	if len(idx) == 0 {
		return Energy{}, false
	}
	max := m.Energy(idx[0])
	for _, i := range idx[1:] {
		e := m.Energy(i)
		if max.Less(e) {
			max = e
		}
	}
	return max, true
}

// surfaceFacetsOf returns, for tet index ti, the list of (triangle
// vertices, surface tag) for every facet tagged as an input triangle.
func (m *Mesh) surfaceFacetsOf(ti int) []surfaceFacet {
	t := m.Tets[ti]
	var out []surfaceFacet
	combos := [4][3]int{
		{t.Verts[1], t.Verts[2], t.Verts[3]},
		{t.Verts[0], t.Verts[2], t.Verts[3]},
		{t.Verts[0], t.Verts[1], t.Verts[3]},
		{t.Verts[0], t.Verts[1], t.Verts[2]},
	}
	for i, tag := range t.FaceTags {
		if tag >= 0 {
			out = append(out, surfaceFacet{verts: combos[i], tag: tag})
		}
	}
	return out
}

type surfaceFacet struct {
	verts [3]int
	tag   int
}

// boundaryFacetVertsOf returns the vertices of tet ti's facets tagged as
// an open-mesh hole boundary (simpletet.Boundary), if any.
func (m *Mesh) boundaryFacetVertsOf(ti int) []int {
	t := m.Tets[ti]
	combos := [4][3]int{
		{t.Verts[1], t.Verts[2], t.Verts[3]},
		{t.Verts[0], t.Verts[2], t.Verts[3]},
		{t.Verts[0], t.Verts[1], t.Verts[3]},
		{t.Verts[0], t.Verts[1], t.Verts[2]},
	}
	var out []int
	for i, tag := range t.FaceTags {
		if tag == simpletet.Boundary {
			out = append(out, combos[i][:]...)
		}
	}
	return out
}
