package refine

import (
	"testing"

	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/envelope"
	"github.com/solidgeom/tetwild/internal/simpletet"
	"gonum.org/v1/gonum/spatial/r3"
)

func singleTetMesh() *Mesh {
	verts := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 8, Y: 0, Z: 0}, {X: 4, Y: 1, Z: 0}, {X: 4, Y: 0, Z: 1},
	}
	tets := []simpletet.Tet{
		{Verts: [4]int{0, 1, 2, 3}, FaceTags: [4]int{0, 1, 2, 3}},
	}
	return NewMesh(verts, tets)
}

func looseEnvelope() *envelope.Envelope {
	tris := []d3.Triangle{
		{{X: 2, Y: 0, Z: 0}, {X: 0, Y: 2, Z: 0}, {X: 0, Y: 0, Z: 2}},
	}
	return envelope.New(tris, 10) // wide enough that every surface check passes.
}

func TestSplitEdgeAddsTwoTetsAndKillsOne(t *testing.T) {
	m := singleTetMesh()
	env := looseEnvelope()
	ok := SplitEdge(m, env, 0, 1)
	if !ok {
		t.Fatal("expected split of the longest edge to be accepted")
	}
	live := m.LiveTets()
	if len(live) != 2 {
		t.Fatalf("expected 2 live tets after a single split, got %d", len(live))
	}
	for _, i := range live {
		v0, v1, v2, v3 := m.TetVerts(i)
		if !positiveVolume(v0, v1, v2, v3) {
			t.Errorf("tet %d is inverted after split", i)
		}
	}
}

func TestCollapseEdgeUndoesASplit(t *testing.T) {
	m := singleTetMesh()
	env := looseEnvelope()
	if !SplitEdge(m, env, 0, 1) {
		t.Fatal("split should have succeeded")
	}
	live := m.LiveTets()
	if len(live) != 2 {
		t.Fatalf("expected 2 live tets, got %d", len(live))
	}
	// The midpoint vertex is the newest one added.
	mid := len(m.Verts) - 1
	CollapseEdge(m, env, mid, 1, true)
	// Collapse may or may not be accepted depending on the energy rule;
	// either way it must never corrupt the mesh into inverted tets.
	for _, i := range m.LiveTets() {
		v0, v1, v2, v3 := m.TetVerts(i)
		if !positiveVolume(v0, v1, v2, v3) {
			t.Errorf("tet %d is inverted after collapse", i)
		}
	}
}

func TestSmoothVertexNeverInvertsTets(t *testing.T) {
	m := singleTetMesh()
	env := looseEnvelope()
	SmoothVertex(m, env, 0, false, true)
	for _, i := range m.LiveTets() {
		v0, v1, v2, v3 := m.TetVerts(i)
		if !positiveVolume(v0, v1, v2, v3) {
			t.Error("smoothing produced an inverted tet")
		}
	}
}
