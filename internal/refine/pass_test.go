package refine

import (
	"context"
	"testing"

	"github.com/solidgeom/tetwild/internal/simpletet"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestEngineRunTerminatesAndKeepsPositiveVolume(t *testing.T) {
	verts := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}, {X: 0, Y: 0, Z: 3},
	}
	tets := []simpletet.Tet{
		{Verts: [4]int{0, 1, 2, 3}, FaceTags: [4]int{0, 1, 2, 3}},
	}
	m := NewMesh(verts, tets)
	env := looseEnvelope()
	cfg := DefaultConfig(5, 0.5)
	cfg.MaxNumPasses = 3
	state := RefineState{Eps: 0.5, BBoxDiag: 5}

	eng := NewEngine(m, env, cfg, state)
	stats := eng.Run(context.Background())

	if len(m.LiveTets()) == 0 {
		t.Fatal("expected at least one surviving tet after refinement")
	}
	for _, i := range m.LiveTets() {
		v0, v1, v2, v3 := m.TetVerts(i)
		if !positiveVolume(v0, v1, v2, v3) {
			t.Errorf("tet %d inverted after Engine.Run", i)
		}
	}
	if stats.NumInverted != 0 {
		t.Errorf("expected 0 inverted tets in final stats, got %d", stats.NumInverted)
	}
}

func TestEngineRunRespectsContextCancellation(t *testing.T) {
	m := singleTetMesh()
	env := looseEnvelope()
	cfg := DefaultConfig(5, 10)
	cfg.MaxNumPasses = 100

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng := NewEngine(m, env, cfg, RefineState{})
	eng.Run(ctx) // must return promptly instead of running 100 passes.
}
