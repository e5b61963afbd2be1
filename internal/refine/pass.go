package refine

import (
	"context"
	"math"
	"sort"

	"github.com/solidgeom/tetwild/internal/envelope"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config holds the refinement engine's tunable parameters (spec.md
// section 4.8 and section 6 defaults).
type Config struct {
	MaxNumPasses      int
	FilterEnergyThres float64
	DeltaEnergyThres  float64
	AdaptiveScalar    float64
	UseEnergyMax      bool
	UseOneRingProj    bool
	EpsInput          float64
	NSubStages        int
	TargetEdgeLength  float64
	// SmoothOpenBoundary allows SMOOTH to relocate vertices on an open
	// mesh's hole boundary (simpletet.Boundary-tagged facets) as interior
	// vertices. When false those vertices are flagged as surface vertices,
	// same as envelope-tagged ones: they still move, but only under the
	// envelope check applied to surface vertices.
	SmoothOpenBoundary bool
}

// DefaultConfig returns the spec.md section 6 defaults, scaled by the
// input bbox diagonal as fTetWild does for length-like parameters.
func DefaultConfig(bboxDiag, epsInput float64) Config {
	return Config{
		MaxNumPasses:      80,
		FilterEnergyThres: 10,
		DeltaEnergyThres:  0.1,
		AdaptiveScalar:    0.6,
		UseEnergyMax:      true,
		UseOneRingProj:    true,
		EpsInput:          epsInput,
		NSubStages:        2,
		TargetEdgeLength:  bboxDiag * 0.05,
		SmoothOpenBoundary: false,
	}
}

// Engine runs the refinement pass loop over a Mesh against a fixed
// envelope and a set of per-vertex surface flags.
type Engine struct {
	Mesh       *Mesh
	Env        *envelope.Envelope
	Cfg        Config
	State      RefineState
	IsSurface  []bool            // len == len(Mesh.Verts) at construction time; grown lazily for split vertices.
	TargetLen  []float64         // per-vertex target edge length, adaptively shrunk near high energy.
}

// NewEngine builds an Engine over an existing mesh, marking every vertex
// referenced by a tagged surface facet as a surface vertex.
func NewEngine(m *Mesh, env *envelope.Envelope, cfg Config, state RefineState) *Engine {
	isSurface := make([]bool, len(m.Verts))
	for i := range m.Tets {
		if !m.Alive[i] {
			continue
		}
		for _, sf := range m.surfaceFacetsOf(i) {
			for _, v := range sf.verts {
				isSurface[v] = true
			}
		}
		if !cfg.SmoothOpenBoundary {
			for _, v := range m.boundaryFacetVertsOf(i) {
				isSurface[v] = true
			}
		}
	}
	target := make([]float64, len(m.Verts))
	for i := range target {
		target[i] = cfg.TargetEdgeLength
	}
	return &Engine{Mesh: m, Env: env, Cfg: cfg, State: state, IsSurface: isSurface, TargetLen: target}
}

func (e *Engine) surfaceFlag(v int) bool {
	if v < len(e.IsSurface) {
		return e.IsSurface[v]
	}
	return false
}

func (e *Engine) growTags(v int) {
	for len(e.IsSurface) <= v {
		e.IsSurface = append(e.IsSurface, false)
	}
	for len(e.TargetLen) <= v {
		e.TargetLen = append(e.TargetLen, e.Cfg.TargetEdgeLength)
	}
}

// Run executes up to Cfg.MaxNumPasses refinement passes, each a
// SPLIT/COLLAPSE/SWAP/SMOOTH sweep, ramping the envelope eps across
// sub-stages and adaptively shrinking the target length field after a
// stalled pass, until the mesh's max energy drops below
// FilterEnergyThres, the pass budget is exhausted, or ctx is cancelled.
// A stalled pass (max and avg energy both change by less than
// DeltaEnergyThres) does not stop the loop: it shrinks the target lengths
// and advances the envelope sub-stage.
func (e *Engine) Run(ctx context.Context) PassStats {
	prev := e.Mesh.Stats()
	for pass := 0; pass < e.Cfg.MaxNumPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return e.Mesh.Stats()
		}
		eps := e.State.EpsForSubStage(e.Cfg.EpsInput, e.Cfg.NSubStages)
		e.Env.SetEps(eps)

		e.runSplitPass()
		e.runCollapsePass()
		e.runSwapPass()
		e.runSmoothPass()

		cur := e.Mesh.Stats()
		if cur.MaxEnergy < e.Cfg.FilterEnergyThres {
			return cur
		}
		if math.Abs(cur.MaxEnergy-prev.MaxEnergy) < e.Cfg.DeltaEnergyThres &&
			math.Abs(cur.AvgEnergy-prev.AvgEnergy) < e.Cfg.DeltaEnergyThres {
			e.shrinkStalledTargets(cur)
			e.State.SubStage++
		}
		prev = cur
	}
	return prev
}

// shrinkStalledTargets scales down the target edge length of vertices
// incident to a tet whose energy exceeds FilterEnergyThres, so the next
// pass's SPLIT operations concentrate refinement there.
func (e *Engine) shrinkStalledTargets(stats PassStats) {
	if stats.MaxEnergy < e.Cfg.FilterEnergyThres {
		return
	}
	for i, alive := range e.Mesh.Alive {
		if !alive {
			continue
		}
		if e.Mesh.Energy(i).Value() <= e.Cfg.FilterEnergyThres {
			continue
		}
		for _, v := range e.Mesh.Tets[i].Verts {
			e.growTags(v)
			e.TargetLen[v] *= e.Cfg.AdaptiveScalar
		}
	}
}

// runSplitPass applies SPLIT to edges longer than 1.5 times the smaller
// of their endpoints' target lengths, longest first (spec.md 4.8 priority).
func (e *Engine) runSplitPass() {
	type scored struct {
		u, v int
		len  float64
	}
	edges := e.Mesh.Edges()
	var work []scored
	for _, ed := range edges {
		u, v := ed[0], ed[1]
		l := dist(e.Mesh.Verts[u], e.Mesh.Verts[v])
		e.growTags(u)
		e.growTags(v)
		target := math.Min(e.TargetLen[u], e.TargetLen[v])
		if l > 1.5*target {
			work = append(work, scored{u, v, l})
		}
	}
	sort.Slice(work, func(i, j int) bool { return work[i].len > work[j].len })
	for _, w := range work {
		if SplitEdge(e.Mesh, e.Env, w.u, w.v) {
			e.growTags(len(e.Mesh.Verts) - 1)
		}
	}
}

// runCollapsePass applies COLLAPSE to edges shorter than half the smaller
// of their endpoints' target lengths, shortest first.
func (e *Engine) runCollapsePass() {
	type scored struct {
		u, v int
		len  float64
	}
	edges := e.Mesh.Edges()
	var work []scored
	for _, ed := range edges {
		u, v := ed[0], ed[1]
		l := dist(e.Mesh.Verts[u], e.Mesh.Verts[v])
		e.growTags(u)
		e.growTags(v)
		target := math.Min(e.TargetLen[u], e.TargetLen[v])
		if l < 0.5*target {
			work = append(work, scored{u, v, l})
		}
	}
	sort.Slice(work, func(i, j int) bool { return work[i].len < work[j].len })
	for _, w := range work {
		if e.surfaceFlag(w.u) && !e.surfaceFlag(w.v) {
			continue // never collapse a surface vertex into an interior one.
		}
		CollapseEdge(e.Mesh, e.Env, w.u, w.v, e.Cfg.UseEnergyMax)
	}
}

// runSwapPass tries a 2-3 swap across every still-live pair of tets
// sharing a facet.
func (e *Engine) runSwapPass() {
	seen := make(map[[2]int]bool)
	live := e.Mesh.LiveTets()
	for _, i := range live {
		if !e.Mesh.Alive[i] {
			continue
		}
		for _, j := range live {
			if !e.Mesh.Alive[i] {
				break
			}
			if i == j || !e.Mesh.Alive[j] {
				continue
			}
			key := [2]int{i, j}
			if i > j {
				key = [2]int{j, i}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			SwapFace23(e.Mesh, i, j)
		}
	}
}

// runSmoothPass applies SMOOTH to every live vertex once.
func (e *Engine) runSmoothPass() {
	seen := make(map[int]bool)
	for i, alive := range e.Mesh.Alive {
		if !alive {
			continue
		}
		for _, v := range e.Mesh.Tets[i].Verts {
			if seen[v] {
				continue
			}
			seen[v] = true
			SmoothVertex(e.Mesh, e.Env, v, e.surfaceFlag(v), e.Cfg.UseOneRingProj)
		}
	}
}

func dist(a, b r3.Vec) float64 { return r3.Norm(r3.Sub(a, b)) }
