// Package tetwild converts an arbitrary input triangle soup into a
// tetrahedral volume mesh whose boundary lies within a user-specified
// envelope of the input surface (spec.md section 1).
package tetwild

import (
	"context"
	"math"

	"github.com/solidgeom/tetwild/internal/bsp"
	"github.com/solidgeom/tetwild/internal/conform"
	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/delaunay"
	"github.com/solidgeom/tetwild/internal/envelope"
	"github.com/solidgeom/tetwild/internal/preprocess"
	"github.com/solidgeom/tetwild/internal/refine"
	"github.com/solidgeom/tetwild/internal/simpletet"
	"github.com/solidgeom/tetwild/internal/winding"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tetrahedralize runs the full pipeline: envelope-constrained surface
// simplification, Delaunay tetrahedralization of the simplified vertex
// set (optionally augmented by voxel-stuffed interior samples), BSP
// subdivision to conform the complex to every input triangle,
// decomposition into tagged tets, iterative quality refinement, and
// winding-number inside/outside filtering (spec.md section 4).
//
// VO holds output vertex positions, TO holds zero-based tet vertex
// indices, and AO[i] is the minimum dihedral angle (radians) of tet i.
func Tetrahedralize(ctx context.Context, VI []r3.Vec, FI [][3]int, cfg Config) (VO []r3.Vec, TO [][4]int, AO []float64, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if err := validateInput(VI, FI); err != nil {
		return nil, nil, nil, err
	}

	bb := boundsOf(VI)
	diag := r3.Norm(r3.Sub(bb.Max, bb.Min))
	eps := diag / cfg.EpsRel
	initialEdgeLen := diag / cfg.InitialEdgeLenRel
	if cfg.TargetNumVertices > 0 {
		size := bb.Size()
		if l := targetEdgeLengthForVertexCount(size.X*size.Y*size.Z, cfg.TargetNumVertices); l > 0 {
			initialEdgeLen = l
		}
	}

	var bgField *sizingField
	if cfg.BackgroundMesh != "" {
		bgField, err = loadSizingField(cfg.BackgroundMesh)
		if err != nil {
			return nil, nil, nil, &Error{Kind: InputInvalid, Msg: "reading background_mesh", Err: err}
		}
	}

	soup := preprocess.Soup{V: append([]r3.Vec{}, VI...), T: toTriIdx(FI)}
	tris := make([]d3.Triangle, soup.NumTriangles())
	for i := range soup.T {
		tris[i] = soup.Triangle(i)
	}
	env := envelope.New(tris, eps)
	if cfg.SamplingDistRel > 0 {
		env.SetSamplingDist(diag / cfg.SamplingDistRel)
	}

	simplified, err := preprocess.Simplify(soup, env, preprocess.DefaultConfig(eps))
	if err != nil {
		return nil, nil, nil, &Error{Kind: EmptyInput, Msg: "preprocessing removed every triangle", Err: err}
	}
	cfg.progress(StepPreprocess, 1)

	simplifiedTris := make([]d3.Triangle, simplified.NumTriangles())
	for i := range simplified.T {
		simplifiedTris[i] = simplified.Triangle(i)
	}
	env = envelope.New(simplifiedTris, eps)

	points := append([]r3.Vec{}, simplified.V...)
	if cfg.UseVoxelStuffing {
		field := winding.NewField(simplifiedTris)
		keep := func(p r3.Vec) bool {
			return field.WindingNumber(p) > 0.5 && !env.Inside(p)
		}
		points = append(points, delaunay.VoxelStuff(bb, initialEdgeLen, keep)...)
	}

	dVerts, dTets := delaunay.Tetrahedralize(points)
	cfg.progress(StepDelaunay, 1)

	conf := conform.Conform(dVerts, dTets, simplified.V, simplified.T)
	cfg.progress(StepFaceMatching, 1)

	cells := bsp.FromDelaunay(dTets, conf.Matched)
	complex := bsp.Subdivide(dVerts, cells, conf.Cutters)
	cfg.progress(StepBSP, 1)

	isMeshClosed := len(conf.Cutters) == 0 && isClosedSurface(simplified)
	sTets := simpletet.Tetrahedralize(complex.Cells, complex.Verts, bb, isMeshClosed)
	cfg.progress(StepTetra, 1)

	mesh := refine.NewMesh(complex.Verts, sTets)
	rcfg := refine.DefaultConfig(diag, eps)
	rcfg.MaxNumPasses = cfg.MaxNumPasses
	rcfg.FilterEnergyThres = cfg.FilterEnergyThres
	rcfg.DeltaEnergyThres = cfg.DeltaEnergyThres
	rcfg.AdaptiveScalar = cfg.AdaptiveScalar
	rcfg.EpsInput = eps
	rcfg.TargetEdgeLength = initialEdgeLen
	rcfg.SmoothOpenBoundary = cfg.SmoothOpenBoundary
	state := refine.RefineState{
		Eps: eps, InitialEdgeLen: initialEdgeLen, BBoxDiag: diag,
		SubStage: cfg.Stage - 1, IsMeshClosed: isMeshClosed,
	}
	eng := refine.NewEngine(mesh, env, rcfg, state)
	if bgField != nil {
		for i, v := range mesh.Verts {
			if s := bgField.sizeAt(v); s > 0 && s < eng.TargetLen[i] {
				eng.TargetLen[i] = s
			}
		}
	}
	stats := eng.Run(ctx)
	cfg.progress(StepOptimize, 1)

	outV, outT := winding.FilterInsideOutside(mesh.Verts, mesh.Tets, simplifiedTris)

	TO = make([][4]int, len(outT))
	AO = make([]float64, len(outT))
	for i, t := range outT {
		TO[i] = t.Verts
		v0, v1, v2, v3 := outV[t.Verts[0]], outV[t.Verts[1]], outV[t.Verts[2]], outV[t.Verts[3]]
		minA, _ := refine.TetDihedralRange(v0, v1, v2, v3)
		AO[i] = minA
	}

	if stats.MaxEnergy >= cfg.FilterEnergyThres && stats.MaxEnergy != 0 {
		return outV, TO, AO, &Error{
			Kind: PassLimitExceeded, Msg: "pass budget exhausted before convergence",
			State: state, Stats: stats,
		}
	}
	return outV, TO, AO, nil
}

func validateInput(VI []r3.Vec, FI [][3]int) error {
	if len(FI) == 0 {
		return &Error{Kind: InputInvalid, Msg: "FI is empty"}
	}
	for _, v := range VI {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) ||
			math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0) {
			return &Error{Kind: InputInvalid, Msg: "vertex coordinate is NaN or Inf"}
		}
	}
	for _, f := range FI {
		for _, idx := range f {
			if idx < 0 || idx >= len(VI) {
				return &Error{Kind: InputInvalid, Msg: "triangle index out of range"}
			}
		}
	}
	bb := boundsOf(VI)
	if r3.Norm(r3.Sub(bb.Max, bb.Min)) == 0 {
		return &Error{Kind: InputInvalid, Msg: "input bounding box has zero diagonal"}
	}
	return nil
}

func boundsOf(verts []r3.Vec) d3.Box {
	min, max := verts[0], verts[0]
	for _, v := range verts[1:] {
		min = r3.Vec{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = r3.Vec{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return d3.Box{Min: min, Max: max}
}

func toTriIdx(FI [][3]int) [][3]int {
	out := make([][3]int, len(FI))
	copy(out, FI)
	return out
}

// isClosedSurface reports whether every edge of soup is shared by
// exactly two triangles, the standard closed-manifold test.
func isClosedSurface(soup preprocess.Soup) bool {
	count := make(map[[2]int]int)
	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		count[[2]int{a, b}]++
	}
	for _, t := range soup.T {
		add(t[0], t[1])
		add(t[1], t[2])
		add(t[2], t[0])
	}
	for _, c := range count {
		if c != 2 {
			return false
		}
	}
	return true
}
