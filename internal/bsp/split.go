package bsp

import (
	"github.com/solidgeom/tetwild/internal/conform"
	"gonum.org/v1/gonum/spatial/r3"
)

const planeTol = 1e-9

// cutPlane is the cutter triangle's supporting plane, as a point and unit
// normal, so every vertex of a cell can be classified against it.
type cutPlane struct {
	p0, n r3.Vec
}

func planeOf(c conform.Cutter) cutPlane {
	return cutPlane{p0: c.Tri[0], n: c.Tri.UnitNormal()}
}

func (pl cutPlane) signedDist(v r3.Vec) float64 {
	return r3.Dot(pl.n, r3.Sub(v, pl.p0))
}

func (pl cutPlane) side(v r3.Vec) int {
	d := pl.signedDist(v)
	switch {
	case d > planeTol:
		return 1
	case d < -planeTol:
		return -1
	default:
		return 0
	}
}

// straddles reports whether cell has at least one vertex strictly above
// and at least one strictly below pl, i.e. whether pl actually cuts it.
func straddles(verts []r3.Vec, cell Cell, pl cutPlane) bool {
	above, below := false, false
	for _, v := range cell.vertexSet() {
		switch pl.side(verts[v]) {
		case 1:
			above = true
		case -1:
			below = true
		}
		if above && below {
			return true
		}
	}
	return false
}

// edgeKey is a dedup key for an original cell edge, used so that the new
// vertex created where that edge crosses the cutting plane is computed
// once and shared by the (exactly two) faces adjoining the edge.
type edgeKey [2]int

func sortedEdge(a, b int) edgeKey {
	if a > b {
		return edgeKey{b, a}
	}
	return edgeKey{a, b}
}

// splitCell cuts cell by pl into an "above" and a "below" child, appending
// any newly created crossing vertices to verts. New vertices are created
// at floating-point precision: unlike the Delaunay and envelope stages,
// the points introduced here are new geometry with no exact rational
// representation to inherit, so there is nothing for the exact kernel
// predicates to operate on at this step.
func splitCell(verts *[]r3.Vec, cell Cell, cutter conform.Cutter) (above, below Cell) {
	pl := planeOf(cutter)
	cache := make(map[edgeKey]int)
	addCross := func(a, b int) int {
		key := sortedEdge(a, b)
		if idx, ok := cache[key]; ok {
			return idx
		}
		va, vb := (*verts)[a], (*verts)[b]
		da, db := pl.signedDist(va), pl.signedDist(vb)
		t := da / (da - db)
		ip := r3.Add(va, r3.Scale(t, r3.Sub(vb, va)))
		idx := len(*verts)
		*verts = append(*verts, ip)
		cache[key] = idx
		return idx
	}

	var cutEdges [][2]int
	for _, f := range cell.Faces {
		aboveLoop, belowLoop, cut := splitFacePolygon(f.Verts, *verts, pl, addCross)
		if len(aboveLoop) >= 3 {
			above.Faces = append(above.Faces, Face{Verts: aboveLoop, SurfaceTri: f.SurfaceTri})
		}
		if len(belowLoop) >= 3 {
			below.Faces = append(below.Faces, Face{Verts: belowLoop, SurfaceTri: f.SurfaceTri})
		}
		for i := 0; i+1 < len(cut); i++ {
			cutEdges = append(cutEdges, [2]int{cut[i], cut[i+1]})
		}
	}

	loop := stitchLoop(cutEdges)
	if len(loop) >= 3 {
		aboveFace := Face{Verts: reversed(loop), SurfaceTri: cutter.TriIdx}
		belowFace := Face{Verts: loop, SurfaceTri: cutter.TriIdx}
		above.Faces = append(above.Faces, aboveFace)
		below.Faces = append(below.Faces, belowFace)
	}
	return above, below
}

// splitFacePolygon clips a single convex face (given as a vertex loop)
// against pl via Sutherland-Hodgman, returning the sub-loop kept on each
// side plus the ordered list of vertices lying on pl (on-plane originals
// and newly interpolated crossing points), used by the caller to
// assemble the new shared cutting face.
func splitFacePolygon(loop []int, verts []r3.Vec, pl cutPlane, addCross func(a, b int) int) (above, below, cut []int) {
	n := len(loop)
	signs := make([]int, n)
	for i, idx := range loop {
		signs[i] = pl.side(verts[idx])
	}
	for i := 0; i < n; i++ {
		cur, nxt := loop[i], loop[(i+1)%n]
		sc, sn := signs[i], signs[(i+1)%n]
		if sc >= 0 {
			above = append(above, cur)
		}
		if sc <= 0 {
			below = append(below, cur)
		}
		if sc == 0 {
			cut = append(cut, cur)
		}
		if (sc > 0 && sn < 0) || (sc < 0 && sn > 0) {
			mid := addCross(cur, nxt)
			above = append(above, mid)
			below = append(below, mid)
			cut = append(cut, mid)
		}
	}
	return above, below, cut
}

// stitchLoop assembles disjoint edges (each contributed by one clipped
// face) into the single closed polygon bounding the new cutting face,
// which is convex because cell is convex.
func stitchLoop(edges [][2]int) []int {
	if len(edges) == 0 {
		return nil
	}
	adj := make(map[int][]int)
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	start := edges[0][0]
	loop := []int{start}
	visited := map[edgeKey]bool{}
	cur := start
	prev := -1
	for {
		var next int = -1
		for _, cand := range adj[cur] {
			if cand == prev {
				continue
			}
			if visited[sortedEdge(cur, cand)] {
				continue
			}
			next = cand
			break
		}
		if next == -1 {
			break
		}
		visited[sortedEdge(cur, next)] = true
		if next == start {
			break
		}
		loop = append(loop, next)
		prev, cur = cur, next
	}
	return loop
}

func reversed(loop []int) []int {
	out := make([]int, len(loop))
	for i, v := range loop {
		out[len(loop)-1-i] = v
	}
	return out
}
