package preprocess

import (
	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/envelope"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config controls the simplification loop. AreaTol rejects zero-area
// triangles (spec.md 4.3c); DedupTol merges vertices closer than this.
type Config struct {
	AreaTol  float64
	DedupTol float64
}

// DefaultConfig derives both tolerances from the envelope's eps, matching
// spec.md 4.3's guidance that simplification thresholds should scale with
// the same tolerance the envelope enforces.
func DefaultConfig(eps float64) Config {
	return Config{AreaTol: eps * eps * 1e-6, DedupTol: eps * 1e-3}
}

// Simplify iteratively applies edge collapse, edge swap, and vertex
// deduplication to input until no accepted operation changes the mesh in
// a full sweep (spec.md 4.3, "Termination"). It returns ErrEmptyInput if
// the result has no triangles left.
func Simplify(input Soup, env *envelope.Envelope, cfg Config) (Soup, error) {
	s := dedup(input, cfg.DedupTol)
	for {
		eg := buildEdgeGraph(s)
		changed := false
		for _, e := range eg.edges() {
			ns, ok := tryCollapse(s, eg, e[0], e[1], env, cfg)
			if ok {
				s = ns
				changed = true
				break // topology changed; rebuild the edge graph before continuing.
			}
		}
		if changed {
			continue
		}
		eg = buildEdgeGraph(s)
		for _, e := range eg.edges() {
			ns, ok := trySwap(s, eg, e[0], e[1], env, cfg)
			if ok {
				s = ns
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	s = dropUnreferenced(s)
	if len(s.T) == 0 {
		return s, ErrEmptyInput
	}
	return s, nil
}

// dedup merges vertices closer than tol, drops triangles that become
// degenerate (repeated vertex index) as a result, and removes the merged
// vertices that no triangle references any more.
func dedup(s Soup, tol float64) Soup {
	s = s.clone()
	remap := make([]int, len(s.V))
	for i := range remap {
		remap[i] = i
	}
	for i := range s.V {
		if remap[i] != i {
			continue
		}
		for j := i + 1; j < len(s.V); j++ {
			if remap[j] != j {
				continue
			}
			if r3.Norm(r3.Sub(s.V[i], s.V[j])) <= tol {
				remap[j] = i
			}
		}
	}
	newTris := make([][3]int, 0, len(s.T))
	for _, t := range s.T {
		a, b, c := remap[t[0]], remap[t[1]], remap[t[2]]
		if a == b || b == c || c == a {
			continue
		}
		newTris = append(newTris, [3]int{a, b, c})
	}
	s.T = newTris
	return dropUnreferenced(s)
}

// dropUnreferenced removes vertices no triangle points to and remaps
// indices to a dense range, mirroring the final filter step of spec.md
// 4.9 for the whole-mesh case.
func dropUnreferenced(s Soup) Soup {
	used := make([]bool, len(s.V))
	for _, t := range s.T {
		used[t[0]], used[t[1]], used[t[2]] = true, true, true
	}
	remap := make([]int, len(s.V))
	newV := make([]r3.Vec, 0, len(s.V))
	for i, u := range used {
		if u {
			remap[i] = len(newV)
			newV = append(newV, s.V[i])
		} else {
			remap[i] = -1
		}
	}
	newT := make([][3]int, len(s.T))
	for i, t := range s.T {
		newT[i] = [3]int{remap[t[0]], remap[t[1]], remap[t[2]]}
	}
	return Soup{V: newV, T: newT}
}

// tryCollapse attempts collapsing edge (u,v) onto u's position, accepting
// iff the star of u (after the substitution) has no inverted triangle, no
// zero-area triangle, and every resulting surface triangle stays inside
// the envelope (spec.md 4.3 a-c).
func tryCollapse(s Soup, eg *edgeGraph, u, v int, env *envelope.Envelope, cfg Config) (Soup, bool) {
	var affected []int
	for ti, t := range s.T {
		if t[0] == v || t[1] == v || t[2] == v {
			affected = append(affected, ti)
		}
	}
	type replacement struct {
		triIdx int
		tri    [3]int
	}
	var repls []replacement
	for _, ti := range affected {
		old := s.T[ti]
		nt := old
		for k, idx := range nt {
			if idx == v {
				nt[k] = u
			}
		}
		if nt[0] == nt[1] || nt[1] == nt[2] || nt[2] == nt[0] {
			continue // triangle collapses entirely (shared the (u,v) edge); it is dropped, not replaced.
		}
		oldTri := d3.Triangle{s.V[old[0]], s.V[old[1]], s.V[old[2]]}
		newTri := d3.Triangle{s.V[nt[0]], s.V[nt[1]], s.V[nt[2]]}
		if newTri.Area() <= cfg.AreaTol {
			return Soup{}, false
		}
		if r3.Dot(oldTri.Normal(), newTri.Normal()) <= 0 {
			return Soup{}, false // orientation inverted.
		}
		if !env.TriangleInside(newTri) {
			return Soup{}, false
		}
		repls = append(repls, replacement{triIdx: ti, tri: nt})
	}
	ns := s.clone()
	dropped := make(map[int]bool, len(affected))
	for _, r := range repls {
		ns.T[r.triIdx] = r.tri
	}
	for _, ti := range affected {
		still := false
		for _, r := range repls {
			if r.triIdx == ti {
				still = true
				break
			}
		}
		if !still {
			dropped[ti] = true
		}
	}
	if len(dropped) == 0 && len(repls) == 0 {
		return Soup{}, false // (u,v) was not a real collapsible edge (e.g. no incident triangles).
	}
	filtered := make([][3]int, 0, len(ns.T)-len(dropped))
	for i, t := range ns.T {
		if !dropped[i] {
			filtered = append(filtered, t)
		}
	}
	ns.T = filtered
	return ns, true
}

// trySwap attempts flipping the shared edge (u,v) of its two incident
// triangles to the opposite diagonal, accepting under the same
// non-inversion / non-degenerate / envelope criteria as collapse, and only
// when the new diagonal is strictly shorter than (u,v), so a quad cannot
// be flipped back and forth forever.
func trySwap(s Soup, eg *edgeGraph, u, v int, env *envelope.Envelope, cfg Config) (Soup, bool) {
	tris := eg.incident[edgeKey(u, v)]
	if len(tris) != 2 {
		return Soup{}, false // swap only applies to a manifold interior edge.
	}
	c, ok1 := oppositeVertex(s.T[tris[0]], u, v)
	d, ok2 := oppositeVertex(s.T[tris[1]], u, v)
	if !ok1 || !ok2 || c == d {
		return Soup{}, false
	}
	if r3.Norm2(r3.Sub(s.V[c], s.V[d])) >= r3.Norm2(r3.Sub(s.V[u], s.V[v])) {
		return Soup{}, false
	}
	newA := [3]int{c, d, u}
	newB := [3]int{d, c, v}
	oldA := d3.Triangle{s.V[s.T[tris[0]][0]], s.V[s.T[tris[0]][1]], s.V[s.T[tris[0]][2]]}
	oldB := d3.Triangle{s.V[s.T[tris[1]][0]], s.V[s.T[tris[1]][1]], s.V[s.T[tris[1]][2]]}
	triA := d3.Triangle{s.V[newA[0]], s.V[newA[1]], s.V[newA[2]]}
	triB := d3.Triangle{s.V[newB[0]], s.V[newB[1]], s.V[newB[2]]}
	if triA.Area() <= cfg.AreaTol || triB.Area() <= cfg.AreaTol {
		return Soup{}, false
	}
	if r3.Dot(oldA.Normal(), triA.Normal()) <= 0 || r3.Dot(oldB.Normal(), triB.Normal()) <= 0 {
		return Soup{}, false
	}
	if !env.TriangleInside(triA) || !env.TriangleInside(triB) {
		return Soup{}, false
	}
	ns := s.clone()
	ns.T[tris[0]] = newA
	ns.T[tris[1]] = newB
	return ns, true
}

func oppositeVertex(t [3]int, u, v int) (int, bool) {
	for _, idx := range t {
		if idx != u && idx != v {
			return idx, true
		}
	}
	return 0, false
}
