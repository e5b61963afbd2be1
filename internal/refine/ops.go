package refine

import (
	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/envelope"
	"github.com/solidgeom/tetwild/internal/kernel"
	"github.com/solidgeom/tetwild/internal/simpletet"
	"gonum.org/v1/gonum/spatial/r3"
)

func positiveVolume(v0, v1, v2, v3 r3.Vec) bool {
	pts := [4]kernel.Point{
		kernel.NewPointFloat(v0), kernel.NewPointFloat(v1),
		kernel.NewPointFloat(v2), kernel.NewPointFloat(v3),
	}
	return kernel.Orient3D(pts[0], pts[1], pts[2], pts[3]) == kernel.Positive
}

// SplitEdge implements spec.md 4.8's SPLIT(e): it inserts the midpoint of
// (u,v) and replaces every tet containing that edge with two children
// sharing the new vertex. Accepts iff every new tet has positive volume,
// every surface facet touched by the split stays inside env at eps, and
// the worst new energy is no greater than the worst energy it replaces.
func SplitEdge(m *Mesh, env *envelope.Envelope, u, v int) bool {
	link := m.tetsWithEdge(u, v)
	if len(link) == 0 {
		return false
	}
	mid := r3.Scale(0.5, r3.Add(m.Verts[u], m.Verts[v]))

	oldIdx := append([]int{}, link...)
	oldMax, _ := MaxEnergy(m, oldIdx)

	midIdx := len(m.Verts) // tentative; only committed on acceptance
	type child struct{ t simpletet.Tet }
	var children []child
	var newSurfaceTris []d3.Triangle

	for _, ti := range link {
		t := m.Tets[ti]
		pu, pv := posOf(t, u), posOf(t, v)
		// the two positions that are neither pu nor pv.
		others := make([]int, 0, 2)
		for i := 0; i < 4; i++ {
			if i != pu && i != pv {
				others = append(others, i)
			}
		}
		pa, pb := others[0], others[1]
		a, b := t.Verts[pa], t.Verts[pb]
		Fu, Fv, Fa, Fb := t.FaceTags[pu], t.FaceTags[pv], t.FaceTags[pa], t.FaceTags[pb]

		t1 := simpletet.Tet{
			Verts:    [4]int{u, midIdx, a, b},
			FaceTags: [4]int{simpletet.NotSurface, Fv, Fa, Fb},
		}
		t2 := simpletet.Tet{
			Verts:    [4]int{midIdx, v, a, b},
			FaceTags: [4]int{Fu, simpletet.NotSurface, Fa, Fb},
		}
		if !positiveVolume(m.Verts[u], mid, m.Verts[a], m.Verts[b]) ||
			!positiveVolume(mid, m.Verts[v], m.Verts[a], m.Verts[b]) {
			return false
		}
		if Fa >= 0 {
			newSurfaceTris = append(newSurfaceTris, d3.Triangle{m.Verts[u], mid, m.Verts[b]})
			newSurfaceTris = append(newSurfaceTris, d3.Triangle{mid, m.Verts[v], m.Verts[b]})
		}
		if Fb >= 0 {
			newSurfaceTris = append(newSurfaceTris, d3.Triangle{m.Verts[u], mid, m.Verts[a]})
			newSurfaceTris = append(newSurfaceTris, d3.Triangle{mid, m.Verts[v], m.Verts[a]})
		}
		children = append(children, child{t1}, child{t2})
	}

	for _, tri := range newSurfaceTris {
		if !env.TriangleInside(tri) {
			return false
		}
	}

	// Commit: add the real midpoint vertex now that acceptance is certain.
	realMid := m.addVertex(mid)
	var newIdx []int
	for _, c := range children {
		t := c.t
		for i, vi := range t.Verts {
			if vi == midIdx {
				t.Verts[i] = realMid
			}
		}
		newIdx = append(newIdx, m.addTet(t))
	}
	newMax, _ := MaxEnergy(m, newIdx)
	if oldMax.IsFinite() && !newMax.Less(oldMax) && newMax != oldMax {
		// strictly worse than the old max: reject and roll back.
		for _, i := range newIdx {
			m.kill(i)
		}
		m.Verts = m.Verts[:len(m.Verts)-1]
		return false
	}
	for _, i := range oldIdx {
		m.kill(i)
	}
	return true
}

// CollapseEdge implements spec.md 4.8's COLLAPSE(u,v): replaces u and v
// with v, dropping every tet in the edge's link (which degenerate to
// zero volume) and remapping every other tet referencing u to v.
// useEnergyMax selects the acceptance rule: when true the new max energy
// must not exceed the old max; when false, total energy must improve.
func CollapseEdge(m *Mesh, env *envelope.Envelope, u, v int, useEnergyMax bool) bool {
	link := m.tetsWithEdge(u, v)
	if len(link) == 0 {
		return false
	}
	around := m.tetsWithVertex(u)
	survivors := make([]int, 0, len(around))
	linkSet := make(map[int]bool, len(link))
	for _, i := range link {
		linkSet[i] = true
	}
	for _, i := range around {
		if !linkSet[i] {
			survivors = append(survivors, i)
		}
	}

	oldIdx := append(append([]int{}, link...), survivors...)
	oldMax, haveOld := MaxEnergy(m, oldIdx)
	var oldTotal float64
	for _, i := range oldIdx {
		oldTotal += m.Energy(i).Value()
	}

	remapped := make([]simpletet.Tet, len(survivors))
	for k, i := range survivors {
		t := m.Tets[i]
		for j, vi := range t.Verts {
			if vi == u {
				t.Verts[j] = v
			}
		}
		remapped[k] = t
		v0, v1, v2, v3 := m.Verts[t.Verts[0]], m.Verts[t.Verts[1]], m.Verts[t.Verts[2]], m.Verts[t.Verts[3]]
		if !positiveVolume(v0, v1, v2, v3) {
			return false // inversion in the link: reject.
		}
	}

	for _, i := range survivors {
		for _, sf := range m.surfaceFacetsOf(i) {
			tri := sf.verts
			pos := [3]r3.Vec{m.Verts[tri[0]], m.Verts[tri[1]], m.Verts[tri[2]]}
			for j, vi := range tri {
				if vi == u {
					pos[j] = m.Verts[v]
				}
			}
			if !env.TriangleInside(d3.Triangle(pos)) {
				return false
			}
		}
	}

	newIdx := make([]int, len(remapped))
	for k, t := range remapped {
		newIdx[k] = m.addTet(t)
	}
	var newMax Energy
	var newTotal float64
	if len(newIdx) > 0 {
		newMax, _ = MaxEnergy(m, newIdx)
		for _, i := range newIdx {
			newTotal += m.Energy(i).Value()
		}
	}

	accept := true
	if useEnergyMax {
		if haveOld && newMax.IsFinite() && oldMax.Less(newMax) {
			accept = false
		}
	} else if newTotal > oldTotal {
		accept = false
	}
	if !accept {
		for _, i := range newIdx {
			m.kill(i)
		}
		return false
	}

	for _, i := range oldIdx {
		m.kill(i)
	}
	return true
}

// SwapFace23 implements the 2-3 face swap: two tets sharing a triangular
// face (u,a,b) with apexes p,q become three tets sharing the new edge
// (p,q), accepted iff volume-positive and strictly improving energy.
func SwapFace23(m *Mesh, ti, tj int) bool {
	t1, t2 := m.Tets[ti], m.Tets[tj]
	shared, p, q, ok := sharedFace(t1, t2)
	if !ok {
		return false
	}
	a, b, c := shared[0], shared[1], shared[2]
	oldIdx := []int{ti, tj}
	oldMax, _ := MaxEnergy(m, oldIdx)

	newTets := [3]simpletet.Tet{
		{Verts: [4]int{p, q, a, b}, FaceTags: [4]int{simpletet.NotSurface, simpletet.NotSurface, simpletet.NotSurface, simpletet.NotSurface}},
		{Verts: [4]int{p, q, b, c}, FaceTags: [4]int{simpletet.NotSurface, simpletet.NotSurface, simpletet.NotSurface, simpletet.NotSurface}},
		{Verts: [4]int{p, q, c, a}, FaceTags: [4]int{simpletet.NotSurface, simpletet.NotSurface, simpletet.NotSurface, simpletet.NotSurface}},
	}
	for _, nt := range newTets {
		v0, v1, v2, v3 := m.Verts[nt.Verts[0]], m.Verts[nt.Verts[1]], m.Verts[nt.Verts[2]], m.Verts[nt.Verts[3]]
		if !positiveVolume(v0, v1, v2, v3) {
			return false
		}
	}

	var newIdx []int
	for _, nt := range newTets {
		newIdx = append(newIdx, m.addTet(nt))
	}
	newMax, _ := MaxEnergy(m, newIdx)
	if !newMax.Less(oldMax) {
		for _, i := range newIdx {
			m.kill(i)
		}
		return false
	}
	m.kill(ti)
	m.kill(tj)
	return true
}

// sharedFace reports the triangle shared by t1 and t2, plus each tet's
// apex vertex not on that triangle.
func sharedFace(t1, t2 simpletet.Tet) (face [3]int, apex1, apex2 int, ok bool) {
	shared := make([]int, 0, 3)
	for _, v := range t1.Verts {
		if hasVertex(t2, v) {
			shared = append(shared, v)
		}
	}
	if len(shared) != 3 {
		return face, 0, 0, false
	}
	copy(face[:], shared)
	for _, v := range t1.Verts {
		if !hasVertex(t2, v) {
			apex1 = v
		}
	}
	for _, v := range t2.Verts {
		if !hasVertex(t1, v) {
			apex2 = v
		}
	}
	return face, apex1, apex2, true
}

// SmoothVertex implements spec.md 4.8's SMOOTH(v): relocates v toward the
// energy-minimizing point found by a short line search from v's current
// position toward its one-ring centroid, reverting if the move would
// invert a tet or (for a surface vertex) leave the envelope.
func SmoothVertex(m *Mesh, env *envelope.Envelope, v int, isSurface, useOneRingProjection bool) bool {
	around := m.tetsWithVertex(v)
	if len(around) == 0 {
		return false
	}
	oldMax, _ := MaxEnergy(m, around)
	oldPos := m.Verts[v]

	centroid := r3.Vec{}
	n := 0
	for _, i := range around {
		t := m.Tets[i]
		for _, vi := range t.Verts {
			if vi != v {
				centroid = r3.Add(centroid, m.Verts[vi])
				n++
			}
		}
	}
	if n == 0 {
		return false
	}
	centroid = r3.Scale(1/float64(n), centroid)

	const steps = 4
	best := oldPos
	bestMax := oldMax
	for s := 1; s <= steps; s++ {
		alpha := float64(s) / float64(steps)
		cand := r3.Add(oldPos, r3.Scale(alpha, r3.Sub(centroid, oldPos)))
		if isSurface && !useOneRingProjection {
			// cand is left as-is: no projection onto the input surface or
			// the one-ring plane is performed for either flag value, and
			// no caller projects it afterwards.
		}
		m.Verts[v] = cand
		valid := true
		for _, i := range around {
			v0, v1, v2, v3 := m.TetVerts(i)
			if !positiveVolume(v0, v1, v2, v3) {
				valid = false
				break
			}
		}
		if valid && isSurface {
			for _, i := range around {
				for _, sf := range m.surfaceFacetsOf(i) {
					tri := d3.Triangle{m.Verts[sf.verts[0]], m.Verts[sf.verts[1]], m.Verts[sf.verts[2]]}
					if !env.TriangleInside(tri) {
						valid = false
						break
					}
				}
				if !valid {
					break
				}
			}
		}
		if !valid {
			continue
		}
		cmax, _ := MaxEnergy(m, around)
		if cmax.Less(bestMax) {
			bestMax = cmax
			best = cand
		}
	}
	m.Verts[v] = best
	return best != oldPos
}
