// Package delaunay computes the 3D Delaunay tetrahedralization of the
// simplified vertex set, optionally augmented by voxel-stuffed interior
// samples (spec.md section 4.4).
package delaunay

import (
	"math"

	"github.com/solidgeom/tetwild/internal/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tet is a tetrahedron expressed as four indices into a vertex slice.
type Tet [4]int

// Tetrahedralize computes the Delaunay tetrahedralization of points via
// incremental Bowyer-Watson insertion: a bounding super-tetrahedron is
// created, points are inserted one at a time (each insertion removes every
// tet whose circumsphere contains the new point and re-triangulates the
// resulting cavity from its boundary faces), and tets touching the
// super-tetrahedron's vertices are discarded at the end.
func Tetrahedralize(points []r3.Vec) (verts []r3.Vec, tets []Tet) {
	if len(points) < 4 {
		return points, nil
	}
	_, superVerts := superTet(points)
	verts = append(append([]r3.Vec{}, points...), superVerts[:]...)
	pts := make([]kernel.Point, len(verts))
	for i, v := range verts {
		pts[i] = kernel.NewPointFloat(v)
	}
	superBase := len(points)

	current := []Tet{fixOrientation(pts, Tet{superBase, superBase + 1, superBase + 2, superBase + 3})}

	for i := 0; i < len(points); i++ {
		current = insertPoint(pts, current, i)
	}

	tets = tets[:0]
	for _, t := range current {
		if usesSuper(t, superBase) {
			continue
		}
		tets = append(tets, t)
	}
	return verts[:len(points)], remapAwaySuper(tets)
}

func usesSuper(t Tet, superBase int) bool {
	for _, idx := range t {
		if idx >= superBase {
			return true
		}
	}
	return false
}

// remapAwaySuper is a no-op once super-tet tets are filtered out; kept as
// a named step so the vertex index space documented by the caller (the
// first len(points) entries of verts) matches the indices in tets.
func remapAwaySuper(tets []Tet) []Tet { return tets }

type face [3]int

func sortedFace(a, b, c int) face {
	f := face{a, b, c}
	// insertion sort three elements.
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	if f[1] > f[2] {
		f[1], f[2] = f[2], f[1]
	}
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	return f
}

func tetFaces(t Tet) [4][3]int {
	return [4][3]int{
		{t[0], t[1], t[2]},
		{t[0], t[1], t[3]},
		{t[0], t[2], t[3]},
		{t[1], t[2], t[3]},
	}
}

// insertPoint performs one Bowyer-Watson insertion of points[pIdx] into
// the current tetrahedralization.
func insertPoint(pts []kernel.Point, current []Tet, pIdx int) []Tet {
	bad := make([]bool, len(current))
	anyBad := false
	for i, t := range current {
		if kernel.InSphere(pts[t[0]], pts[t[1]], pts[t[2]], pts[t[3]], pts[pIdx]) == kernel.Positive {
			bad[i] = true
			anyBad = true
		}
	}
	if !anyBad {
		return current // point coincides with, or lies outside, every circumsphere (degenerate input); skip it.
	}

	faceCount := make(map[face]int, len(current)*2)
	faceOwner := make(map[face][3]int, len(current)*2)
	for i, t := range current {
		if !bad[i] {
			continue
		}
		for _, f := range tetFaces(t) {
			key := sortedFace(f[0], f[1], f[2])
			faceCount[key]++
			faceOwner[key] = f
		}
	}

	next := make([]Tet, 0, len(current))
	for i, t := range current {
		if !bad[i] {
			next = append(next, t)
		}
	}
	for key, count := range faceCount {
		if count != 1 {
			continue // interior cavity face shared by two bad tets; not on the cavity boundary.
		}
		f := faceOwner[key]
		nt := fixOrientation(pts, Tet{f[0], f[1], f[2], pIdx})
		next = append(next, nt)
	}
	return next
}

// fixOrientation reorders a tet's vertices so Orient3D is positive
// (invariant I1), matching spec.md 4.6's tie-break convention of treating
// zero-volume tets as a degenerate case the caller must not retain.
func fixOrientation(pts []kernel.Point, t Tet) Tet {
	if kernel.Orient3D(pts[t[0]], pts[t[1]], pts[t[2]], pts[t[3]]) == kernel.Negative {
		t[2], t[3] = t[3], t[2]
	}
	return t
}

// superTet builds a tetrahedron that strictly contains the bounding box
// of points, with enough margin that every circumsphere test against a
// real input point remains well conditioned.
func superTet(points []r3.Vec) (Tet, [4]r3.Vec) {
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	center := r3.Scale(0.5, r3.Add(min, max))
	diag := r3.Norm(r3.Sub(max, min))
	if diag == 0 {
		diag = 1
	}
	r := diag * 10
	// A regular tetrahedron scaled to radius r around center, large enough
	// to strictly enclose every input point.
	verts := [4]r3.Vec{
		r3.Add(center, r3.Vec{X: r, Y: r, Z: r}),
		r3.Add(center, r3.Vec{X: r, Y: -r, Z: -r}),
		r3.Add(center, r3.Vec{X: -r, Y: r, Z: -r}),
		r3.Add(center, r3.Vec{X: -r, Y: -r, Z: r}),
	}
	return Tet{0, 1, 2, 3}, verts
}
