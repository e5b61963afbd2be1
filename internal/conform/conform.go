// Package conform implements the mesh conformer of spec.md section 4.5:
// for each input triangle it finds which Delaunay cell facets it matches,
// and records the rest as cutting constraints for BSP subdivision.
package conform

import (
	"math"

	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/delaunay"
	"gonum.org/v1/gonum/spatial/r3"
)

// Face is a cell facet expressed as three sorted vertex indices, used as a
// map key so the same facet shared by two tets is only matched once.
type Face [3]int

func sortedFace(a, b, c int) Face {
	f := Face{a, b, c}
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

// Cutter is an input triangle that was not (fully) matched to existing
// cell facets and therefore must be used to subdivide the BSP cells it
// passes through.
type Cutter struct {
	TriIdx int
	Tri    d3.Triangle
}

// Result is the conformer's output: which cell facets are tagged with
// which input triangle, and which input triangles still need cuts.
type Result struct {
	Matched map[Face]int // cell facet -> input triangle index
	Cutters []Cutter
}

const planarTol = 1e-9

// Conform matches Delaunay cell facets against the simplified soup's
// triangles.
func Conform(verts []r3.Vec, tets []delaunay.Tet, soupV []r3.Vec, soupT [][3]int) Result {
	faces := collectFaces(tets)
	res := Result{Matched: make(map[Face]int, len(soupT))}
	for ti, t := range soupT {
		T := d3.Triangle{soupV[t[0]], soupV[t[1]], soupV[t[2]]}
		n := T.UnitNormal()
		if r3.Norm(n) == 0 {
			continue // degenerate input triangle; preprocess should have removed these (spec.md 4.3c).
		}
		matchedAny := false
		for f := range faces {
			fv := d3.Triangle{verts[f[0]], verts[f[1]], verts[f[2]]}
			if !coplanar(T, fv, n, planarTol) {
				continue
			}
			if !covers(T, fv) {
				continue
			}
			res.Matched[f] = ti
			matchedAny = true
		}
		if !matchedAny {
			res.Cutters = append(res.Cutters, Cutter{TriIdx: ti, Tri: T})
		}
	}
	return res
}

func collectFaces(tets []delaunay.Tet) map[Face]struct{} {
	out := make(map[Face]struct{}, len(tets)*2)
	for _, t := range tets {
		combos := [4][3]int{
			{t[0], t[1], t[2]}, {t[0], t[1], t[3]}, {t[0], t[2], t[3]}, {t[1], t[2], t[3]},
		}
		for _, c := range combos {
			out[sortedFace(c[0], c[1], c[2])] = struct{}{}
		}
	}
	return out
}

// coplanar reports whether facet fv's plane coincides with T's plane.
func coplanar(T, fv d3.Triangle, nT r3.Vec, tol float64) bool {
	for _, v := range fv {
		d := r3.Dot(nT, r3.Sub(v, T[0]))
		if math.Abs(d) > tol*r3.Norm(nT) {
			return false
		}
	}
	return true
}

// covers reports whether facet fv's projection onto T's plane is fully
// contained in T, via barycentric coordinate tests on each of fv's
// vertices (spec.md 4.5, "matched").
func covers(T, fv d3.Triangle) bool {
	const eps = 1e-9
	for _, v := range fv {
		u, vv, w := T.Barycentric(v)
		if u < -eps || vv < -eps || w < -eps {
			return false
		}
	}
	return true
}
