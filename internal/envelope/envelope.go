// Package envelope implements the envelope predicate of spec.md section
// 4.2: given the input triangles and a tolerance eps, decide whether a
// query point or triangle lies within distance eps of the input surface.
// It is backed by an AABB tree (dhconnelly/rtreego) over the input
// triangles, built once after preprocessing (spec.md section 4.2,
// "Acceleration").
package envelope

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/dhconnelly/rtreego"
	"github.com/solidgeom/tetwild/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	rtreeMinChildren = 4
	rtreeMaxChildren = 16
)

// Envelope answers inside/outside queries against a fixed input surface
// at a mutable tolerance eps. Eps is mutated only by SetEps, which the
// refinement engine uses to ramp eps across sub-stages (spec.md 4.8); the
// predicate is monotone in eps (spec.md 4.2), so raising eps can only move
// points from outside to inside, never the reverse.
type Envelope struct {
	tree  *rtreego.Rtree
	tris  []d3.Triangle
	eps   float64
	eps2  float64
	dK    float64 // sampling density d_k = eps/sqrt(2), spec.md 4.2 default.
}

// New builds the AABB tree over tris and returns an Envelope at the given
// tolerance.
func New(tris []d3.Triangle, eps float64) *Envelope {
	tree := rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren)
	items := make([]d3.Triangle, len(tris))
	copy(items, tris)
	e := &Envelope{tris: items}
	for i := range items {
		tree.Insert(&triItem{idx: i, tri: items[i]})
	}
	e.tree = tree
	e.SetEps(eps)
	return e
}

// SetEps updates the envelope tolerance, e.g. during the refinement
// engine's sub-stage ramping (spec.md 4.8).
func (e *Envelope) SetEps(eps float64) {
	e.eps = eps
	e.eps2 = eps * eps
	e.dK = eps / math.Sqrt2
}

// Eps returns the current tolerance.
func (e *Envelope) Eps() float64 { return e.eps }

// SetSamplingDist overrides the triangle-sampling density TriangleInside
// uses, in place of the eps/sqrt(2) default (spec.md 4.2's
// sampling_dist_rel config knob). A later SetEps call resets the density
// to the new eps/sqrt(2).
func (e *Envelope) SetSamplingDist(d float64) {
	e.dK = d
}

// Inside reports whether p lies within distance eps of the input surface.
func (e *Envelope) Inside(p r3.Vec) bool {
	return e.SqDist(p) <= e.eps2
}

// SqDist returns the squared distance from p to the nearest point on the
// input surface, using the AABB tree to prune candidate triangles. When
// some triangle's box lies within eps of p, only those triangles are
// measured, so the value is exact whenever it is at most eps^2 and may
// exceed the true distance otherwise.
func (e *Envelope) SqDist(p r3.Vec) float64 {
	query, err := rtreego.NewRect(
		rtreego.Point{p.X - e.eps, p.Y - e.eps, p.Z - e.eps},
		[]float64{2 * e.eps, 2 * e.eps, 2 * e.eps},
	)
	if err != nil {
		// eps is validated positive by Config.Validate before any Envelope
		// is constructed, so NewRect with a positive side length cannot fail.
		panic(err)
	}
	candidates := e.tree.SearchIntersect(query)
	if len(candidates) == 0 {
		return e.bruteForceSqDist(p)
	}
	best := math.Inf(1)
	// math32 fast pre-filter: cheap float32 centroid distance ranks
	// candidates so the exact float64 triangle distance (expensive) is
	// computed in likely-nearest-first order. radius is the triangle's
	// farthest-vertex-from-centroid distance, so key-radius is a valid
	// lower bound on the true point-to-triangle distance (every point of
	// the triangle lies within radius of the centroid); once that lower
	// bound clears the running best, the exact computation is skipped.
	type cand struct {
		tri    d3.Triangle
		key    float32
		radius float32
	}
	ranked := make([]cand, 0, len(candidates))
	px, py, pz := float32(p.X), float32(p.Y), float32(p.Z)
	for _, c := range candidates {
		tri := c.(*triItem).tri
		ctr := tri.Centroid()
		dx := float32(ctr.X) - px
		dy := float32(ctr.Y) - py
		dz := float32(ctr.Z) - pz
		key := math32.Sqrt(dx*dx + dy*dy + dz*dz)
		var radius float32
		for _, v := range tri {
			vx := float32(v.X) - float32(ctr.X)
			vy := float32(v.Y) - float32(ctr.Y)
			vz := float32(v.Z) - float32(ctr.Z)
			r := math32.Sqrt(vx*vx + vy*vy + vz*vz)
			if r > radius {
				radius = r
			}
		}
		ranked = append(ranked, cand{tri: tri, key: key, radius: radius})
	}
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].key < ranked[j-1].key; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	for _, c := range ranked {
		lower := float64(c.key - c.radius)
		if lower > 0 && lower*lower >= best {
			continue
		}
		d2 := c.tri.SqDistToPoint(p)
		if d2 < best {
			best = d2
		}
	}
	return best
}

func (e *Envelope) bruteForceSqDist(p r3.Vec) float64 {
	best := math.Inf(1)
	for _, tri := range e.tris {
		d2 := tri.SqDistToPoint(p)
		if d2 < best {
			best = d2
		}
	}
	return best
}

// TriangleInside samples t at density d_k = eps/sqrt(2) (spec.md 4.2
// default) with stratified sampling on edges plus interior, and returns
// true iff every sample is inside the envelope.
func (e *Envelope) TriangleInside(t d3.Triangle) bool {
	for _, s := range t.Sample(e.dK) {
		if !e.Inside(s) {
			return false
		}
	}
	return true
}
