// Package kernel implements the exact geometric predicates and the
// lazy-rational point representation that the rest of the pipeline builds
// on: orientation and in-sphere tests, segment/triangle intersection, and
// point-to-triangle distance, all exact on rational input.
package kernel

import (
	"math/big"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a 3D coordinate stored both as an exact rational and as a
// rounded double. IsRounded is true exactly when Rounded represents the
// same value as Exact; every predicate that touches an unrounded Point
// must consult Exact, never Rounded, to stay exact.
type Point struct {
	Exact     [3]big.Rat
	Rounded   r3.Vec
	IsRounded bool
}

// NewPointFloat builds a Point from a double, exact by construction: the
// rational is set to the double's precise binary value, so IsRounded is
// trivially true.
func NewPointFloat(v r3.Vec) Point {
	var p Point
	p.Exact[0].SetFloat64(v.X)
	p.Exact[1].SetFloat64(v.Y)
	p.Exact[2].SetFloat64(v.Z)
	p.Rounded = v
	p.IsRounded = true
	return p
}

// NewPointRat builds a Point from exact rational coordinates. Rounded is
// populated with the nearest double and IsRounded is set only if that
// double round-trips back to the same rational value.
func NewPointRat(x, y, z big.Rat) Point {
	p := Point{Exact: [3]big.Rat{x, y, z}}
	p.Rounded = r3.Vec{X: ratToFloat(&x), Y: ratToFloat(&y), Z: ratToFloat(&z)}
	p.IsRounded = p.exactEqualsRounded()
	return p
}

func ratToFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

func (p Point) exactEqualsRounded() bool {
	var check big.Rat
	check.SetFloat64(p.Rounded.X)
	if check.Cmp(&p.Exact[0]) != 0 {
		return false
	}
	check.SetFloat64(p.Rounded.Y)
	if check.Cmp(&p.Exact[1]) != 0 {
		return false
	}
	check.SetFloat64(p.Rounded.Z)
	return check.Cmp(&p.Exact[2]) == 0
}

// TryRound attempts to replace p's exact rational with its rounded
// double, returning the possibly-updated point and whether rounding
// succeeded. Rounding only ever succeeds when the double already equals
// the rational exactly (Point never silently perturbs geometry); callers
// that need lossy rounding under a sign-preservation guarantee (spec
// section 4.1) must verify predicate signs before calling this.
func (p Point) TryRound() (Point, bool) {
	if p.exactEqualsRounded() {
		p.IsRounded = true
		return p, true
	}
	return p, false
}

// Sub returns the exact vector difference a-b as a triple of rationals.
func Sub(a, b Point) [3]big.Rat {
	var d [3]big.Rat
	d[0].Sub(&a.Exact[0], &b.Exact[0])
	d[1].Sub(&a.Exact[1], &b.Exact[1])
	d[2].Sub(&a.Exact[2], &b.Exact[2])
	return d
}

// Equal reports whether a and b represent the exact same rational
// position (invariant I4/P3: distinct tet vertices never share one).
func Equal(a, b Point) bool {
	return a.Exact[0].Cmp(&b.Exact[0]) == 0 &&
		a.Exact[1].Cmp(&b.Exact[1]) == 0 &&
		a.Exact[2].Cmp(&b.Exact[2]) == 0
}
