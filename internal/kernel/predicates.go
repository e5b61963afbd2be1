package kernel

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sign is the outcome of an exact predicate.
type Sign int

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

func signOf(f float64) Sign {
	switch {
	case f > 0:
		return Positive
	case f < 0:
		return Negative
	default:
		return Zero
	}
}

// The float fast paths below follow the same triage-then-fall-back-to-exact
// structure as robust orientation predicates elsewhere in the ecosystem
// (adaptive floating point filter, exact arithmetic only when the fast
// result is within its own error bound of zero). detErrorBound is a
// conservative relative error bound for a determinant computed from
// double-precision differences of double-precision coordinates.
const detErrorBound = 1e-11

// Orient3D returns the sign of the determinant
//
//	| b-a |
//	| c-a |
//	| d-a |
//
// Positive means d is "above" the plane through a,b,c when ab,ac follow the
// right-hand rule; zero means the four points are coplanar.
func Orient3D(a, b, c, d Point) Sign {
	if a.IsRounded && b.IsRounded && c.IsRounded && d.IsRounded {
		if s, ok := orient3DFloatFiltered(a.Rounded, b.Rounded, c.Rounded, d.Rounded); ok {
			return s
		}
	}
	return orient3DExact(a, b, c, d)
}

func orient3DFloatFiltered(a, b, c, d r3.Vec) (Sign, bool) {
	ax, ay, az := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	bx, by, bz := c.X-a.X, c.Y-a.Y, c.Z-a.Z
	cx, cy, cz := d.X-a.X, d.Y-a.Y, d.Z-a.Z
	det := ax*(by*cz-bz*cy) - ay*(bx*cz-bz*cx) + az*(bx*cy-by*cx)
	mag := math.Abs(ax*by*cz) + math.Abs(ax*bz*cy) + math.Abs(ay*bx*cz) +
		math.Abs(ay*bz*cx) + math.Abs(az*bx*cy) + math.Abs(az*by*cx)
	if math.Abs(det) > detErrorBound*mag {
		return signOf(det), true
	}
	return Zero, false
}

func orient3DExact(a, b, c, d Point) Sign {
	ax, ay, az := ratSub3(b, a)
	bx, by, bz := ratSub3(c, a)
	cx, cy, cz := ratSub3(d, a)

	var t1, t2, t3, det big.Rat
	t1.Mul(&ax, sub2(mul2(by, cz), mul2(bz, cy)))
	t2.Mul(&ay, sub2(mul2(bx, cz), mul2(bz, cx)))
	t3.Mul(&az, sub2(mul2(bx, cy), mul2(by, cx)))
	det.Sub(&t1, &t2)
	det.Add(&det, &t3)
	return Sign(det.Sign())
}

// InSphere returns the sign of the determinant that decides whether p lies
// inside (Positive), on (Zero), or outside (Negative) the oriented sphere
// through a,b,c,d (a,b,c,d assumed positively oriented per Orient3D).
func InSphere(a, b, c, d, p Point) Sign {
	if a.IsRounded && b.IsRounded && c.IsRounded && d.IsRounded && p.IsRounded {
		if s, ok := inSphereFloatFiltered(a.Rounded, b.Rounded, c.Rounded, d.Rounded, p.Rounded); ok {
			return s
		}
	}
	return inSphereExact(a, b, c, d, p)
}

func inSphereFloatFiltered(a, b, c, d, p r3.Vec) (Sign, bool) {
	rows := [4]r3.Vec{
		{X: a.X - p.X, Y: a.Y - p.Y, Z: a.Z - p.Z},
		{X: b.X - p.X, Y: b.Y - p.Y, Z: b.Z - p.Z},
		{X: c.X - p.X, Y: c.Y - p.Y, Z: c.Z - p.Z},
		{X: d.X - p.X, Y: d.Y - p.Y, Z: d.Z - p.Z},
	}
	var lift [4]float64
	var mag float64
	for i, r := range rows {
		lift[i] = r.X*r.X + r.Y*r.Y + r.Z*r.Z
		mag += math.Abs(lift[i])
	}
	det := det4x4(
		rows[0].X, rows[0].Y, rows[0].Z, lift[0],
		rows[1].X, rows[1].Y, rows[1].Z, lift[1],
		rows[2].X, rows[2].Y, rows[2].Z, lift[2],
		rows[3].X, rows[3].Y, rows[3].Z, lift[3],
	)
	if math.Abs(det) > detErrorBound*mag*mag {
		return signOf(-det), true
	}
	return Zero, false
}

func det4x4(m ...float64) float64 {
	a, b, c, d := m[0], m[1], m[2], m[3]
	e, f, g, h := m[4], m[5], m[6], m[7]
	i, j, k, l := m[8], m[9], m[10], m[11]
	n, o, p, q := m[12], m[13], m[14], m[15]

	det3 := func(a1, a2, a3, b1, b2, b3, c1, c2, c3 float64) float64 {
		return a1*(b2*c3-b3*c2) - a2*(b1*c3-b3*c1) + a3*(b1*c2-b2*c1)
	}
	return a*det3(f, g, h, j, k, l, o, p, q) -
		b*det3(e, g, h, i, k, l, n, p, q) +
		c*det3(e, f, h, i, j, l, n, o, q) -
		d*det3(e, f, g, i, j, k, n, o, p)
}

func inSphereExact(a, b, c, d, p Point) Sign {
	rows := make([][4]big.Rat, 4)
	pts := [4]Point{a, b, c, d}
	for i, pt := range pts {
		var dx, dy, dz big.Rat
		dx.Sub(&pt.Exact[0], &p.Exact[0])
		dy.Sub(&pt.Exact[1], &p.Exact[1])
		dz.Sub(&pt.Exact[2], &p.Exact[2])
		var lift big.Rat
		mdxdx, mdydy, mdzdz := mul2(dx, dx), mul2(dy, dy), mul2(dz, dz)
		lift.Add(&mdxdx, &mdydy)
		lift.Add(&lift, &mdzdz)
		rows[i] = [4]big.Rat{dx, dy, dz, lift}
	}
	det := ratDet4x4(rows)
	return Sign(-det.Sign())
}

func ratDet4x4(m [][4]big.Rat) *big.Rat {
	// Laplace expansion along the first column, reusing the exact 3x3
	// orientation-style cofactor evaluation.
	minor := func(skipRow int) *big.Rat {
		var rows [3][3]big.Rat
		r := 0
		for i := 0; i < 4; i++ {
			if i == skipRow {
				continue
			}
			rows[r] = [3]big.Rat{m[i][1], m[i][2], m[i][3]}
			r++
		}
		return ratDet3x3(rows)
	}
	var det big.Rat
	sign := int64(1)
	for i := 0; i < 4; i++ {
		term := new(big.Rat).Mul(&m[i][0], minor(i))
		if sign < 0 {
			term.Neg(term)
		}
		det.Add(&det, term)
		sign = -sign
	}
	return &det
}

func ratDet3x3(m [3][3]big.Rat) *big.Rat {
	t1 := new(big.Rat).Mul(&m[0][0], sub2(mul2(m[1][1], m[2][2]), mul2(m[1][2], m[2][1])))
	t2 := new(big.Rat).Mul(&m[0][1], sub2(mul2(m[1][0], m[2][2]), mul2(m[1][2], m[2][0])))
	t3 := new(big.Rat).Mul(&m[0][2], sub2(mul2(m[1][0], m[2][1]), mul2(m[1][1], m[2][0])))
	det := new(big.Rat).Sub(t1, t2)
	det.Add(det, t3)
	return det
}

func ratSub3(a, b Point) (big.Rat, big.Rat, big.Rat) {
	var x, y, z big.Rat
	x.Sub(&a.Exact[0], &b.Exact[0])
	y.Sub(&a.Exact[1], &b.Exact[1])
	z.Sub(&a.Exact[2], &b.Exact[2])
	return x, y, z
}

func mul2(a, b big.Rat) big.Rat {
	var r big.Rat
	r.Mul(&a, &b)
	return r
}

func sub2(a, b big.Rat) *big.Rat {
	var r big.Rat
	r.Sub(&a, &b)
	return &r
}
