package d3

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a 3D triangle stored as its three vertices.
type Triangle [3]r3.Vec

// Normal returns the (non-unit) normal of the triangle, oriented
// by the right hand rule over V[0],V[1],V[2].
func (t Triangle) Normal() r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}

// UnitNormal returns the unit length normal of the triangle. It
// returns the zero vector for a degenerate (zero-area) triangle.
func (t Triangle) UnitNormal() r3.Vec {
	n := t.Normal()
	norm := r3.Norm(n)
	if norm == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/norm, n)
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return 0.5 * r3.Norm(t.Normal())
}

// Centroid returns the arithmetic mean of the triangle's vertices.
func (t Triangle) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(t[0], r3.Add(t[1], t[2])))
}

// Bounds returns the bounding box of the triangle.
func (t Triangle) Bounds() Box {
	min := MinElem(t[0], MinElem(t[1], t[2]))
	max := MaxElem(t[0], MaxElem(t[1], t[2]))
	return Box{Min: min, Max: max}
}

// IsDegenerate reports whether the triangle has near-zero area, i.e.
// its vertices are collinear or coincident within tol.
func (t Triangle) IsDegenerate(tol float64) bool {
	return t.Area() <= tol
}

// Barycentric returns the barycentric coordinates (u,v,w) of p with
// respect to the triangle, computed via the projection onto the
// triangle's plane. u,v,w sum to 1; all three lie in [0,1] iff p's
// projection lies inside the triangle.
func (t Triangle) Barycentric(p r3.Vec) (u, v, w float64) {
	v0 := r3.Sub(t[1], t[0])
	v1 := r3.Sub(t[2], t[0])
	v2 := r3.Sub(p, t[0])
	d00 := r3.Dot(v0, v0)
	d01 := r3.Dot(v0, v1)
	d11 := r3.Dot(v1, v1)
	d20 := r3.Dot(v2, v0)
	d21 := r3.Dot(v2, v1)
	denom := d00*d11 - d01*d01
	if denom == 0 {
		return 1, 0, 0
	}
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w
}

// ClosestPoint returns the point on the (filled) triangle closest to p,
// following the standard vertex/edge/face-region case analysis.
func (t Triangle) ClosestPoint(p r3.Vec) r3.Vec {
	a, b, c := t[0], t[1], t[2]
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	ap := r3.Sub(p, a)
	d1 := r3.Dot(ab, ap)
	d2 := r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a // barycentric (1,0,0)
	}
	bp := r3.Sub(p, b)
	d3 := r3.Dot(ab, bp)
	d4 := r3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b // barycentric (0,1,0)
	}
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return r3.Add(a, r3.Scale(v, ab))
	}
	cp := r3.Sub(p, c)
	d5 := r3.Dot(ab, cp)
	d6 := r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c // barycentric (0,0,1)
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return r3.Add(a, r3.Scale(w, ac))
	}
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
	}
	// p projects inside the face region.
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
}

// SqDistToPoint returns the squared Euclidean distance from p to the
// closest point on the filled triangle.
func (t Triangle) SqDistToPoint(p r3.Vec) float64 {
	return r3.Norm2(r3.Sub(p, t.ClosestPoint(p)))
}

// Sample returns sample points on the triangle: the three vertices,
// points along each edge spaced at most density apart, plus
// area/density^2 uniformly random interior points (math/rand). With a
// non-positive density it returns the vertices and the centroid. It is used by the envelope predicate to
// approximate "every point of the triangle" with a finite point set.
func (t Triangle) Sample(density float64) []r3.Vec {
	if density <= 0 {
		return []r3.Vec{t[0], t[1], t[2], t.Centroid()}
	}
	pts := make([]r3.Vec, 0, 32)
	pts = append(pts, t[0], t[1], t[2])
	for i := 0; i < 3; i++ {
		a, b := t[i], t[(i+1)%3]
		n := int(math.Ceil(r3.Norm(r3.Sub(b, a)) / density))
		for k := 1; k < n; k++ {
			f := float64(k) / float64(n)
			pts = append(pts, r3.Add(a, r3.Scale(f, r3.Sub(b, a))))
		}
	}
	area := t.Area()
	nInterior := int(area / (density * density))
	for i := 0; i < nInterior; i++ {
		u := rand.Float64()
		v := rand.Float64()
		if u+v > 1 {
			u, v = 1-u, 1-v
		}
		p := r3.Add(t[0], r3.Add(r3.Scale(u, r3.Sub(t[1], t[0])), r3.Scale(v, r3.Sub(t[2], t[0]))))
		pts = append(pts, p)
	}
	return pts
}
