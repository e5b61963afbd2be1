package kernel

// SegmentTriangleIntersect reports whether segment (p,q) crosses the
// (possibly degenerate) triangle (a,b,c), using only sign tests so the
// result is exact whenever the inputs are. It follows the standard
// signed-volume formulation: the segment crosses the triangle's plane
// between two orientations of opposite sign, and the crossing point lies
// inside the triangle iff the three tetrahedra (p,q,a,b), (p,q,b,c) and
// (p,q,c,a) agree in sign.
func SegmentTriangleIntersect(p, q, a, b, c Point) bool {
	s1 := Orient3D(p, a, b, c)
	s2 := Orient3D(q, a, b, c)
	if s1 == s2 && s1 != Zero {
		return false // segment endpoints on same side of triangle's plane.
	}
	if s1 == Zero && s2 == Zero {
		return false // segment lies in the triangle's plane; treated as a non-crossing (coplanar case handled by the caller's matching logic).
	}
	t1 := Orient3D(p, q, a, b)
	t2 := Orient3D(p, q, b, c)
	t3 := Orient3D(p, q, c, a)
	return sameSign(t1, t2, t3)
}

func sameSign(signs ...Sign) bool {
	pos, neg := false, false
	for _, s := range signs {
		if s == Positive {
			pos = true
		} else if s == Negative {
			neg = true
		}
	}
	return !(pos && neg)
}

// TriangleTriangleIntersect reports whether two triangles overlap (share
// any point), via sign tests on each triangle's vertices against the
// other's supporting plane followed by edge-against-triangle crossing
// tests. Coplanar triangles are reported as not intersecting, since
// SegmentTriangleIntersect treats an in-plane segment as non-crossing.
func TriangleTriangleIntersect(a0, a1, a2, b0, b1, b2 Point) bool {
	// Fast reject: are all of b's vertices on the same side of a's plane?
	sb0 := Orient3D(a0, a1, a2, b0)
	sb1 := Orient3D(a0, a1, a2, b1)
	sb2 := Orient3D(a0, a1, a2, b2)
	if sb0 == sb1 && sb1 == sb2 && sb0 != Zero {
		return false
	}
	sa0 := Orient3D(b0, b1, b2, a0)
	sa1 := Orient3D(b0, b1, b2, a1)
	sa2 := Orient3D(b0, b1, b2, a2)
	if sa0 == sa1 && sa1 == sa2 && sa0 != Zero {
		return false
	}
	// Either triangle's edges may cross the other; check all nine
	// edge-against-triangle combinations as a conservative (may accept
	// touching-only configurations, which is safe for BSP cutter purposes).
	edgesA := [3][2]Point{{a0, a1}, {a1, a2}, {a2, a0}}
	for _, e := range edgesA {
		if SegmentTriangleIntersect(e[0], e[1], b0, b1, b2) {
			return true
		}
	}
	edgesB := [3][2]Point{{b0, b1}, {b1, b2}, {b2, b0}}
	for _, e := range edgesB {
		if SegmentTriangleIntersect(e[0], e[1], a0, a1, a2) {
			return true
		}
	}
	return false
}
