package kernel

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func pt(x, y, z float64) Point {
	return NewPointFloat(r3.Vec{X: x, Y: y, Z: z})
}

func TestOrient3DSign(t *testing.T) {
	a := pt(0, 0, 0)
	b := pt(1, 0, 0)
	c := pt(0, 1, 0)
	above := pt(0, 0, 1)
	below := pt(0, 0, -1)
	coplanar := pt(1, 1, 0)

	if got := Orient3D(a, b, c, above); got != Positive {
		t.Errorf("above: got %v, want Positive", got)
	}
	if got := Orient3D(a, b, c, below); got != Negative {
		t.Errorf("below: got %v, want Negative", got)
	}
	if got := Orient3D(a, b, c, coplanar); got != Zero {
		t.Errorf("coplanar: got %v, want Zero", got)
	}
}

func TestInSphereUnitTet(t *testing.T) {
	a := pt(0, 0, 0)
	b := pt(1, 0, 0)
	c := pt(0, 1, 0)
	d := pt(0, 0, 1)
	// Orient3D(a,b,c,d) must be positive for InSphere's sign convention.
	if Orient3D(a, b, c, d) != Positive {
		t.Fatal("test tetrahedron is not positively oriented")
	}
	center := pt(0.25, 0.25, 0.25)
	far := pt(100, 100, 100)
	if got := InSphere(a, b, c, d, center); got != Positive {
		t.Errorf("center: got %v, want Positive (inside)", got)
	}
	if got := InSphere(a, b, c, d, far); got != Negative {
		t.Errorf("far point: got %v, want Negative (outside)", got)
	}
}

func TestEqualAndTryRound(t *testing.T) {
	p := pt(1, 2, 3)
	q := pt(1, 2, 3)
	if !Equal(p, q) {
		t.Error("identical float points should be exactly equal")
	}
	r, ok := p.TryRound()
	if !ok || !r.IsRounded {
		t.Error("a float-constructed point should always round-trip")
	}
}

func TestSegmentTriangleIntersect(t *testing.T) {
	a := pt(0, 0, 0)
	b := pt(2, 0, 0)
	c := pt(0, 2, 0)
	p := pt(0.5, 0.5, 1)
	q := pt(0.5, 0.5, -1)
	if !SegmentTriangleIntersect(p, q, a, b, c) {
		t.Error("segment through triangle interior should intersect")
	}
	p2 := pt(5, 5, 1)
	q2 := pt(5, 5, -1)
	if SegmentTriangleIntersect(p2, q2, a, b, c) {
		t.Error("segment outside triangle footprint should not intersect")
	}
}
