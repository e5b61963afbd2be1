package envelope

import (
	"github.com/dhconnelly/rtreego"
	"github.com/solidgeom/tetwild/internal/d3"
)

// triItem adapts a triangle to rtreego.Spatial so the AABB tree (spec.md
// section 4.2's "spatial index (AABB tree)") can index the input surface.
type triItem struct {
	idx int
	tri d3.Triangle
}

const boundsTol = 1e-12

func (t *triItem) Bounds() *rtreego.Rect {
	bb := t.tri.Bounds()
	size := bb.Size()
	lengths := []float64{
		maxf(size.X, boundsTol),
		maxf(size.Y, boundsTol),
		maxf(size.Z, boundsTol),
	}
	rect, err := rtreego.NewRect(rtreego.Point{bb.Min.X, bb.Min.Y, bb.Min.Z}, lengths)
	if err != nil {
		// Degenerate (zero-size in all three axes) boxes are inflated by
		// boundsTol above, so NewRect should never reject a real triangle;
		// this only guards against an upstream bounds-construction bug.
		panic(err)
	}
	return rect
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
