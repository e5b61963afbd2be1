// Package winding implements the inside/outside filter of spec.md
// section 4.9: it computes the generalized winding number of the input
// triangle soup at each tet's barycenter and discards tets that are not
// inside. Exact evaluation sums a closed-form solid angle over every
// input triangle; that is only affordable when accelerated, so triangles
// are organized into a kd-tree (gonum.org/v1/gonum/spatial/kdtree, the
// same package and Comparable/Interface pattern render/kdrender.go uses
// to index triangles for nearest-triangle queries) and far subtrees are
// approximated by their aggregate area-weighted normal, in the style of
// the fast winding number method.
package winding

import (
	"math"

	"github.com/solidgeom/tetwild/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

type kdTriangle d3.Triangle

func (a kdTriangle) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdTriangle), int(d))
}

func (a kdTriangle) Dims() int { return 3 }

func (a kdTriangle) Distance(b kdtree.Comparable) float64 {
	ac, bc := kdCentroid(a), kdCentroid(b.(kdTriangle))
	return r3.Norm2(r3.Sub(ac, bc))
}

func (a kdTriangle) Bounds() *kdtree.Bounding {
	tri := d3.Triangle(a)
	b := tri.Bounds()
	return &kdtree.Bounding{
		Min: kdTriangle{b.Min, b.Min, b.Min},
		Max: kdTriangle{b.Max, b.Max, b.Max},
	}
}

func kdComp(a, b kdTriangle, dim int) float64 {
	ac, bc := kdCentroid(a), kdCentroid(b)
	switch dim {
	case 0:
		return ac.X - bc.X
	case 1:
		return ac.Y - bc.Y
	default:
		return ac.Z - bc.Z
	}
}

func kdCentroid(a kdTriangle) r3.Vec { return d3.Triangle(a).Centroid() }

type kdTriangles []kdTriangle

func (k kdTriangles) Index(i int) kdtree.Comparable { return k[i] }
func (k kdTriangles) Len() int                      { return len(k) }
func (k kdTriangles) Slice(start, end int) kdtree.Interface { return k[start:end] }

func (k kdTriangles) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), tris: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdTriangles) Bounds() *kdtree.Bounding {
	if len(k) == 0 {
		return nil
	}
	min := r3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	max := r3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for _, t := range k {
		b := d3.Triangle(t).Bounds()
		min = elemMin(min, b.Min)
		max = elemMax(max, b.Max)
	}
	return &kdtree.Bounding{Min: kdTriangle{min, min, min}, Max: kdTriangle{max, max, max}}
}

func elemMin(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}
func elemMax(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

type kdPlane struct {
	dim  int
	tris kdTriangles
}

func (p kdPlane) Less(i, j int) bool { return kdComp(p.tris[i], p.tris[j], p.dim) < 0 }
func (p kdPlane) Swap(i, j int)      { p.tris[i], p.tris[j] = p.tris[j], p.tris[i] }
func (p kdPlane) Len() int           { return len(p.tris) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.tris = p.tris[start:end]
	return p
}
