package winding

import (
	"math"

	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/simpletet"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTheta is the Barnes-Hut opening angle: a subtree is replaced by
// its aggregate far-field approximation once its bounding box diagonal
// is smaller than theta times its distance to the query point.
const DefaultTheta = 2.0

// Field accelerates winding number evaluation over a fixed triangle
// soup with a kd-tree (gonum.org/v1/gonum/spatial/kdtree) plus a
// per-node aggregate area-weighted normal, so far subtrees can be
// summarized instead of visited triangle by triangle.
type Field struct {
	tree  *kdtree.Tree
	theta float64
	agg   map[*kdtree.Node]aggregate
}

type aggregate struct {
	centroid  r3.Vec // area-weighted centroid of the subtree.
	areaNorm  r3.Vec // sum of per-triangle area * unit normal.
	totalArea float64
	diag      float64 // bounding box diagonal length, for the opening-angle test.
}

// NewField builds a Field over tris.
func NewField(tris []d3.Triangle) *Field {
	list := make(kdTriangles, len(tris))
	for i, t := range tris {
		list[i] = kdTriangle(t)
	}
	tree := kdtree.New(list, true)
	f := &Field{tree: tree, theta: DefaultTheta, agg: make(map[*kdtree.Node]aggregate)}
	f.build(tree.Root)
	return f
}

// SetTheta overrides the default opening angle.
func (f *Field) SetTheta(theta float64) { f.theta = theta }

func (f *Field) build(n *kdtree.Node) aggregate {
	if n == nil {
		return aggregate{}
	}
	tri := d3.Triangle(n.Point.(kdTriangle))
	area := tri.Area()
	own := aggregate{
		centroid:  tri.Centroid(),
		areaNorm:  r3.Scale(area, tri.UnitNormal()),
		totalArea: area,
	}
	left := f.build(n.Left)
	right := f.build(n.Right)

	total := own.totalArea + left.totalArea + right.totalArea
	combined := aggregate{areaNorm: r3.Add(own.areaNorm, r3.Add(left.areaNorm, right.areaNorm))}
	if total > 0 {
		weighted := r3.Scale(own.totalArea, own.centroid)
		weighted = r3.Add(weighted, r3.Scale(left.totalArea, left.centroid))
		weighted = r3.Add(weighted, r3.Scale(right.totalArea, right.centroid))
		combined.centroid = r3.Scale(1/total, weighted)
	} else {
		combined.centroid = own.centroid
	}
	combined.totalArea = total
	if n.Bounding != nil {
		lo := n.Bounding.Min.(kdTriangle)[0]
		hi := n.Bounding.Max.(kdTriangle)[0]
		combined.diag = r3.Norm(r3.Sub(hi, lo))
	}
	f.agg[n] = combined
	return combined
}

// WindingNumber returns the generalized winding number of the soup at p.
func (f *Field) WindingNumber(p r3.Vec) float64 {
	return f.evalNode(f.tree.Root, p) / (4 * math.Pi)
}

func (f *Field) evalNode(n *kdtree.Node, p r3.Vec) float64 {
	if n == nil {
		return 0
	}
	a := f.agg[n]
	d := r3.Norm(r3.Sub(p, a.centroid))
	if n.Left == nil && n.Right == nil {
		return exactSolidAngle(d3.Triangle(n.Point.(kdTriangle)), p)
	}
	if d > 0 && a.diag/d < f.theta {
		return farFieldSolidAngle(a, p, d)
	}
	total := exactSolidAngle(d3.Triangle(n.Point.(kdTriangle)), p)
	total += f.evalNode(n.Left, p)
	total += f.evalNode(n.Right, p)
	return total
}

// farFieldSolidAngle approximates the solid angle subtended by a distant
// cluster of triangles by the flux of its aggregate area-weighted normal
// through a sphere around p, the leading-order term of the fast winding
// number expansion.
func farFieldSolidAngle(a aggregate, p r3.Vec, d float64) float64 {
	return r3.Dot(a.areaNorm, r3.Sub(a.centroid, p)) / (d * d * d)
}

// exactSolidAngle is the Van Oosterom-Strackee formula for the signed
// solid angle subtended by triangle t as seen from p.
func exactSolidAngle(t d3.Triangle, p r3.Vec) float64 {
	a := r3.Sub(t[0], p)
	b := r3.Sub(t[1], p)
	c := r3.Sub(t[2], p)
	la, lb, lc := r3.Norm(a), r3.Norm(b), r3.Norm(c)
	if la == 0 || lb == 0 || lc == 0 {
		return 0
	}
	num := r3.Dot(r3.Cross(a, b), c)
	den := la*lb*lc + r3.Dot(a, b)*lc + r3.Dot(b, c)*la + r3.Dot(c, a)*lb
	return 2 * math.Atan2(num, den)
}

// FilterInsideOutside keeps every tet whose barycenter has a winding
// number greater than 0.5 and discards the rest, remapping the surviving
// vertex set to a dense index range (spec.md section 4.9).
func FilterInsideOutside(verts []r3.Vec, tets []simpletet.Tet, soup []d3.Triangle) (outVerts []r3.Vec, outTets []simpletet.Tet) {
	field := NewField(soup)
	remap := make(map[int]int)
	for _, t := range tets {
		c := barycenter(verts, t)
		if field.WindingNumber(c) <= 0.5 {
			continue
		}
		nt := t
		for i, v := range t.Verts {
			ni, ok := remap[v]
			if !ok {
				ni = len(outVerts)
				outVerts = append(outVerts, verts[v])
				remap[v] = ni
			}
			nt.Verts[i] = ni
		}
		outTets = append(outTets, nt)
	}
	return outVerts, outTets
}

func barycenter(verts []r3.Vec, t simpletet.Tet) r3.Vec {
	sum := r3.Vec{}
	for _, v := range t.Verts {
		sum = r3.Add(sum, verts[v])
	}
	return r3.Scale(0.25, sum)
}
