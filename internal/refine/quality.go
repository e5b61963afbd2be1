package refine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// PassStats summarizes one pass's tet quality, used both to report
// progress and to decide whether the pass loop has stalled.
type PassStats struct {
	MaxEnergy   float64
	AvgEnergy   float64
	NumInverted int
	MinDihedral float64
	MaxDihedral float64
}

// Stats computes PassStats over every currently alive tet.
func (m *Mesh) Stats() PassStats {
	live := m.LiveTets()
	finite := make([]float64, 0, len(live))
	inverted := 0
	minDih, maxDih := 0.0, 0.0
	first := true
	for _, i := range live {
		e := m.Energy(i)
		if e.IsFinite() {
			finite = append(finite, e.Value())
		} else {
			inverted++
		}
		v0, v1, v2, v3 := m.TetVerts(i)
		lo, hi := TetDihedralRange(v0, v1, v2, v3)
		if first {
			minDih, maxDih = lo, hi
			first = false
		} else {
			if lo < minDih {
				minDih = lo
			}
			if hi > maxDih {
				maxDih = hi
			}
		}
	}
	s := PassStats{NumInverted: inverted, MinDihedral: minDih, MaxDihedral: maxDih}
	if len(finite) > 0 {
		s.MaxEnergy = floats.Max(finite)
		s.AvgEnergy = stat.Mean(finite, nil)
	}
	return s
}

// TetDihedralRange returns the smallest and largest dihedral angle
// (radians) among the tet (v0,v1,v2,v3)'s six edges.
func TetDihedralRange(v0, v1, v2, v3 r3.Vec) (min, max float64) {
	pts := [4][3]float64{
		{v0.X, v0.Y, v0.Z}, {v1.X, v1.Y, v1.Z}, {v2.X, v2.Y, v2.Z}, {v3.X, v3.Y, v3.Z},
	}
	edges := [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	first := true
	for _, e := range edges {
		a, b := e[0], e[1]
		others := make([]int, 0, 2)
		for i := 0; i < 4; i++ {
			if i != a && i != b {
				others = append(others, i)
			}
		}
		c, d := others[0], others[1]
		ang := dihedralAngle(pts[a], pts[b], pts[c], pts[d])
		if first {
			min, max = ang, ang
			first = false
		} else {
			if ang < min {
				min = ang
			}
			if ang > max {
				max = ang
			}
		}
	}
	return min, max
}

// dihedralAngle returns the angle at edge (a,b) between faces (a,b,c) and
// (a,b,d).
func dihedralAngle(a, b, c, d [3]float64) float64 {
	sub := func(p, q [3]float64) [3]float64 { return [3]float64{p[0] - q[0], p[1] - q[1], p[2] - q[2]} }
	cross := func(u, v [3]float64) [3]float64 {
		return [3]float64{u[1]*v[2] - u[2]*v[1], u[2]*v[0] - u[0]*v[2], u[0]*v[1] - u[1]*v[0]}
	}
	dot := func(u, v [3]float64) float64 { return u[0]*v[0] + u[1]*v[1] + u[2]*v[2] }

	ab := sub(b, a)
	n1 := cross(ab, sub(c, a))
	n2 := cross(ab, sub(d, a))
	l1, l2 := dot(n1, n1), dot(n2, n2)
	if l1 == 0 || l2 == 0 {
		return 0
	}
	cosTheta := dot(n1, n2) / math.Sqrt(l1*l2)
	if cosTheta > 1 {
		cosTheta = 1
	}
	if cosTheta < -1 {
		cosTheta = -1
	}
	return math.Acos(cosTheta)
}
