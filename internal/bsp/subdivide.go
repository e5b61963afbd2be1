package bsp

import (
	"github.com/solidgeom/tetwild/internal/conform"
	"gonum.org/v1/gonum/spatial/r3"
)

// Complex is the BSP cell complex produced by Subdivide: a vertex pool
// (the input verts plus every crossing point created during cutting) and
// the surviving leaf cells.
type Complex struct {
	Verts []r3.Vec
	Cells []Cell
}

type workItem struct {
	cellIdx, cutterIdx int
}

// Subdivide runs the BSP worklist: it repeatedly pops a (cell, cutter)
// pair whose cutter actually crosses the cell, splits the cell in two
// along the cutter's plane, and reassigns every other pending cutter to
// whichever of the two children it still straddles (spec.md section 4.6).
// Cells the worklist never touches pass through unchanged.
func Subdivide(verts []r3.Vec, cells []Cell, cutters []conform.Cutter) Complex {
	allVerts := append([]r3.Vec{}, verts...)
	allCells := append([]Cell{}, cells...)
	alive := make([]bool, len(allCells))
	for i := range alive {
		alive[i] = true
	}
	planes := make([]cutPlane, len(cutters))
	for i, c := range cutters {
		planes[i] = planeOf(c)
	}

	var queue []workItem
	for ci := range allCells {
		for ki := range cutters {
			if straddles(allVerts, allCells[ci], planes[ki]) {
				queue = append(queue, workItem{ci, ki})
			}
		}
	}

	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		if !alive[w.cellIdx] {
			continue
		}
		cell := allCells[w.cellIdx]
		if !straddles(allVerts, cell, planes[w.cutterIdx]) {
			continue
		}
		above, below := splitCell(&allVerts, cell, cutters[w.cutterIdx])
		alive[w.cellIdx] = false

		aboveIdx := len(allCells)
		allCells = append(allCells, above)
		alive = append(alive, true)
		belowIdx := len(allCells)
		allCells = append(allCells, below)
		alive = append(alive, true)

		for ki := range cutters {
			if ki == w.cutterIdx {
				continue
			}
			if straddles(allVerts, above, planes[ki]) {
				queue = append(queue, workItem{aboveIdx, ki})
			}
			if straddles(allVerts, below, planes[ki]) {
				queue = append(queue, workItem{belowIdx, ki})
			}
		}
	}

	out := Complex{Verts: allVerts}
	for i, a := range alive {
		if a {
			out.Cells = append(out.Cells, allCells[i])
		}
	}
	return out
}
