package delaunay

import (
	"math"

	"github.com/solidgeom/tetwild/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// VoxelStuff samples a body-centered-cubic lattice (corner nodes plus one
// center node per cell, following the BCC construction used for isotropic
// tetrahedron generation) over bb at the given resolution, and returns the
// subset of lattice points for which keep returns true. spec.md section
// 4.4 requires voxel points to pass an in-envelope/in-volume test before
// being retained, to avoid spurious crowding near the input surface; keep
// is that test, supplied by the caller (typically "inside the winding
// number volume and outside the envelope of the simplified soup").
func VoxelStuff(bb d3.Box, resolution float64, keep func(r3.Vec) bool) []r3.Vec {
	if resolution <= 0 {
		return nil
	}
	size := bb.Size()
	nx := int(math.Ceil(size.X / resolution))
	ny := int(math.Ceil(size.Y / resolution))
	nz := int(math.Ceil(size.Z / resolution))
	if nx < 1 || ny < 1 || nz < 1 {
		return nil
	}
	out := make([]r3.Vec, 0, (nx+1)*(ny+1)*(nz+1))
	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			for k := 0; k <= nz; k++ {
				p := r3.Add(bb.Min, r3.Vec{
					X: float64(i) * resolution,
					Y: float64(j) * resolution,
					Z: float64(k) * resolution,
				})
				if keep(p) {
					out = append(out, p)
				}
				if i < nx && j < ny && k < nz {
					center := r3.Add(p, r3.Scale(0.5*resolution, r3.Vec{X: 1, Y: 1, Z: 1}))
					if keep(center) {
						out = append(out, center)
					}
				}
			}
		}
	}
	return out
}
