package tetwild

import "gonum.org/v1/gonum/spatial/r3"

// ExtractSurfaceMesh returns the boundary surface of an arbitrary tet
// mesh: the triangles that belong to exactly one tet. Every tet facet is
// counted by its sorted vertex triple; facets counted once are boundary,
// facets counted twice are shared interior faces (spec.md section 8's
// R1/R2 round-trip properties exercise this against Tetrahedralize's own
// output).
func ExtractSurfaceMesh(VI []r3.Vec, TI [][4]int) (VS []r3.Vec, FS [][3]int) {
	type facet [3]int
	sorted := func(a, b, c int) facet {
		f := facet{a, b, c}
		if f[0] > f[1] {
			f[0], f[1] = f[1], f[0]
		}
		if f[1] > f[2] {
			f[1], f[2] = f[2], f[1]
		}
		if f[0] > f[1] {
			f[0], f[1] = f[1], f[0]
		}
		return f
	}
	count := make(map[facet]int)
	orient := make(map[facet][3]int)
	for _, t := range TI {
		faces := [4][3]int{
			{t[1], t[2], t[3]},
			{t[0], t[3], t[2]},
			{t[0], t[1], t[3]},
			{t[0], t[2], t[1]},
		}
		for _, f := range faces {
			key := sorted(f[0], f[1], f[2])
			count[key]++
			if _, ok := orient[key]; !ok {
				orient[key] = f
			}
		}
	}

	remap := make(map[int]int)
	addVertex := func(idx int) int {
		if m, ok := remap[idx]; ok {
			return m
		}
		m := len(VS)
		remap[idx] = m
		VS = append(VS, VI[idx])
		return m
	}

	for key, n := range count {
		if n != 1 {
			continue
		}
		f := orient[key]
		FS = append(FS, [3]int{addVertex(f[0]), addVertex(f[1]), addVertex(f[2])})
	}
	return VS, FS
}
