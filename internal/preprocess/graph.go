package preprocess

// edgeGraph tracks which vertex pairs are connected by a soup edge and,
// for each edge, which triangles are incident to it (0, 1 or 2 in a
// typical soup, more at a non-manifold edge). It is rebuilt whenever the
// triangle list changes shape (after an accepted collapse/swap).
type edgeGraph struct {
	incident map[[2]int][]int // ordered (min,max) vertex pair -> triangle indices
}

func buildEdgeGraph(s Soup) *edgeGraph {
	inc := make(map[[2]int][]int, len(s.T)*3)
	addEdge := func(u, v, tri int) {
		key := edgeKey(u, v)
		inc[key] = append(inc[key], tri)
	}
	for ti, t := range s.T {
		addEdge(t[0], t[1], ti)
		addEdge(t[1], t[2], ti)
		addEdge(t[2], t[0], ti)
	}
	return &edgeGraph{incident: inc}
}

func edgeKey(u, v int) [2]int {
	if u < v {
		return [2]int{u, v}
	}
	return [2]int{v, u}
}

// edges returns every distinct vertex pair connected by a soup edge.
func (eg *edgeGraph) edges() [][2]int {
	out := make([][2]int, 0, len(eg.incident))
	for k := range eg.incident {
		out = append(out, k)
	}
	return out
}
