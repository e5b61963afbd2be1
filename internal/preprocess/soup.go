// Package preprocess implements the surface simplifier of spec.md section
// 4.3: it collapses, swaps, and deduplicates edges of the input soup while
// the resulting surface stays inside the envelope.
package preprocess

import (
	"errors"

	"github.com/solidgeom/tetwild/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyInput is returned when simplification removes every triangle
// from the soup (spec.md section 4.3, "Failure").
var ErrEmptyInput = errors.New("preprocess: soup reduced to empty")

// Soup is an unordered triangle list without topological guarantees
// (spec.md section 3, "Input triangle soup").
type Soup struct {
	V []r3.Vec
	T [][3]int
}

// Triangle returns the i'th triangle as geometry.
func (s Soup) Triangle(i int) d3.Triangle {
	t := s.T[i]
	return d3.Triangle{s.V[t[0]], s.V[t[1]], s.V[t[2]]}
}

// NumTriangles returns the number of triangles currently in the soup.
func (s Soup) NumTriangles() int { return len(s.T) }

// clone makes an independent copy so in-place edits during simplification
// never alias the caller's input.
func (s Soup) clone() Soup {
	v := make([]r3.Vec, len(s.V))
	copy(v, s.V)
	t := make([][3]int, len(s.T))
	copy(t, s.T)
	return Soup{V: v, T: t}
}
