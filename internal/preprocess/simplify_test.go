package preprocess

import (
	"errors"
	"testing"

	"github.com/solidgeom/tetwild/internal/d3"
	"github.com/solidgeom/tetwild/internal/envelope"
	"gonum.org/v1/gonum/spatial/r3"
)

func cubeSoup() Soup {
	v := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	t := [][3]int{
		{0, 1, 2}, {0, 2, 3}, // bottom
		{4, 6, 5}, {4, 7, 6}, // top
		{0, 5, 1}, {0, 4, 5}, // front
		{1, 6, 2}, {1, 5, 6}, // right
		{2, 7, 3}, {2, 6, 7}, // back
		{3, 4, 0}, {3, 7, 4}, // left
	}
	return Soup{V: v, T: t}
}

func envelopeFor(s Soup, eps float64) *envelope.Envelope {
	tris := make([]d3.Triangle, s.NumTriangles())
	for i := range s.T {
		tris[i] = s.Triangle(i)
	}
	return envelope.New(tris, eps)
}

func TestSimplifyKeepsNonEmptyCube(t *testing.T) {
	s := cubeSoup()
	env := envelopeFor(s, 0.05)
	out, err := Simplify(s, env, DefaultConfig(0.05))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NumTriangles() == 0 {
		t.Fatal("expected a non-empty simplified soup for a cube")
	}
	for i := 0; i < out.NumTriangles(); i++ {
		if out.Triangle(i).Area() <= 0 {
			t.Errorf("triangle %d has non-positive area", i)
		}
	}
}

func TestSimplifyEmptyInput(t *testing.T) {
	env := envelopeFor(cubeSoup(), 0.05)
	_, err := Simplify(Soup{}, env, DefaultConfig(0.05))
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestDedupMergesCoincidentVertices(t *testing.T) {
	s := Soup{
		V: []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1e-9, Y: 1e-9, Z: 0}},
		T: [][3]int{{0, 1, 2}},
	}
	out := dedup(s, 1e-6)
	if len(out.V) >= len(s.V) {
		t.Error("expected dedup to merge the near-duplicate vertex")
	}
}
