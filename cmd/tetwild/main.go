// Command tetwild is a thin CLI driver around the tetwild library: it
// reads a surface mesh, tetrahedralizes it, writes the resulting
// boundary back out as STL, and (mirroring the teacher's own example
// generator) renders a PNG preview of that boundary with fauxgl.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fogleman/fauxgl"
	"github.com/hschendel/stl"
	"github.com/solidgeom/tetwild"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	in := flag.String("in", "", "input STL path")
	out := flag.String("out", "out.stl", "output boundary STL path")
	preview := flag.String("preview", "", "optional PNG preview path")
	epsRel := flag.Float64("eps-rel", 1000, "envelope tolerance = bbox_diag / eps-rel")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: tetwild -in model.stl -out boundary.stl [-preview preview.png]")
		os.Exit(2)
	}

	VI, FI, err := readSTL(*in)
	if err != nil {
		log.Fatalf("reading %s: %v", *in, err)
	}

	cfg := tetwild.DefaultConfig()
	cfg.EpsRel = *epsRel
	cfg.Progress = func(step tetwild.Step, frac float64) {
		fmt.Fprintf(os.Stderr, "%-12s %3.0f%%\n", step, frac*100)
	}

	VO, TO, AO, err := tetwild.Tetrahedralize(context.Background(), VI, FI, cfg)
	if err != nil {
		var te *tetwild.Error
		if ok := asTetwildError(err, &te); ok && te.Kind == tetwild.PassLimitExceeded {
			log.Printf("warning: %v (continuing with best-so-far mesh)", te)
		} else {
			log.Fatalf("tetrahedralize: %v", err)
		}
	}
	fmt.Fprintf(os.Stderr, "%d tets, min dihedral angle over mesh: %v\n", len(TO), minOf(AO))

	VS, FS := tetwild.ExtractSurfaceMesh(VO, TO)
	if err := writeSTL(*out, VS, FS); err != nil {
		log.Fatalf("writing %s: %v", *out, err)
	}

	if *preview != "" {
		if err := renderPreview(*out, *preview); err != nil {
			log.Fatalf("rendering preview: %v", err)
		}
	}
}

func asTetwildError(err error, out **tetwild.Error) bool {
	te, ok := err.(*tetwild.Error)
	if ok {
		*out = te
	}
	return ok
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func readSTL(path string) ([]r3.Vec, [][3]int, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var VI []r3.Vec
	var FI [][3]int
	seen := make(map[[3]float32]int)
	index := func(v stl.Vec3) int {
		if i, ok := seen[v]; ok {
			return i
		}
		i := len(VI)
		seen[v] = i
		VI = append(VI, r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
		return i
	}
	for _, t := range solid.Triangles {
		FI = append(FI, [3]int{
			index(t.Vertices[0]), index(t.Vertices[1]), index(t.Vertices[2]),
		})
	}
	return VI, FI, nil
}

func writeSTL(path string, VS []r3.Vec, FS [][3]int) error {
	solid := stl.Solid{
		Name: "tetwild-boundary",
	}
	for _, f := range FS {
		v0, v1, v2 := VS[f[0]], VS[f[1]], VS[f[2]]
		n := faceNormal(v0, v1, v2)
		solid.Triangles = append(solid.Triangles, stl.Triangle{
			Normal: stl.Vec3{float32(n.X), float32(n.Y), float32(n.Z)},
			Vertices: [3]stl.Vec3{
				{float32(v0.X), float32(v0.Y), float32(v0.Z)},
				{float32(v1.X), float32(v1.Y), float32(v1.Z)},
				{float32(v2.X), float32(v2.Y), float32(v2.Z)},
			},
		})
	}
	return solid.WriteFile(path)
}

func faceNormal(a, b, c r3.Vec) r3.Vec {
	return r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// renderPreview loads the STL just written and rasterizes it to a PNG,
// the same LoadSTL -> Context -> PhongShader -> SavePNG pipeline the
// example image generator uses for every generated model.
func renderPreview(stlPath, pngPath string) error {
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return err
	}
	mesh.BiUnitCube()

	const scale, width, height = 2, 1024, 768
	var (
		eye    = fauxgl.V(3, 3, 3)
		center = fauxgl.V(0, 0, 0)
		up     = fauxgl.V(0, 0, 1)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)

	ctx := fauxgl.NewContext(width*scale, height*scale)
	ctx.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))

	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(30, aspect, 1, 10)

	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	ctx.Shader = shader
	ctx.DrawMesh(mesh)

	image := ctx.Image()
	return fauxgl.SavePNG(pngPath, image)
}
