// Package bsptree is the BSP construction and raycasting demo. The
// input is a closed polygon's edge soup; the build picks one splitter
// per step, then a probe segment is raycast against the finished tree.
//
// Faces run clockwise around the polygon, so the front (left) side of
// every face is outside/empty and the interior is solid.
package bsptree

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/bsp"
	"github.com/stepview/stepview/pkg/geom"
	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/scene"
)

func init() {
	harness.Register("bsptree", func() harness.Algorithm { return &Demo{} })
}

// Input is the polygon's face list plus the probe segment.
type Input struct {
	Faces []geom.Segment
	Ray   geom.Segment
}

// Output is the finished tree and the probe's travel fraction.
type Output struct {
	Tree     *bsp.Node
	Fraction float64
}

// Demo implements the harness contract.
type Demo struct{}

var (
	_ harness.Algorithm  = (*Demo)(nil)
	_ harness.SelfTester = (*Demo)(nil)
)

func (*Demo) Name() string { return "bsptree" }

// Generate builds a star-shaped polygon: a ring of vertices at jittered
// radii, emitted clockwise, plus a probe from well outside toward a
// point near the middle.
func (*Demo) Generate(seed int64, view scene.Sink) any {
	rng := rand.New(rand.NewSource(seed))
	n := 8 + rng.Intn(5)
	verts := make([]v2.Vec, n)
	for i := range verts {
		// Clockwise: angle decreases with i.
		a := -2 * math.Pi * float64(i) / float64(n)
		r := 6 + rng.Float64()*8
		verts[i] = v2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	in := &Input{}
	for i := range verts {
		in.Faces = append(in.Faces, geom.Segment{A: verts[i], B: verts[(i+1)%n]})
	}
	in.Ray = geom.Segment{
		A: v2.Vec{X: -25, Y: 18 * (rng.Float64() - 0.5)},
		B: v2.Vec{X: 3 * (rng.Float64() - 0.5), Y: 3 * (rng.Float64() - 0.5)},
	}
	return in
}

var (
	colFace  = color.RGBA{R: 200, G: 200, B: 215, A: 255}
	colPlane = color.RGBA{R: 255, G: 180, B: 40, A: 255}
	colFront = color.RGBA{R: 90, G: 170, B: 250, A: 255}
	colBack  = color.RGBA{R: 250, G: 120, B: 90, A: 255}
	colRay   = color.RGBA{R: 120, G: 230, B: 120, A: 255}
	colHit   = color.RGBA{R: 250, G: 90, B: 90, A: 255}
)

func (*Demo) Display(view scene.Sink, in, out any) {
	ip, ok := in.(*Input)
	if !ok {
		return
	}
	for _, f := range ip.Faces {
		view.Line(f.A, f.B, colFace, v2.Vec{}, v2.Vec{})
	}
	view.Circle(ip.Ray.A, 0, colRay, 3)
	if op, ok := out.(*Output); ok && op != nil {
		hit := ip.Ray.Lerp(op.Fraction)
		view.Line(ip.Ray.A, hit, colRay, v2.Vec{}, v2.Vec{})
		view.Circle(hit, 0, colHit, 4)
		view.Text(hit, fmt.Sprintf("t=%.3f", op.Fraction), colHit, v2.Vec{X: 8, Y: 8})
	} else {
		view.Line(ip.Ray.A, ip.Ray.B, colRay, v2.Vec{}, v2.Vec{})
	}
}

// Execute builds the tree with one step per chosen splitter, then
// raycasts the probe.
func (*Demo) Execute(view *scene.Visualizer, in any) any {
	ip, ok := in.(*Input)
	if !ok {
		return &Output{Fraction: 1}
	}

	tree := buildStepped(ip, ip.Faces, view)
	frac := bsp.Raycast(ip.Ray.A, ip.Ray.B, tree)

	hit := ip.Ray.Lerp(frac)
	drawFaces(view, ip.Faces, colFace)
	view.Line(ip.Ray.A, hit, colRay, v2.Vec{}, v2.Vec{})
	view.Circle(hit, 0, colHit, 4)
	view.Step()

	return &Output{Tree: tree, Fraction: frac}
}

// buildStepped mirrors bsp.Build but publishes one frame per node: the
// chosen splitter's plane and the front/back partitions it induces.
func buildStepped(ip *Input, faces []geom.Segment, view *scene.Visualizer) *bsp.Node {
	if len(faces) == 0 {
		return nil
	}
	splitter := faces[bsp.ChooseSplitter(faces)]
	pl := geom.PlaneThrough(splitter.A, splitter.B)
	co, front, back := bsp.Partition(faces, pl)

	drawFaces(view, ip.Faces, colFace)
	drawPlane(view, pl)
	drawFaces(view, front, colFront)
	drawFaces(view, back, colBack)
	for _, f := range co {
		view.Line(f.A, f.B, colPlane, v2.Vec{}, v2.Vec{})
	}
	view.Step()

	return &bsp.Node{
		Plane:      pl,
		Coincident: co,
		Front:      buildStepped(ip, front, view),
		Back:       buildStepped(ip, back, view),
	}
}

func drawFaces(view *scene.Visualizer, faces []geom.Segment, c color.RGBA) {
	for _, f := range faces {
		view.Line(f.A, f.B, c, v2.Vec{}, v2.Vec{})
	}
}

// drawPlane draws the splitting plane as a long line through the scene.
func drawPlane(view *scene.Visualizer, pl geom.Plane) {
	dir := v2.Vec{X: pl.N.Y, Y: -pl.N.X}
	mid := pl.N.MulScalar(pl.D)
	a := mid.Add(dir.MulScalar(40))
	b := mid.Sub(dir.MulScalar(40))
	view.Line(a, b, colPlane, v2.Vec{}, v2.Vec{})
}

func (*Demo) TestCases() []harness.TestCase {
	// A unit square, clockwise, so the interior is solid.
	square := []geom.Segment{
		{A: v2.Vec{X: -5, Y: -5}, B: v2.Vec{X: -5, Y: 5}},
		{A: v2.Vec{X: -5, Y: 5}, B: v2.Vec{X: 5, Y: 5}},
		{A: v2.Vec{X: 5, Y: 5}, B: v2.Vec{X: 5, Y: -5}},
		{A: v2.Vec{X: 5, Y: -5}, B: v2.Vec{X: -5, Y: -5}},
	}
	return []harness.TestCase{
		{
			Name: "ray-into-square",
			Input: &Input{
				Faces: square,
				Ray:   geom.Segment{A: v2.Vec{X: -15, Y: 0}, B: v2.Vec{X: 5, Y: 0}},
			},
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				// Travel from x=-15 toward x=5 stops at the x=-5 face:
				// half the segment.
				if math.Abs(op.Fraction-0.5) > 1e-6 {
					return fmt.Errorf("expected fraction 0.5, got %v", op.Fraction)
				}
				return nil
			},
		},
		{
			Name: "ray-missing-square",
			Input: &Input{
				Faces: square,
				Ray:   geom.Segment{A: v2.Vec{X: -15, Y: 8}, B: v2.Vec{X: 15, Y: 8}},
			},
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				if op.Fraction != 1 {
					return fmt.Errorf("expected fraction 1, got %v", op.Fraction)
				}
				return nil
			},
		},
	}
}
