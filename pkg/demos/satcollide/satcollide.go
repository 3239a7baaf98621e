// Package satcollide is the separating-axis collision demo between two
// convex polygons. Each candidate axis tested is one visualization
// step.
package satcollide

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/scene"
)

func init() {
	harness.Register("satcollide", func() harness.Algorithm { return &Demo{} })
}

// Input is a pair of convex polygons in counter-clockwise order.
type Input struct {
	A, B []v2.Vec
}

// Output reports whether the polygons overlap and, when they do, the
// minimum translation vector that separates B from A.
type Output struct {
	Colliding bool
	MTV       v2.Vec
}

// Demo implements the harness contract.
type Demo struct{}

var (
	_ harness.Algorithm  = (*Demo)(nil)
	_ harness.SelfTester = (*Demo)(nil)
)

func (*Demo) Name() string { return "satcollide" }

// convexRing builds a convex CCW polygon from sorted random angles.
func convexRing(rng *rand.Rand, n int, radius float64, center v2.Vec) []v2.Vec {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	// Insertion sort; n is tiny.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && angles[j] < angles[j-1]; j-- {
			angles[j], angles[j-1] = angles[j-1], angles[j]
		}
	}
	poly := make([]v2.Vec, n)
	for i, a := range angles {
		r := radius * (0.6 + 0.4*rng.Float64())
		poly[i] = center.Add(v2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	return poly
}

func (*Demo) Generate(seed int64, view scene.Sink) any {
	rng := rand.New(rand.NewSource(seed))
	sep := 4 + rng.Float64()*10
	return &Input{
		A: convexRing(rng, 5+rng.Intn(3), 8, v2.Vec{X: -sep, Y: 0}),
		B: convexRing(rng, 5+rng.Intn(3), 8, v2.Vec{X: sep, Y: 0}),
	}
}

var (
	colA    = color.RGBA{R: 90, G: 170, B: 250, A: 255}
	colB    = color.RGBA{R: 250, G: 180, B: 60, A: 255}
	colAxis = color.RGBA{R: 250, G: 90, B: 90, A: 255}
	colOK   = color.RGBA{R: 120, G: 230, B: 120, A: 255}
)

func drawPoly(view scene.Sink, poly []v2.Vec, c color.RGBA) {
	for i := range poly {
		view.Line(poly[i], poly[(i+1)%len(poly)], c, v2.Vec{}, v2.Vec{})
	}
}

func (*Demo) Display(view scene.Sink, in, out any) {
	ip, ok := in.(*Input)
	if !ok {
		return
	}
	drawPoly(view, ip.A, colA)
	drawPoly(view, ip.B, colB)
	if op, ok := out.(*Output); ok && op != nil {
		if op.Colliding {
			view.Text(v2.Vec{Y: -18}, fmt.Sprintf("overlap, mtv=(%.2f, %.2f)", op.MTV.X, op.MTV.Y), colAxis, v2.Vec{})
		} else {
			view.Text(v2.Vec{Y: -18}, "separated", colOK, v2.Vec{})
		}
	}
}

// project returns the min and max of poly projected on axis.
func project(poly []v2.Vec, axis v2.Vec) (lo, hi float64) {
	lo = poly[0].Dot(axis)
	hi = lo
	for _, p := range poly[1:] {
		d := p.Dot(axis)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// Execute tests every edge normal of both polygons. The first axis with
// disjoint projections separates; otherwise the axis with the smallest
// overlap yields the minimum translation vector.
func (*Demo) Execute(view *scene.Visualizer, in any) any {
	ip, ok := in.(*Input)
	if !ok || len(ip.A) < 3 || len(ip.B) < 3 {
		return &Output{}
	}

	bestOverlap := math.Inf(1)
	var bestAxis v2.Vec

	axes := edgeNormals(ip.A)
	axes = append(axes, edgeNormals(ip.B)...)
	for _, axis := range axes {
		alo, ahi := project(ip.A, axis)
		blo, bhi := project(ip.B, axis)
		overlap := math.Min(ahi, bhi) - math.Max(alo, blo)

		drawPoly(view, ip.A, colA)
		drawPoly(view, ip.B, colB)
		drawAxis(view, axis, overlap >= 0)
		view.Step()

		if overlap < 0 {
			// Separating axis found: no contact possible.
			return &Output{}
		}
		if overlap < bestOverlap {
			bestOverlap = overlap
			bestAxis = axis
		}
	}

	// Point the MTV from A toward B.
	ca, cb := centroid(ip.A), centroid(ip.B)
	if cb.Sub(ca).Dot(bestAxis) < 0 {
		bestAxis = bestAxis.Neg()
	}
	return &Output{Colliding: true, MTV: bestAxis.MulScalar(bestOverlap)}
}

func edgeNormals(poly []v2.Vec) []v2.Vec {
	normals := make([]v2.Vec, 0, len(poly))
	for i := range poly {
		e := poly[(i+1)%len(poly)].Sub(poly[i])
		normals = append(normals, v2.Vec{X: -e.Y, Y: e.X}.Normalize())
	}
	return normals
}

func centroid(poly []v2.Vec) v2.Vec {
	var sum v2.Vec
	for _, p := range poly {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(poly)))
}

func drawAxis(view *scene.Visualizer, axis v2.Vec, overlapping bool) {
	c := colOK
	if overlapping {
		c = colAxis
	}
	view.Line(axis.MulScalar(-30), axis.MulScalar(30), c, v2.Vec{}, v2.Vec{})
}

func (*Demo) TestCases() []harness.TestCase {
	square := func(cx float64) []v2.Vec {
		return []v2.Vec{
			{X: cx - 3, Y: -3}, {X: cx + 3, Y: -3},
			{X: cx + 3, Y: 3}, {X: cx - 3, Y: 3},
		}
	}
	return []harness.TestCase{
		{
			Name:  "overlapping-squares",
			Input: &Input{A: square(0), B: square(4)},
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				if !op.Colliding {
					return fmt.Errorf("expected collision")
				}
				// Two unit-width overlaps along x; mtv pushes B in +x by 2.
				want := v2.Vec{X: 2, Y: 0}
				if math.Abs(op.MTV.X-want.X) > 1e-9 || math.Abs(op.MTV.Y-want.Y) > 1e-9 {
					return fmt.Errorf("expected mtv %v, got %v", want, op.MTV)
				}
				return nil
			},
		},
		{
			Name:  "separated-squares",
			Input: &Input{A: square(0), B: square(10)},
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				if op.Colliding {
					return fmt.Errorf("expected separation, got mtv %v", op.MTV)
				}
				return nil
			},
		},
	}
}
