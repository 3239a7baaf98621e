// Package hull is the convex hull demo, using the monotone chain
// algorithm. Each accepted or rejected vertex is a visualization step.
package hull

import (
	"fmt"
	"image/color"
	"math/rand"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/geom"
	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/scene"
)

func init() {
	harness.Register("hull", func() harness.Algorithm { return &Demo{} })
}

// Input is a point set.
type Input struct {
	Points []v2.Vec
}

// Output is the hull as indices into the input points, counter-clockwise
// starting from the lowest-leftmost point.
type Output struct {
	Hull []int
}

// Demo implements the harness contract.
type Demo struct{}

var (
	_ harness.Algorithm   = (*Demo)(nil)
	_ harness.Loader      = (*Demo)(nil)
	_ harness.PointSource = (*Demo)(nil)
	_ harness.SelfTester  = (*Demo)(nil)
)

func (*Demo) Name() string { return "hull" }

func (*Demo) Generate(seed int64, view scene.Sink) any {
	rng := rand.New(rand.NewSource(seed))
	in := &Input{Points: make([]v2.Vec, 32)}
	for i := range in.Points {
		in.Points[i] = v2.Vec{
			X: (rng.Float64() - 0.5) * 28,
			Y: (rng.Float64() - 0.5) * 28,
		}
	}
	return in
}

func (*Demo) LoadInput(data []byte) (any, error) {
	pts, err := geom.ParsePoints(data)
	if err != nil {
		return nil, fmt.Errorf("hull: %w", err)
	}
	return &Input{Points: pts}, nil
}

func (*Demo) FromPoints(pts []v2.Vec) any {
	return &Input{Points: pts}
}

var (
	colPoint = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	colHull  = color.RGBA{R: 120, G: 230, B: 120, A: 255}
	colChain = color.RGBA{R: 90, G: 170, B: 250, A: 255}
	colProbe = color.RGBA{R: 250, G: 90, B: 90, A: 255}
)

func (*Demo) Display(view scene.Sink, in, out any) {
	ip, ok := in.(*Input)
	if !ok {
		return
	}
	for _, p := range ip.Points {
		view.Circle(p, 0, colPoint, 2)
	}
	if op, ok := out.(*Output); ok && op != nil && len(op.Hull) > 1 {
		for i := range op.Hull {
			a := ip.Points[op.Hull[i]]
			b := ip.Points[op.Hull[(i+1)%len(op.Hull)]]
			view.Line(a, b, colHull, v2.Vec{}, v2.Vec{})
		}
	}
}

// Execute runs the monotone chain: sort by x then y, build the lower
// chain, then the upper, popping vertices that turn clockwise.
func (*Demo) Execute(view *scene.Visualizer, in any) any {
	ip, ok := in.(*Input)
	if !ok || len(ip.Points) < 3 {
		return &Output{}
	}

	order := make([]int, len(ip.Points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		pa, pb := ip.Points[order[a]], ip.Points[order[b]]
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		return pa.Y < pb.Y
	})

	var chain []int
	extend := func(idx, keep int) {
		for len(chain) > keep {
			a := ip.Points[chain[len(chain)-2]]
			b := ip.Points[chain[len(chain)-1]]
			if geom.Cross(a, b, ip.Points[idx]) > 0 {
				break
			}
			chain = chain[:len(chain)-1]
		}
		chain = append(chain, idx)
		drawChain(view, ip, chain, idx)
		view.Step()
	}

	for _, idx := range order {
		extend(idx, 1)
	}
	// Upper chain: walk back over the same points. Pops must not eat
	// into the finished lower chain, hence the keep floor.
	keep := len(chain)
	for i := len(order) - 2; i >= 0; i-- {
		extend(order[i], keep)
	}

	// First and last are the same vertex.
	hull := chain[:len(chain)-1]
	return &Output{Hull: hull}
}

func drawChain(view *scene.Visualizer, ip *Input, chain []int, active int) {
	for _, p := range ip.Points {
		view.Circle(p, 0, colPoint, 2)
	}
	for i := 0; i+1 < len(chain); i++ {
		view.Line(ip.Points[chain[i]], ip.Points[chain[i+1]], colChain, v2.Vec{}, v2.Vec{})
	}
	view.Circle(ip.Points[active], 0, colProbe, 4)
}

func (*Demo) TestCases() []harness.TestCase {
	return []harness.TestCase{
		{
			Name: "square-with-interior",
			Input: &Input{Points: []v2.Vec{
				{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
				{X: 5, Y: 5}, {X: 3, Y: 6},
			}},
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				if len(op.Hull) != 4 {
					return fmt.Errorf("expected 4 hull vertices, got %d: %v", len(op.Hull), op.Hull)
				}
				for _, idx := range op.Hull {
					if idx > 3 {
						return fmt.Errorf("interior point %d on hull: %v", idx, op.Hull)
					}
				}
				return nil
			},
		},
	}
}
