// Package gridpath is the pathfinding demo: A* over a seeded random
// obstacle grid with 4-connected movement. Every node expansion is one
// visualization step.
package gridpath

import (
	"container/heap"
	"fmt"
	"image/color"
	"math/rand"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/scene"
)

func init() {
	harness.Register("gridpath", func() harness.Algorithm { return &Demo{} })
}

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Input is the obstacle grid with start and goal cells.
type Input struct {
	W, H    int
	Walls   []bool // row-major, true = blocked
	Start   Cell
	Goal    Cell
}

// Wall reports whether c is blocked or out of bounds.
func (in *Input) Wall(c Cell) bool {
	if c.X < 0 || c.Y < 0 || c.X >= in.W || c.Y >= in.H {
		return true
	}
	return in.Walls[c.Y*in.W+c.X]
}

// Output is the found path (empty when unreachable) and the number of
// expanded nodes.
type Output struct {
	Path     []Cell
	Expanded int
}

// Demo implements the harness contract.
type Demo struct{}

var (
	_ harness.Algorithm  = (*Demo)(nil)
	_ harness.SelfTester = (*Demo)(nil)
)

func (*Demo) Name() string { return "gridpath" }

const (
	gridW       = 24
	gridH       = 24
	wallDensity = 0.28
)

func (*Demo) Generate(seed int64, view scene.Sink) any {
	rng := rand.New(rand.NewSource(seed))
	in := &Input{
		W:     gridW,
		H:     gridH,
		Walls: make([]bool, gridW*gridH),
		Start: Cell{X: 1, Y: 1},
		Goal:  Cell{X: gridW - 2, Y: gridH - 2},
	}
	for i := range in.Walls {
		in.Walls[i] = rng.Float64() < wallDensity
	}
	in.Walls[in.Start.Y*gridW+in.Start.X] = false
	in.Walls[in.Goal.Y*gridW+in.Goal.X] = false
	return in
}

// cellSize is the world size of one grid cell; the grid is centered on
// the origin.
const cellSize = 1.25

func cellCenter(in *Input, c Cell) v2.Vec {
	return v2.Vec{
		X: (float64(c.X) - float64(in.W-1)/2) * cellSize,
		Y: (float64(c.Y) - float64(in.H-1)/2) * cellSize,
	}
}

var (
	colWall   = color.RGBA{R: 120, G: 125, B: 140, A: 255}
	colStart  = color.RGBA{R: 120, G: 230, B: 120, A: 255}
	colGoal   = color.RGBA{R: 250, G: 90, B: 90, A: 255}
	colOpen   = color.RGBA{R: 90, G: 170, B: 250, A: 255}
	colClosed = color.RGBA{R: 60, G: 85, B: 120, A: 255}
	colPath   = color.RGBA{R: 255, G: 180, B: 40, A: 255}
)

func drawGrid(view scene.Sink, in *Input) {
	half := v2.Vec{X: cellSize * 0.45, Y: cellSize * 0.45}
	for y := 0; y < in.H; y++ {
		for x := 0; x < in.W; x++ {
			if in.Walls[y*in.W+x] {
				c := cellCenter(in, Cell{X: x, Y: y})
				view.Rect(c.Sub(half), half.MulScalar(2), colWall, v2.Vec{})
			}
		}
	}
	view.Circle(cellCenter(in, in.Start), 0, colStart, 4)
	view.Circle(cellCenter(in, in.Goal), 0, colGoal, 4)
}

func (*Demo) Display(view scene.Sink, in, out any) {
	ip, ok := in.(*Input)
	if !ok {
		return
	}
	drawGrid(view, ip)
	if op, ok := out.(*Output); ok && op != nil {
		for i := 0; i+1 < len(op.Path); i++ {
			view.Line(cellCenter(ip, op.Path[i]), cellCenter(ip, op.Path[i+1]), colPath, v2.Vec{}, v2.Vec{})
		}
		view.Text(v2.Vec{Y: -float64(ip.H) / 2 * cellSize}, fmt.Sprintf("expanded %d", op.Expanded), colOpen, v2.Vec{X: 0, Y: -14})
	}
}

// pqItem is one open-set entry.
type pqItem struct {
	cell Cell
	f    float64
}

// openSet is a min-heap over f cost.
type openSet []pqItem

func (o openSet) Len() int            { return len(o) }
func (o openSet) Less(i, j int) bool  { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int)       { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)         { *o = append(*o, x.(pqItem)) }
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	it := old[n-1]
	*o = old[:n-1]
	return it
}

func manhattan(a, b Cell) float64 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return float64(dx + dy)
}

// Execute runs A* from start to goal. Stale heap entries are skipped on
// pop rather than updated in place.
func (*Demo) Execute(view *scene.Visualizer, in any) any {
	ip, ok := in.(*Input)
	if !ok {
		return &Output{}
	}

	gScore := map[Cell]float64{ip.Start: 0}
	cameFrom := map[Cell]Cell{}
	closed := map[Cell]bool{}

	open := &openSet{{cell: ip.Start, f: manhattan(ip.Start, ip.Goal)}}
	heap.Init(open)

	expanded := 0
	for open.Len() > 0 {
		it := heap.Pop(open).(pqItem)
		cur := it.cell
		if closed[cur] {
			continue
		}
		closed[cur] = true
		expanded++

		drawGrid(view, ip)
		for c := range closed {
			view.Circle(cellCenter(ip, c), 0, colClosed, 2)
		}
		for _, o := range *open {
			view.Circle(cellCenter(ip, o.cell), 0, colOpen, 2)
		}
		view.Circle(cellCenter(ip, cur), 0, colPath, 4)
		view.Step()

		if cur == ip.Goal {
			return &Output{Path: reconstruct(cameFrom, cur), Expanded: expanded}
		}

		for _, d := range [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			next := Cell{X: cur.X + d.X, Y: cur.Y + d.Y}
			if ip.Wall(next) || closed[next] {
				continue
			}
			g := gScore[cur] + 1
			if old, seen := gScore[next]; seen && g >= old {
				continue
			}
			gScore[next] = g
			cameFrom[next] = cur
			heap.Push(open, pqItem{cell: next, f: g + manhattan(next, ip.Goal)})
		}
	}

	// Unreachable goal: empty path.
	return &Output{Expanded: expanded}
}

func reconstruct(cameFrom map[Cell]Cell, cur Cell) []Cell {
	path := []Cell{cur}
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// Reverse into start-to-goal order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (*Demo) TestCases() []harness.TestCase {
	open := func(w, h int) *Input {
		return &Input{
			W: w, H: h,
			Walls: make([]bool, w*h),
			Start: Cell{X: 0, Y: 0},
			Goal:  Cell{X: w - 1, Y: h - 1},
		}
	}
	return []harness.TestCase{
		{
			Name:  "open-grid-shortest-path",
			Input: open(6, 6),
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				// Manhattan distance 10 means 11 cells.
				if len(op.Path) != 11 {
					return fmt.Errorf("expected path of 11 cells, got %d", len(op.Path))
				}
				return nil
			},
		},
		{
			Name: "walled-off-goal",
			Input: func() *Input {
				in := open(5, 5)
				for y := 0; y < 5; y++ {
					in.Walls[y*5+2] = true
				}
				return in
			}(),
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				if len(op.Path) != 0 {
					return fmt.Errorf("expected no path, got %v", op.Path)
				}
				return nil
			},
		},
	}
}
