// Package triflip is the flip-based Delaunay triangulation demo:
// incremental insertion into a super-triangle followed by Lawson edge
// flips until the triangulation is locally Delaunay. Every insertion
// and every flip is a visualization step.
package triflip

import (
	"fmt"
	"image/color"
	"math/rand"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/geom"
	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/input"
	"github.com/stepview/stepview/pkg/scene"
)

func init() {
	harness.Register("triflip", func() harness.Algorithm { return &Demo{} })
}

// Input is a point set plus the index of the currently selected point,
// movable with the arrow keys.
type Input struct {
	Points   []v2.Vec
	Selected int
}

// Output is the triangulation edge set over input point indices, each
// edge stored with the smaller index first and the set sorted.
type Output struct {
	Edges [][2]int
}

// Demo implements the harness contract.
type Demo struct{}

var (
	_ harness.Algorithm   = (*Demo)(nil)
	_ harness.Loader      = (*Demo)(nil)
	_ harness.PointSource = (*Demo)(nil)
	_ harness.KeyHandler  = (*Demo)(nil)
	_ harness.SelfTester  = (*Demo)(nil)
)

func (*Demo) Name() string { return "triflip" }

const generateCount = 24

// Generate scatters points uniformly in a 30-unit square.
func (*Demo) Generate(seed int64, view scene.Sink) any {
	rng := rand.New(rand.NewSource(seed))
	in := &Input{Points: make([]v2.Vec, generateCount)}
	for i := range in.Points {
		in.Points[i] = v2.Vec{
			X: (rng.Float64() - 0.5) * 30,
			Y: (rng.Float64() - 0.5) * 30,
		}
	}
	return in
}

// LoadInput parses the x,y-per-line text format.
func (*Demo) LoadInput(data []byte) (any, error) {
	pts, err := geom.ParsePoints(data)
	if err != nil {
		return nil, fmt.Errorf("triflip: %w", err)
	}
	return &Input{Points: pts}, nil
}

// FromPoints builds an input from a bare point set.
func (*Demo) FromPoints(pts []v2.Vec) any {
	return &Input{Points: pts}
}

// HandleKey moves the selected point with the arrows and cycles the
// selection with PageUp/PageDown.
func (*Demo) HandleKey(ev input.Event, in any) bool {
	ip, ok := in.(*Input)
	if !ok || len(ip.Points) == 0 {
		return false
	}
	const nudge = 1.0
	switch ev.Key {
	case input.KeyLeft:
		ip.Points[ip.Selected].X -= nudge
	case input.KeyRight:
		ip.Points[ip.Selected].X += nudge
	case input.KeyUp:
		ip.Points[ip.Selected].Y += nudge
	case input.KeyDown:
		ip.Points[ip.Selected].Y -= nudge
	case input.KeyPageUp:
		ip.Selected = (ip.Selected + 1) % len(ip.Points)
	case input.KeyPageDown:
		ip.Selected = (ip.Selected + len(ip.Points) - 1) % len(ip.Points)
	default:
		return false
	}
	return true
}

var (
	colPoint    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	colSelected = color.RGBA{R: 255, G: 180, B: 40, A: 255}
	colEdge     = color.RGBA{R: 90, G: 170, B: 250, A: 255}
	colActive   = color.RGBA{R: 250, G: 90, B: 90, A: 255}
	colSuper    = color.RGBA{R: 70, G: 75, B: 90, A: 255}
)

// Display draws the point set and, when present, the finished edge set.
func (*Demo) Display(view scene.Sink, in, out any) {
	ip, ok := in.(*Input)
	if !ok {
		return
	}
	if op, ok := out.(*Output); ok && op != nil {
		for _, e := range op.Edges {
			view.Line(ip.Points[e[0]], ip.Points[e[1]], colEdge, v2.Vec{}, v2.Vec{})
		}
	}
	for i, p := range ip.Points {
		c := colPoint
		if i == ip.Selected {
			c = colSelected
		}
		view.Circle(p, 0, c, 3)
	}
}

// Execute triangulates the input points. All working state lives on the
// call stack, so the harness can suspend it at any step.
func (*Demo) Execute(view *scene.Visualizer, in any) any {
	ip, ok := in.(*Input)
	if !ok || len(ip.Points) < 3 {
		return &Output{}
	}

	m := newMesh(ip.Points)
	for pi := 0; pi < len(ip.Points); pi++ {
		m.insert(pi, view)
	}

	return &Output{Edges: m.realEdges()}
}

// mesh is the working triangulation: the input points followed by the
// three super-triangle vertices, and the current CCW triangle list.
type mesh struct {
	pts  []v2.Vec
	n    int // count of real (input) points
	tris [][3]int
}

func newMesh(points []v2.Vec) *mesh {
	n := len(points)
	min, max := geom.Bounds(points)
	span := max.Sub(min)
	d := span.X
	if span.Y > d {
		d = span.Y
	}
	if d == 0 {
		d = 1
	}
	mid := min.Add(max).DivScalar(2)

	// A triangle comfortably containing every input point.
	pts := make([]v2.Vec, n, n+3)
	copy(pts, points)
	pts = append(pts,
		v2.Vec{X: mid.X - 20*d, Y: mid.Y - 10*d},
		v2.Vec{X: mid.X + 20*d, Y: mid.Y - 10*d},
		v2.Vec{X: mid.X, Y: mid.Y + 20*d},
	)
	return &mesh{
		pts:  pts,
		n:    n,
		tris: [][3]int{{n, n + 1, n + 2}},
	}
}

// locate returns the index of a triangle containing p, or the triangle
// whose centroid is nearest when numeric noise leaves p outside all of
// them.
func (m *mesh) locate(p v2.Vec) int {
	bestDist := -1.0
	best := 0
	for ti, t := range m.tris {
		a, b, c := m.pts[t[0]], m.pts[t[1]], m.pts[t[2]]
		if geom.Cross(a, b, p) >= -geom.Eps &&
			geom.Cross(b, c, p) >= -geom.Eps &&
			geom.Cross(c, a, p) >= -geom.Eps {
			return ti
		}
		d := geom.Centroid([]v2.Vec{a, b, c}).Sub(p).Length()
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = ti
		}
	}
	return best
}

// insert adds point pi, splitting its containing triangle and flipping
// until the neighborhood is Delaunay again.
func (m *mesh) insert(pi int, view *scene.Visualizer) {
	p := m.pts[pi]
	ti := m.locate(p)
	t := m.tris[ti]

	m.tris[ti] = m.tris[len(m.tris)-1]
	m.tris = m.tris[:len(m.tris)-1]
	m.addTri(t[0], t[1], pi)
	m.addTri(t[1], t[2], pi)
	m.addTri(t[2], t[0], pi)

	m.draw(view, pi)
	view.Step()

	m.legalize(pi, t[0], t[1], view)
	m.legalize(pi, t[1], t[2], view)
	m.legalize(pi, t[2], t[0], view)
}

// addTri appends triangle (a,b,c) with CCW orientation enforced.
// Zero-area slivers from on-edge insertions are kept; the flip pass
// removes them from relevance.
func (m *mesh) addTri(a, b, c int) {
	if geom.Cross(m.pts[a], m.pts[b], m.pts[c]) < 0 {
		a, b = b, a
	}
	m.tris = append(m.tris, [3]int{a, b, c})
}

// findTri returns the index of the triangle with vertices u, v and apex
// w in any order, or -1.
func (m *mesh) findTri(u, v, w int) int {
	for ti, t := range m.tris {
		if (t[0] == u || t[1] == u || t[2] == u) &&
			(t[0] == v || t[1] == v || t[2] == v) &&
			(t[0] == w || t[1] == w || t[2] == w) {
			return ti
		}
	}
	return -1
}

// opposite finds the triangle sharing edge u-v whose third vertex is
// not apex, returning that vertex, or -1 on a hull edge.
func (m *mesh) opposite(u, v, apex int) int {
	for _, t := range m.tris {
		hasU := t[0] == u || t[1] == u || t[2] == u
		hasV := t[0] == v || t[1] == v || t[2] == v
		if !hasU || !hasV {
			continue
		}
		for _, w := range t {
			if w != u && w != v && w != apex {
				return w
			}
		}
	}
	return -1
}

// legalize checks the edge u-v opposite the inserted point pi and flips
// it when the neighboring apex violates the circumcircle property,
// recursing into the two edges the flip exposes.
func (m *mesh) legalize(pi, u, v int, view *scene.Visualizer) {
	w := m.opposite(u, v, pi)
	if w < 0 {
		return
	}

	a, b, c := m.pts[pi], m.pts[u], m.pts[v]
	if geom.Cross(a, b, c) < 0 {
		b, c = c, b
		u, v = v, u
	}
	if !geom.InCircumcircle(a, b, c, m.pts[w]) {
		return
	}

	ti := m.findTri(pi, u, v)
	tj := m.findTri(u, v, w)
	if ti < 0 || tj < 0 {
		return
	}
	// Remove the higher index first so the lower stays valid.
	if ti < tj {
		ti, tj = tj, ti
	}
	m.removeTri(ti)
	m.removeTri(tj)
	m.addTri(pi, u, w)
	m.addTri(pi, w, v)

	m.draw(view, pi)
	view.Line(m.pts[pi], m.pts[w], colActive, v2.Vec{}, v2.Vec{})
	view.Step()

	m.legalize(pi, u, w, view)
	m.legalize(pi, w, v, view)
}

func (m *mesh) removeTri(ti int) {
	m.tris[ti] = m.tris[len(m.tris)-1]
	m.tris = m.tris[:len(m.tris)-1]
}

// draw submits the whole working triangulation, super-triangle edges
// dimmed, with the point being inserted highlighted.
func (m *mesh) draw(view *scene.Visualizer, pi int) {
	for _, t := range m.tris {
		for e := 0; e < 3; e++ {
			a, b := t[e], t[(e+1)%3]
			c := colEdge
			if a >= m.n || b >= m.n {
				c = colSuper
			}
			view.Line(m.pts[a], m.pts[b], c, v2.Vec{}, v2.Vec{})
		}
	}
	for i := 0; i < m.n; i++ {
		view.Circle(m.pts[i], 0, colPoint, 2)
	}
	view.Circle(m.pts[pi], 0, colActive, 4)
}

// realEdges collects the unique edges among input points, dropping
// every triangle that touches a super-triangle vertex.
func (m *mesh) realEdges() [][2]int {
	seen := map[[2]int]bool{}
	for _, t := range m.tris {
		if t[0] >= m.n || t[1] >= m.n || t[2] >= m.n {
			continue
		}
		for e := 0; e < 3; e++ {
			a, b := t[e], t[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			seen[[2]int{a, b}] = true
		}
	}
	edges := make([][2]int, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}

// TestCases carries the fixed regression inputs for self-test mode.
func (*Demo) TestCases() []harness.TestCase {
	return []harness.TestCase{
		{
			Name: "single-triangle",
			Input: &Input{Points: []v2.Vec{
				{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 0, Y: 8},
			}},
			Check: func(out any) error {
				return wantEdges(out, [][2]int{{0, 1}, {0, 2}, {1, 2}})
			},
		},
		{
			Name: "square",
			Input: &Input{Points: []v2.Vec{
				{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
			}},
			Check: func(out any) error {
				op, ok := out.(*Output)
				if !ok {
					return fmt.Errorf("expected *Output, got %T", out)
				}
				// Four sides plus one diagonal.
				if len(op.Edges) != 5 {
					return fmt.Errorf("expected 5 edges, got %d: %v", len(op.Edges), op.Edges)
				}
				return nil
			},
		},
	}
}

func wantEdges(out any, want [][2]int) error {
	op, ok := out.(*Output)
	if !ok {
		return fmt.Errorf("expected *Output, got %T", out)
	}
	if len(op.Edges) != len(want) {
		return fmt.Errorf("expected %d edges, got %d: %v", len(want), len(op.Edges), op.Edges)
	}
	for i := range want {
		if op.Edges[i] != want[i] {
			return fmt.Errorf("edge %d: expected %v, got %v", i, want[i], op.Edges[i])
		}
	}
	return nil
}
