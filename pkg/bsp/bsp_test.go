package bsp

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/geom"
)

// planeX0 faces +x: points with x > 0 are in front.
var planeX0 = geom.Plane{N: v2.Vec{X: 1}, D: 0}

func TestClassifySplit(t *testing.T) {
	// Endpoints at signed distances +5 and -3: split at ratio 5/8 from
	// the positive endpoint.
	f := geom.Segment{A: v2.Vec{X: 5, Y: 0}, B: v2.Vec{X: -3, Y: 8}}
	side, front, back := Classify(f, planeX0)
	if side != SideSplit {
		t.Fatalf("side = %v, want split", side)
	}
	wantMid := v2.Vec{X: 0, Y: 5}
	if !geom.NearlyEqual(front.B, wantMid) || !geom.NearlyEqual(back.A, wantMid) {
		t.Errorf("crossing point: front.B=%v back.A=%v, want %v", front.B, back.A, wantMid)
	}
	if !geom.NearlyEqual(front.A, f.A) || !geom.NearlyEqual(back.B, f.B) {
		t.Errorf("sub-face endpoints lost: front=%v back=%v", front, back)
	}
}

func TestClassifyPositive(t *testing.T) {
	f := geom.Segment{A: v2.Vec{X: 5}, B: v2.Vec{X: 3}}
	if side, _, _ := Classify(f, planeX0); side != Positive {
		t.Fatalf("side = %v, want positive", side)
	}
}

func TestClassifyNegative(t *testing.T) {
	f := geom.Segment{A: v2.Vec{X: -5}, B: v2.Vec{X: -3}}
	if side, _, _ := Classify(f, planeX0); side != Negative {
		t.Fatalf("side = %v, want negative", side)
	}
}

func TestClassifyNearCoincident(t *testing.T) {
	// Both endpoints within the 1e-3 epsilon count as on the plane.
	f := geom.Segment{A: v2.Vec{X: 0.0001, Y: 0}, B: v2.Vec{X: 0.0002, Y: 1}}
	if side, _, _ := Classify(f, planeX0); side != Coincident {
		t.Fatalf("side = %v, want coincident", side)
	}
}

func TestClassifyTouchingEndpointNotSplit(t *testing.T) {
	// One endpoint on the plane, the other in front: positive, no split.
	f := geom.Segment{A: v2.Vec{X: 0}, B: v2.Vec{X: 4}}
	if side, _, _ := Classify(f, planeX0); side != Positive {
		t.Fatalf("side = %v, want positive", side)
	}
}

// cwSquare returns a clockwise square of half-extent r, so its interior
// is solid (back side of every face).
func cwSquare(r float64) []geom.Segment {
	return []geom.Segment{
		{A: v2.Vec{X: -r, Y: -r}, B: v2.Vec{X: -r, Y: r}},
		{A: v2.Vec{X: -r, Y: r}, B: v2.Vec{X: r, Y: r}},
		{A: v2.Vec{X: r, Y: r}, B: v2.Vec{X: r, Y: -r}},
		{A: v2.Vec{X: r, Y: -r}, B: v2.Vec{X: -r, Y: -r}},
	}
}

func TestBuildCoincidentInvariant(t *testing.T) {
	tree := Build(cwSquare(5))
	if tree == nil {
		t.Fatal("nil tree from non-empty faces")
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		for _, f := range n.Coincident {
			if side, _, _ := Classify(f, n.Plane); side != Coincident {
				t.Errorf("stored face %v classifies as %v against its node plane", f, side)
			}
		}
		walk(n.Front)
		walk(n.Back)
	}
	walk(tree)
	if got := CountFaces(tree); got != 4 {
		t.Errorf("CountFaces = %d, want 4", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	if Build(nil) != nil {
		t.Fatal("expected nil tree for empty face list")
	}
}

func TestRaycastEmptyLeaf(t *testing.T) {
	tree := Build(cwSquare(5))
	// Fully outside the square, never entering solid space.
	got := Raycast(v2.Vec{X: -20, Y: 8}, v2.Vec{X: 20, Y: 8}, tree)
	if got != 1 {
		t.Fatalf("fraction = %v, want 1.0", got)
	}
}

func TestRaycastSolidLeaf(t *testing.T) {
	tree := Build(cwSquare(5))
	// Starting inside the solid interior: fully blocked.
	got := Raycast(v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 1}, tree)
	if got != 0 {
		t.Fatalf("fraction = %v, want 0.0", got)
	}
}

func TestRaycastEntersSolid(t *testing.T) {
	tree := Build(cwSquare(5))
	// From x=-15 to x=5 along y=0: stops at the x=-5 wall, half way.
	got := Raycast(v2.Vec{X: -15, Y: 0}, v2.Vec{X: 5, Y: 0}, tree)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("fraction = %v, want 0.5", got)
	}
}

func TestRaycastNilTree(t *testing.T) {
	if got := Raycast(v2.Vec{}, v2.Vec{X: 1}, nil); got != 1 {
		t.Fatalf("fraction = %v, want 1.0 in empty space", got)
	}
}

func TestChooseSplitterBalances(t *testing.T) {
	// Faces clustered left and right plus one vertical face in the
	// middle; the middle face's plane is the only one that balances.
	faces := []geom.Segment{
		{A: v2.Vec{X: -10, Y: 0}, B: v2.Vec{X: -9, Y: 0}},
		{A: v2.Vec{X: -8, Y: 2}, B: v2.Vec{X: -7, Y: 2}},
		{A: v2.Vec{X: 0, Y: -1}, B: v2.Vec{X: 0, Y: 1}},
		{A: v2.Vec{X: 9, Y: 0}, B: v2.Vec{X: 10, Y: 0}},
		{A: v2.Vec{X: 7, Y: 2}, B: v2.Vec{X: 8, Y: 2}},
	}
	if got := ChooseSplitter(faces); got != 2 {
		t.Fatalf("splitter = %d, want 2", got)
	}
}

func TestChooseSplitterTieBreaksFirst(t *testing.T) {
	// Two parallel horizontal faces: each scores zero against the
	// other (coincident planes aside, both see one coincident, zero
	// front, zero back). First in input order must win.
	faces := []geom.Segment{
		{A: v2.Vec{X: 0, Y: 0}, B: v2.Vec{X: 1, Y: 0}},
		{A: v2.Vec{X: 0, Y: 5}, B: v2.Vec{X: 1, Y: 5}},
	}
	if got := ChooseSplitter(faces); got != 0 {
		t.Fatalf("splitter = %d, want first-in-order 0", got)
	}
}
