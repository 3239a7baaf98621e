package satcollide

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/geom"
	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/scene"
)

func square(cx, cy, half float64) []v2.Vec {
	return []v2.Vec{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}
}

func execute(t *testing.T, in *Input) *Output {
	t.Helper()
	out, ok := (&Demo{}).Execute(scene.NewVisualizer(), in).(*Output)
	if !ok {
		t.Fatal("Execute did not return *Output")
	}
	return out
}

func TestOverlappingSquares(t *testing.T) {
	// B is 8 right of A, both 10 wide: 2 units of x overlap.
	out := execute(t, &Input{A: square(0, 0, 5), B: square(8, 0, 5)})
	if !out.Colliding {
		t.Fatal("overlapping squares reported separated")
	}
	if math.Abs(out.MTV.X-2) > geom.Eps || math.Abs(out.MTV.Y) > geom.Eps {
		t.Fatalf("MTV = %v, want (2,0)", out.MTV)
	}
}

func TestSeparatedSquares(t *testing.T) {
	out := execute(t, &Input{A: square(0, 0, 5), B: square(20, 0, 5)})
	if out.Colliding {
		t.Fatal("separated squares reported colliding")
	}
	if out.MTV != (v2.Vec{}) {
		t.Fatalf("separated pair has MTV %v", out.MTV)
	}
}

func TestTouchingSquaresCollide(t *testing.T) {
	// Shared edge at x=5. Projections overlap by exactly zero; SAT
	// treats a closed overlap as contact.
	out := execute(t, &Input{A: square(0, 0, 5), B: square(10, 0, 5)})
	if !out.Colliding {
		t.Fatal("edge contact reported separated")
	}
	if math.Abs(out.MTV.Length()) > geom.Eps {
		t.Fatalf("contact MTV should be near zero, got %v", out.MTV)
	}
}

func TestMTVSeparates(t *testing.T) {
	d := &Demo{}
	in := d.Generate(4, scene.NullSink{}).(*Input)
	out := execute(t, in)
	if !out.Colliding {
		return
	}
	// Pushing B by the MTV (plus a hair) must separate the pair.
	push := out.MTV.MulScalar(1.0 + 1e-6)
	moved := make([]v2.Vec, len(in.B))
	for i, p := range in.B {
		moved[i] = p.Add(push)
	}
	after := execute(t, &Input{A: in.A, B: moved})
	if after.Colliding && after.MTV.Length() > geom.Eps {
		t.Fatalf("pair still overlapping by %v after MTV push", after.MTV)
	}
}

func TestSelfTests(t *testing.T) {
	if err := harness.SelfTest(&Demo{}); err != nil {
		t.Fatal(err)
	}
}
