package hull

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/geom"
	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/scene"
)

func execute(t *testing.T, pts []v2.Vec) *Output {
	t.Helper()
	out, ok := (&Demo{}).Execute(scene.NewVisualizer(), &Input{Points: pts}).(*Output)
	if !ok {
		t.Fatal("Execute did not return *Output")
	}
	return out
}

func TestSquareWithInteriorPoint(t *testing.T) {
	out := execute(t, []v2.Vec{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		{X: 5, Y: 5},
	})
	if len(out.Hull) != 4 {
		t.Fatalf("hull = %v, want the 4 corners", out.Hull)
	}
	for _, idx := range out.Hull {
		if idx == 4 {
			t.Fatalf("interior point on hull: %v", out.Hull)
		}
	}
}

func TestCollinearPointsDropped(t *testing.T) {
	out := execute(t, []v2.Vec{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
		{X: 10, Y: 10}, {X: 0, Y: 10},
	})
	for _, idx := range out.Hull {
		if idx == 1 {
			t.Fatalf("collinear midpoint kept: %v", out.Hull)
		}
	}
}

func TestHullIsConvexAndCCW(t *testing.T) {
	d := &Demo{}
	in := d.Generate(3, scene.NullSink{}).(*Input)
	out := execute(t, in.Points)
	h := out.Hull
	if len(h) < 3 {
		t.Fatalf("degenerate hull %v", h)
	}
	for i := range h {
		a := in.Points[h[i]]
		b := in.Points[h[(i+1)%len(h)]]
		c := in.Points[h[(i+2)%len(h)]]
		if geom.Cross(a, b, c) <= 0 {
			t.Fatalf("hull turn at %d is not counter-clockwise", i)
		}
	}
}

func TestAllPointsInsideHull(t *testing.T) {
	d := &Demo{}
	in := d.Generate(7, scene.NullSink{}).(*Input)
	out := execute(t, in.Points)
	h := out.Hull
	for pi, p := range in.Points {
		for i := range h {
			a := in.Points[h[i]]
			b := in.Points[h[(i+1)%len(h)]]
			if geom.Cross(a, b, p) < -geom.Eps {
				t.Fatalf("point %d outside hull edge %d-%d", pi, h[i], h[(i+1)%len(h)])
			}
		}
	}
}

func TestSelfTests(t *testing.T) {
	if err := harness.SelfTest(&Demo{}); err != nil {
		t.Fatal(err)
	}
}
