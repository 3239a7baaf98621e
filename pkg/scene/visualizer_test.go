package scene

import (
	"image/color"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

var red = color.RGBA{R: 255, A: 255}

func TestStepPublishesAtomically(t *testing.T) {
	v := NewVisualizer()
	v.Line(v2.Vec{}, v2.Vec{X: 1}, red, v2.Vec{}, v2.Vec{})
	v.Circle(v2.Vec{X: 2}, 1, red, 0)
	v.Text(v2.Vec{}, "hi", red, v2.Vec{})

	if got := v.Front(); got != nil {
		t.Fatalf("front buffer visible before Step: %v", got)
	}

	v.Step()

	front := v.Front()
	if len(front) != 3 {
		t.Fatalf("expected 3 primitives in front buffer, got %d", len(front))
	}
	// Submission order must be preserved.
	wantKinds := []Kind{KindLine, KindCircle, KindText}
	for i, p := range front {
		if p.Kind != wantKinds[i] {
			t.Errorf("primitive %d: kind = %v, want %v", i, p.Kind, wantKinds[i])
		}
	}
	if v.Building() != 0 {
		t.Errorf("building buffer not empty after Step: %d primitives", v.Building())
	}
}

func TestStepReplacesFront(t *testing.T) {
	v := NewVisualizer()
	v.Circle(v2.Vec{}, 1, red, 0)
	v.Step()
	v.Rect(v2.Vec{}, v2.Vec{X: 2, Y: 2}, red, v2.Vec{})
	v.Step()

	front := v.Front()
	if len(front) != 1 || front[0].Kind != KindRect {
		t.Fatalf("front buffer not replaced wholesale: %v", front)
	}
}

func TestStepInvokesBoundYield(t *testing.T) {
	v := NewVisualizer()
	yields := 0
	v.Bind(func() { yields++ })
	v.Step()
	v.Step()
	if yields != 2 {
		t.Fatalf("yield called %d times, want 2", yields)
	}
}

func TestStepWithoutBindingIsSafe(t *testing.T) {
	v := NewVisualizer()
	v.Line(v2.Vec{}, v2.Vec{X: 1}, red, v2.Vec{}, v2.Vec{})
	v.Step() // must not panic with no yield bound
	if len(v.Front()) != 1 {
		t.Fatal("frame not published")
	}
}

func TestResetClearsEverything(t *testing.T) {
	v := NewVisualizer()
	yields := 0
	v.Bind(func() { yields++ })
	v.Circle(v2.Vec{}, 1, red, 0)
	v.Step()
	v.Reset()
	if v.Front() != nil || v.Building() != 0 {
		t.Fatal("Reset left state behind")
	}
	v.Step() // binding was cleared; must not fire
	if yields != 1 {
		t.Fatalf("yield fired %d times, want 1", yields)
	}
}

func TestNullSinkDiscards(t *testing.T) {
	var s Sink = NullSink{}
	s.Line(v2.Vec{}, v2.Vec{X: 1}, red, v2.Vec{}, v2.Vec{})
	s.Rect(v2.Vec{}, v2.Vec{X: 1, Y: 1}, red, v2.Vec{})
	s.Circle(v2.Vec{}, 1, red, 0)
	s.Text(v2.Vec{}, "gone", red, v2.Vec{})
}
