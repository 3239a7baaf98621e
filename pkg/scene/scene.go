// Package scene defines the abstract drawing sink consumed by algorithm
// demos and the double-buffered visualizer that backs stepped execution.
//
// Primitives carry optional "invariant" screen-space offsets and sizes:
// pixel quantities that render at constant size regardless of camera
// zoom, used for crosshairs, labels and markers.
package scene

import (
	"image/color"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Kind discriminates the primitive variants.
type Kind int

const (
	KindLine Kind = iota
	KindRect
	KindCircle
	KindText
)

// Primitive is one drawable command. It is immutable once appended to a
// frame. A and B are a line's endpoints, a rect's origin and size, a
// circle's center (B unused), or a text position. InvA and InvB are the
// screen-space invariant offsets matching A and B; InvR is an invariant
// radius or size for circles and rects.
type Primitive struct {
	Kind  Kind
	A, B  v2.Vec
	R     float64
	Str   string
	Color color.RGBA

	InvA, InvB v2.Vec
	InvR       float64
}

// Frame is an ordered sequence of primitives forming one fully-formed
// visual state. Order is submission order; later primitives may overdraw
// earlier ones.
type Frame []Primitive

// Sink is the abstract drawing surface demos draw into. Invariant
// parameters are screen-space pixel quantities; pass zero values for
// plain world-space drawing.
type Sink interface {
	Line(a, b v2.Vec, c color.RGBA, invA, invB v2.Vec)
	Rect(origin, size v2.Vec, c color.RGBA, invSize v2.Vec)
	Circle(center v2.Vec, radius float64, c color.RGBA, invRadius float64)
	Text(pos v2.Vec, s string, c color.RGBA, invOff v2.Vec)
}

// NullSink discards all primitives. It is the drawing target whenever no
// algorithm step is actively executing, so stray draw calls cannot
// accumulate anywhere.
type NullSink struct{}

// Compile-time interface check.
var _ Sink = NullSink{}

func (NullSink) Line(a, b v2.Vec, c color.RGBA, invA, invB v2.Vec)          {}
func (NullSink) Rect(origin, size v2.Vec, c color.RGBA, invSize v2.Vec)     {}
func (NullSink) Circle(center v2.Vec, r float64, c color.RGBA, ir float64)  {}
func (NullSink) Text(pos v2.Vec, s string, c color.RGBA, invOff v2.Vec)     {}
