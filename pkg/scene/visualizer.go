package scene

import (
	"image/color"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Visualizer is a double-buffered Sink. Draw calls append to a building
// frame; Step moves the building frame into the front frame and then
// yields to whoever resumed the algorithm. The front frame is only ever
// replaced wholesale, never mutated while visible, so a renderer can
// never observe a partially-submitted frame.
type Visualizer struct {
	building Frame
	front    Frame
	yield    func()
}

// Compile-time interface check.
var _ Sink = (*Visualizer)(nil)

// NewVisualizer returns an empty visualizer with no yield binding.
func NewVisualizer() *Visualizer {
	return &Visualizer{}
}

// Bind installs the function Step calls after publishing the building
// frame. The harness binds this to the running fiber's Yield.
func (v *Visualizer) Bind(yield func()) {
	v.yield = yield
}

// Step publishes the building frame as the new front frame, clears the
// building frame, and suspends the caller via the bound yield function.
// This is the only suspension point an algorithm body has.
func (v *Visualizer) Step() {
	v.front = v.building
	v.building = nil
	if v.yield != nil {
		v.yield()
	}
}

// Front returns the currently published frame.
func (v *Visualizer) Front() Frame {
	return v.front
}

// Building returns the number of primitives accumulated since the last
// Step. Diagnostic only.
func (v *Visualizer) Building() int {
	return len(v.building)
}

// Reset discards both frames and the yield binding. Called before a
// fresh run and after a run finishes, so a finished algorithm leaves no
// stale step overlay behind.
func (v *Visualizer) Reset() {
	v.building = nil
	v.front = nil
	v.yield = nil
}

func (v *Visualizer) Line(a, b v2.Vec, c color.RGBA, invA, invB v2.Vec) {
	v.building = append(v.building, Primitive{
		Kind: KindLine, A: a, B: b, Color: c, InvA: invA, InvB: invB,
	})
}

func (v *Visualizer) Rect(origin, size v2.Vec, c color.RGBA, invSize v2.Vec) {
	v.building = append(v.building, Primitive{
		Kind: KindRect, A: origin, B: size, Color: c, InvB: invSize,
	})
}

func (v *Visualizer) Circle(center v2.Vec, radius float64, c color.RGBA, invRadius float64) {
	v.building = append(v.building, Primitive{
		Kind: KindCircle, A: center, R: radius, Color: c, InvR: invRadius,
	})
}

func (v *Visualizer) Text(pos v2.Vec, s string, c color.RGBA, invOff v2.Vec) {
	v.building = append(v.building, Primitive{
		Kind: KindText, A: pos, Str: s, Color: c, InvA: invOff,
	})
}
