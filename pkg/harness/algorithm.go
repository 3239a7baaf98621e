// Package harness drives algorithm demos through a uniform lifecycle:
// input generation, stepped execution on a cooperative fiber, per-frame
// display, and optional input loading and self-testing. Input and Output
// values are opaque to the harness and typed per demo.
package harness

import (
	"fmt"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/input"
	"github.com/stepview/stepview/pkg/scene"
)

// Algorithm is the contract every demo implements.
//
// Generate must be deterministic given seed and have no side effects
// besides optionally drawing into view. Execute is the algorithm body:
// it may draw into view and call view.Step() at any granularity, and it
// must keep all working state on its own stack so repeated pause/resume
// cycles are transparent. Display renders a completed or in-progress
// result (output may be nil) and is called every frame, independent of
// stepping, into a separate buffer from the one Execute uses.
type Algorithm interface {
	Name() string
	Generate(seed int64, view scene.Sink) any
	Execute(view *scene.Visualizer, in any) any
	Display(view scene.Sink, in, out any)
}

// Loader is implemented by demos that can deserialize the x,y-per-line
// text input format.
type Loader interface {
	LoadInput(data []byte) (any, error)
}

// PointSource is implemented by demos whose input can be built from a
// bare point set, used by the script engine and point-file loading.
type PointSource interface {
	FromPoints(pts []v2.Vec) any
}

// KeyHandler is implemented by demos that react to keys the controller
// does not reserve (arrows, PageUp/PageDown by convention). HandleKey
// may mutate in and must report whether it did, so the controller can
// discard stale output.
type KeyHandler interface {
	HandleKey(ev input.Event, in any) bool
}

// TestCase is one named fixed input with an output check.
type TestCase struct {
	Name  string
	Input any
	Check func(out any) error
}

// SelfTester is implemented by demos carrying fixed regression cases for
// the non-interactive self-test mode.
type SelfTester interface {
	TestCases() []TestCase
}

// SelfTest runs every test case of algo to completion without stepping
// and returns the first check failure, or nil if all pass. Demos without
// test cases pass vacuously.
func SelfTest(algo Algorithm) error {
	st, ok := algo.(SelfTester)
	if !ok {
		return nil
	}
	for _, tc := range st.TestCases() {
		view := scene.NewVisualizer()
		out := algo.Execute(view, tc.Input)
		if err := tc.Check(out); err != nil {
			return fmt.Errorf("%s: case %q: %w", algo.Name(), tc.Name, err)
		}
	}
	return nil
}

// MenuName is the reserved registry name of the root menu app.
const MenuName = "menu"

// Factory produces a fresh Algorithm instance.
type Factory func() Algorithm

var registry = map[string]Factory{}

// Register adds a demo factory under name. Demos register themselves
// from init functions; duplicate names are a programming error.
func Register(name string, f Factory) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("harness: duplicate registration of %q", name))
	}
	registry[name] = f
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns all registered demo names in sorted order, excluding the
// reserved menu name.
func Names() []string {
	var names []string
	for name := range registry {
		if name == MenuName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
