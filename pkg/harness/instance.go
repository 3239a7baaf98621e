package harness

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/stepview/stepview/pkg/fiber"
	"github.com/stepview/stepview/pkg/input"
	"github.com/stepview/stepview/pkg/scene"
)

// State is the controller state of an Instance.
type State int

const (
	Idle State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return "finished"
}

// Instance owns one algorithm's input/output pair, its fiber, and its
// two visualizers: one for step-wise internal visualization, one for the
// static before/after display. Exactly one of {controller, fiber} is
// ever logically active, so no locking guards this state.
type Instance struct {
	ID   string
	algo Algorithm
	seed int64

	in  any
	out any

	fib       *fiber.Fiber
	stepViz   *scene.Visualizer
	staticViz *scene.Visualizer
	state     State
}

// NewInstance creates an instance for algo and generates its initial
// input from seed.
func NewInstance(algo Algorithm, seed int64) *Instance {
	inst := &Instance{
		ID:        uuid.NewString(),
		algo:      algo,
		seed:      seed,
		stepViz:   scene.NewVisualizer(),
		staticViz: scene.NewVisualizer(),
	}
	inst.in = algo.Generate(seed, inst.staticViz)
	return inst
}

// Algorithm returns the wrapped demo.
func (inst *Instance) Algorithm() Algorithm { return inst.algo }

// State returns the controller state.
func (inst *Instance) State() State { return inst.state }

// Seed returns the seed the current input was generated from. Inputs
// loaded from files or scripts keep the previous seed.
func (inst *Instance) Seed() int64 { return inst.seed }

// Input returns the current opaque input value.
func (inst *Instance) Input() any { return inst.in }

// Output returns the current opaque output value; nil until a run has
// produced one.
func (inst *Instance) Output() any { return inst.out }

// StepFrame returns the front buffer of the step visualizer: the frame
// published by the algorithm's most recent Step call.
func (inst *Instance) StepFrame() scene.Frame { return inst.stepViz.Front() }

// DisplayFrame renders the static display of the current input/output
// and returns the resulting frame. Safe to call every frame whether or
// not a run is in progress.
func (inst *Instance) DisplayFrame() scene.Frame {
	inst.algo.Display(inst.staticViz, inst.in, inst.out)
	inst.staticViz.Step()
	return inst.staticViz.Front()
}

// start lazily creates the fiber wrapping Execute. The fiber's entry
// captures the instance so the output lands here when Execute returns.
func (inst *Instance) start() {
	inst.stepViz.Reset()
	inst.fib = fiber.New(func() {
		inst.out = inst.algo.Execute(inst.stepViz, inst.in)
	})
	inst.stepViz.Bind(inst.fib.Yield)
	inst.state = Running
}

// StepOnce resumes the algorithm until its next Step call or until it
// finishes. A no-op once the run has finished.
func (inst *Instance) StepOnce() {
	if inst.state == Finished {
		return
	}
	if inst.fib == nil {
		inst.start()
	}
	inst.fib.Resume()
	if inst.fib.Finished() {
		inst.finish()
	}
}

// RunToEnd resumes the algorithm in a tight loop until it finishes,
// without rendering intermediate steps. This is the non-interactive fast
// path used by profiling and regeneration draining.
func (inst *Instance) RunToEnd() {
	if inst.state == Finished {
		return
	}
	if inst.fib == nil {
		inst.start()
	}
	for !inst.fib.Finished() {
		inst.fib.Resume()
	}
	inst.finish()
}

// finish records completion and clears the step front buffer so the
// finished run leaves no stale step overlay over the static display.
func (inst *Instance) finish() {
	inst.state = Finished
	inst.stepViz.Reset()
}

// drain forces a running fiber to completion. Destroying a fiber with a
// live call stack would leak it; draining first is always safe.
func (inst *Instance) drain() {
	if inst.state == Running {
		inst.RunToEnd()
	}
}

// Regenerate drains any running fiber, then replaces the input with a
// freshly generated one and discards the fiber and output. The instance
// returns to Idle.
func (inst *Instance) Regenerate(seed int64) {
	inst.drain()
	inst.seed = seed
	inst.discardRun()
	inst.in = inst.algo.Generate(seed, inst.staticViz)
}

// SetInput drains any running fiber and installs in as the new input,
// discarding the fiber and output.
func (inst *Instance) SetInput(in any) {
	inst.drain()
	inst.discardRun()
	inst.in = in
}

func (inst *Instance) discardRun() {
	inst.fib = nil
	inst.out = nil
	inst.state = Idle
	inst.stepViz.Reset()
}

// LoadInput deserializes data through the demo's Loader and installs the
// result. Demos without a loader log the limitation and the instance is
// left unchanged.
func (inst *Instance) LoadInput(data []byte) error {
	l, ok := inst.algo.(Loader)
	if !ok {
		log.Printf("harness: %s [%s] has no input loader, ignoring load request", inst.algo.Name(), inst.ID)
		return nil
	}
	in, err := l.LoadInput(data)
	if err != nil {
		return err
	}
	inst.SetInput(in)
	return nil
}

// HandleKey routes one key event. Space single-steps, Return runs to
// completion, Home profiles, End regenerates with the next seed; other
// keys go to the demo's KeyHandler if it has one. Key-up events are
// dropped here; demos only see presses.
func (inst *Instance) HandleKey(ev input.Event) {
	if !ev.Pressed {
		return
	}
	switch ev.Key {
	case input.KeySpace:
		inst.StepOnce()
	case input.KeyReturn:
		inst.RunToEnd()
	case input.KeyHome:
		inst.Profile(defaultProfileIters)
	case input.KeyEnd:
		inst.Regenerate(inst.seed + 1)
	default:
		kh, ok := inst.algo.(KeyHandler)
		if !ok {
			return
		}
		if kh.HandleKey(ev, inst.in) {
			// Input mutated: any computed output is stale.
			inst.drain()
			inst.discardRun()
		}
	}
}

// defaultProfileIters is used when profiling is triggered interactively.
const defaultProfileIters = 100

// ProfileReport summarizes a profiling run.
type ProfileReport struct {
	Iterations int
	ExecuteMs  float64 // mean per-instance execute time
	TotalMs    float64 // mean per-instance generate+execute time
}

// Profile is a diagnostic that regenerates input across iters seeds and
// times the execute phase against the full generate+execute phase,
// reporting mean milliseconds per instance to the log. It runs on
// throwaway state and leaves the instance's input/output untouched.
func (inst *Instance) Profile(iters int) ProfileReport {
	if iters <= 0 {
		iters = defaultProfileIters
	}
	var execTotal, fullTotal time.Duration
	for i := 0; i < iters; i++ {
		seed := inst.seed + int64(i)
		t0 := time.Now()
		in := inst.algo.Generate(seed, scene.NullSink{})
		t1 := time.Now()
		inst.algo.Execute(scene.NewVisualizer(), in)
		t2 := time.Now()
		execTotal += t2.Sub(t1)
		fullTotal += t2.Sub(t0)
	}
	report := ProfileReport{
		Iterations: iters,
		ExecuteMs:  float64(execTotal.Microseconds()) / float64(iters) / 1000,
		TotalMs:    float64(fullTotal.Microseconds()) / float64(iters) / 1000,
	}
	log.Printf("harness: %s [%s] profile: %d iterations, %.3f ms/instance execute, %.3f ms/instance with generation",
		inst.algo.Name(), inst.ID, report.Iterations, report.ExecuteMs, report.TotalMs)
	return report
}
