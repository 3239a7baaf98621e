package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/stepview/stepview/pkg/config"
	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/input"
	"github.com/stepview/stepview/pkg/raster"
	"github.com/stepview/stepview/pkg/scene"
	"github.com/stepview/stepview/pkg/script"

	// Demos register themselves with the harness; menu is imported by
	// name below and registers the same way.
	_ "github.com/stepview/stepview/pkg/demos/bsptree"
	_ "github.com/stepview/stepview/pkg/demos/gridpath"
	_ "github.com/stepview/stepview/pkg/demos/hull"
	_ "github.com/stepview/stepview/pkg/demos/satcollide"
	_ "github.com/stepview/stepview/pkg/demos/triflip"

	"github.com/stepview/stepview/pkg/demos/menu"
)

// App is the Wails backend. It exposes methods to the frontend via
// bindings and owns the single current algorithm instance.
type App struct {
	ctx    context.Context
	cfg    config.Config
	engine *script.Engine
	shots  *raster.Screenshots

	current *harness.Instance
	name    string
}

// NewApp creates the App with the root menu selected.
func NewApp(cfg config.Config) *App {
	a := &App{
		cfg:    cfg,
		engine: script.NewEngine(),
	}
	a.selectByName(harness.MenuName)
	return a
}

// startup is called by Wails on app startup. The context is saved so we
// can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// selectByName swaps the current instance for a fresh one of the named
// demo.
func (a *App) selectByName(name string) error {
	factory, ok := harness.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown demo %q", name)
	}
	a.current = harness.NewInstance(factory(), a.cfg.Seed)
	a.name = name
	return nil
}

// ListDemos returns the registered demo names.
func (a *App) ListDemos() []string {
	return harness.Names()
}

// CurrentDemo returns the name of the selected demo.
func (a *App) CurrentDemo() string {
	return a.name
}

// SelectDemo switches to the named demo, or back to the menu for the
// reserved name.
func (a *App) SelectDemo(name string) error {
	if err := a.selectByName(name); err != nil {
		log.Printf("SelectDemo: %v", err)
		return err
	}
	return nil
}

// PrimitiveData is the JSON-serializable form of one scene primitive
// sent to the frontend canvas.
type PrimitiveData struct {
	Kind  int     `json:"kind"`
	Ax    float64 `json:"ax"`
	Ay    float64 `json:"ay"`
	Bx    float64 `json:"bx"`
	By    float64 `json:"by"`
	R     float64 `json:"r"`
	Text  string  `json:"text,omitempty"`
	Color string  `json:"color"`
	InvAx float64 `json:"invAx"`
	InvAy float64 `json:"invAy"`
	InvBx float64 `json:"invBx"`
	InvBy float64 `json:"invBy"`
	InvR  float64 `json:"invR"`
}

// FrameData is one full frame for the frontend: the static display of
// the current input/output, overlaid by the most recent step frame.
type FrameData struct {
	Demo    string          `json:"demo"`
	ID      string          `json:"id"`
	State   string          `json:"state"`
	Seed    int64           `json:"seed"`
	Display []PrimitiveData `json:"display"`
	Step    []PrimitiveData `json:"step"`
}

func toPrimitiveData(f scene.Frame) []PrimitiveData {
	out := make([]PrimitiveData, 0, len(f))
	for _, p := range f {
		out = append(out, PrimitiveData{
			Kind: int(p.Kind),
			Ax:   p.A.X, Ay: p.A.Y,
			Bx: p.B.X, By: p.B.Y,
			R:    p.R,
			Text: p.Str,
			Color: fmt.Sprintf("rgba(%d,%d,%d,%.3f)",
				p.Color.R, p.Color.G, p.Color.B, float64(p.Color.A)/255),
			InvAx: p.InvA.X, InvAy: p.InvA.Y,
			InvBx: p.InvB.X, InvBy: p.InvB.Y,
			InvR: p.InvR,
		})
	}
	return out
}

// FramePayload renders the current instance's display frame and returns
// it together with the step front buffer. Called every frame by the
// frontend.
func (a *App) FramePayload() FrameData {
	return FrameData{
		Demo:    a.name,
		ID:      a.current.ID,
		State:   a.current.State().String(),
		Seed:    a.current.Seed(),
		Display: toPrimitiveData(a.current.DisplayFrame()),
		Step:    toPrimitiveData(a.current.StepFrame()),
	}
}

// Key routes one abstract key event from the frontend. While the menu
// is current, Return activates the highlighted demo instead of running
// the (empty) menu algorithm.
func (a *App) Key(pressed bool, keyName string) {
	ev := input.Event{Pressed: pressed, Key: input.ParseKey(keyName)}
	if ev.Key == input.KeyNone {
		return
	}
	if a.name == harness.MenuName && ev.Pressed && ev.Key == input.KeyReturn {
		if name := menu.SelectedName(a.current.Input()); name != "" {
			if err := a.selectByName(name); err != nil {
				log.Printf("menu select: %v", err)
			}
		}
		return
	}
	a.current.HandleKey(ev)
}

// EvalErrorData is a JSON-serializable script error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ScriptResult is returned by EvaluateScript.
type ScriptResult struct {
	Points int             `json:"points"`
	Errors []EvalErrorData `json:"errors"`
}

// EvaluateScript runs a point-set script and installs the resulting
// points as the current demo's input, if the demo accepts point sets.
func (a *App) EvaluateScript(source string) ScriptResult {
	result := ScriptResult{Errors: []EvalErrorData{}}

	pts, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("EvaluateScript fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Message: e.Message})
		}
		return result
	}

	result.Points = len(pts)
	if len(pts) == 0 {
		return result
	}
	src, ok := a.current.Algorithm().(harness.PointSource)
	if !ok {
		log.Printf("EvaluateScript: %s does not accept point sets", a.name)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: fmt.Sprintf("%s does not accept point sets", a.name),
		})
		return result
	}
	a.current.SetInput(src.FromPoints(pts))
	return result
}

// LoadInputFile loads the x,y-per-line text format from path into the
// current demo. The instance is left unchanged on failure.
func (a *App) LoadInputFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("LoadInputFile: %v", err)
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := a.current.LoadInput(data); err != nil {
		log.Printf("LoadInputFile: %v", err)
		return err
	}
	return nil
}

// Screenshot renders the current frame on the CPU and writes it as the
// next numbered bitmap, returning the file path.
func (a *App) Screenshot() (string, error) {
	if a.shots == nil {
		shots, err := raster.NewScreenshots(a.cfg.ScreenshotDir)
		if err != nil {
			log.Printf("Screenshot: %v", err)
			return "", err
		}
		a.shots = shots
	}
	cam := raster.DefaultCamera(a.cfg.Width, a.cfg.Height)
	img := raster.Render(
		[]scene.Frame{a.current.DisplayFrame(), a.current.StepFrame()},
		cam, a.cfg.Width, a.cfg.Height,
	)
	path, err := a.shots.Save(img)
	if err != nil {
		log.Printf("Screenshot: %v", err)
		return "", err
	}
	log.Printf("Screenshot: wrote %s", path)
	return path, nil
}

// Profile runs the profiling diagnostic on the current demo.
func (a *App) Profile(iters int) harness.ProfileReport {
	if iters <= 0 {
		iters = a.cfg.ProfileIters
	}
	return a.current.Profile(iters)
}

// RunSelfTests executes the fixed test cases of every registered demo
// and returns the failures, empty when everything passes.
func (a *App) RunSelfTests() []string {
	var failures []string
	for _, name := range harness.Names() {
		factory, _ := harness.Lookup(name)
		if err := harness.SelfTest(factory()); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}
