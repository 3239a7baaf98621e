package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stepview/stepview/pkg/config"
	"github.com/stepview/stepview/pkg/demos/triflip"
	"github.com/stepview/stepview/pkg/harness"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Width:         320,
		Height:        200,
		Seed:          1,
		ScreenshotDir: t.TempDir(),
		ProfileIters:  3,
	}
}

func TestNewAppStartsAtMenu(t *testing.T) {
	a := NewApp(testConfig(t))
	if a.CurrentDemo() != harness.MenuName {
		t.Fatalf("initial demo %q, want the menu", a.CurrentDemo())
	}
	payload := a.FramePayload()
	if payload.Demo != harness.MenuName {
		t.Fatalf("payload demo %q", payload.Demo)
	}
	if len(payload.Display) == 0 {
		t.Fatal("menu display frame is empty")
	}
}

func TestFramePayloadCarriesInstanceID(t *testing.T) {
	a := NewApp(testConfig(t))
	first := a.FramePayload()
	if first.ID == "" {
		t.Fatal("payload has no instance id")
	}
	if err := a.SelectDemo("hull"); err != nil {
		t.Fatal(err)
	}
	second := a.FramePayload()
	if second.ID == "" || second.ID == first.ID {
		t.Fatalf("fresh instance kept id %q", second.ID)
	}
}

func TestListDemos(t *testing.T) {
	a := NewApp(testConfig(t))
	names := a.ListDemos()
	want := map[string]bool{
		"bsptree": true, "gridpath": true, "hull": true,
		"satcollide": true, "triflip": true,
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected demo %q in %v", n, names)
		}
		delete(want, n)
	}
	for n := range want {
		t.Fatalf("demo %q missing from %v", n, names)
	}
}

func TestSelectDemo(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("triflip"); err != nil {
		t.Fatal(err)
	}
	if a.CurrentDemo() != "triflip" {
		t.Fatalf("current demo %q", a.CurrentDemo())
	}
	if err := a.SelectDemo("no-such-demo"); err == nil {
		t.Fatal("unknown demo accepted")
	}
	if a.CurrentDemo() != "triflip" {
		t.Fatal("failed selection changed the current demo")
	}
}

func TestKeyDrivenStepping(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("triflip"); err != nil {
		t.Fatal(err)
	}

	if got := a.FramePayload().State; got != "idle" {
		t.Fatalf("fresh instance state %q", got)
	}

	a.Key(true, "Space")
	payload := a.FramePayload()
	if payload.State != "running" {
		t.Fatalf("after one step state %q", payload.State)
	}
	if len(payload.Step) == 0 {
		t.Fatal("no step frame after stepping")
	}

	a.Key(true, "Return")
	if got := a.FramePayload().State; got != "finished" {
		t.Fatalf("after run-to-end state %q", got)
	}
	if a.current.Output() == nil {
		t.Fatal("finished run produced no output")
	}
}

func TestKeyReleaseIgnored(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("triflip"); err != nil {
		t.Fatal(err)
	}
	a.Key(false, "Space")
	if got := a.FramePayload().State; got != "idle" {
		t.Fatalf("key release advanced the run: state %q", got)
	}
	a.Key(true, "unmapped-key")
	if got := a.FramePayload().State; got != "idle" {
		t.Fatalf("unmapped key advanced the run: state %q", got)
	}
}

func TestMenuReturnActivatesSelection(t *testing.T) {
	a := NewApp(testConfig(t))
	names := a.ListDemos()

	// Highlight the second entry, then confirm.
	a.Key(true, "Down")
	a.Key(true, "Return")
	if a.CurrentDemo() != names[1] {
		t.Fatalf("activated %q, want %q", a.CurrentDemo(), names[1])
	}

	// Back to the menu; the fresh menu starts at the top again.
	if err := a.SelectDemo(harness.MenuName); err != nil {
		t.Fatal(err)
	}
	a.Key(true, "Return")
	if a.CurrentDemo() != names[0] {
		t.Fatalf("activated %q, want %q", a.CurrentDemo(), names[0])
	}
}

func TestEvaluateScriptInstallsPoints(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("triflip"); err != nil {
		t.Fatal(err)
	}

	res := a.EvaluateScript("(point 0 0) (point 8 0) (point 0 8)")
	if len(res.Errors) != 0 {
		t.Fatalf("script errors: %v", res.Errors)
	}
	if res.Points != 3 {
		t.Fatalf("points = %d, want 3", res.Points)
	}
	in, ok := a.current.Input().(*triflip.Input)
	if !ok {
		t.Fatalf("input not installed: %T", a.current.Input())
	}
	if len(in.Points) != 3 {
		t.Fatalf("installed %d points, want 3", len(in.Points))
	}
}

func TestEvaluateScriptReportsErrors(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("triflip"); err != nil {
		t.Fatal(err)
	}
	res := a.EvaluateScript("(point 1)")
	if len(res.Errors) == 0 {
		t.Fatal("bad arity produced no errors")
	}
	if res.Points != 0 {
		t.Fatalf("failed script reported %d points", res.Points)
	}
}

func TestEvaluateScriptOnNonPointDemo(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("gridpath"); err != nil {
		t.Fatal(err)
	}
	res := a.EvaluateScript("(point 1 2)")
	if len(res.Errors) == 0 {
		t.Fatal("point script on a grid demo reported no error")
	}
}

func TestLoadInputFile(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("triflip"); err != nil {
		t.Fatal(err)
	}
	if err := a.LoadInputFile(filepath.Join("examples", "algo.in")); err != nil {
		t.Fatal(err)
	}
	in := a.current.Input().(*triflip.Input)
	if len(in.Points) != 3 {
		t.Fatalf("loaded %d points, want 3", len(in.Points))
	}

	if err := a.LoadInputFile(filepath.Join(t.TempDir(), "missing.in")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadInputFileRejectsGarbage(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("triflip"); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(t.TempDir(), "bad.in")
	if err := os.WriteFile(bad, []byte("this is not a point\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := a.LoadInputFile(bad); err == nil {
		t.Fatal("malformed input file accepted")
	}
}

func TestScreenshot(t *testing.T) {
	cfg := testConfig(t)
	a := NewApp(cfg)
	if err := a.SelectDemo("hull"); err != nil {
		t.Fatal(err)
	}
	path, err := a.Screenshot()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(path, cfg.ScreenshotDir) {
		t.Fatalf("screenshot %q outside %q", path, cfg.ScreenshotDir)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("screenshot file is empty")
	}
}

func TestProfile(t *testing.T) {
	a := NewApp(testConfig(t))
	if err := a.SelectDemo("hull"); err != nil {
		t.Fatal(err)
	}
	report := a.Profile(0)
	if report.Iterations != 3 {
		t.Fatalf("iterations = %d, want the configured 3", report.Iterations)
	}
	if got := a.FramePayload().State; got != "idle" {
		t.Fatalf("profiling disturbed the instance: state %q", got)
	}
}

func TestRunSelfTests(t *testing.T) {
	a := NewApp(testConfig(t))
	if failures := a.RunSelfTests(); len(failures) != 0 {
		t.Fatalf("self tests failed: %v", failures)
	}
}
