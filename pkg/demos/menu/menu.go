// Package menu is the reserved root app: a text list of every
// registered demo. Up/Down move the highlight; the app layer reads the
// selection when Return is pressed.
package menu

import (
	"image/color"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/harness"
	"github.com/stepview/stepview/pkg/input"
	"github.com/stepview/stepview/pkg/scene"
)

func init() {
	harness.Register(harness.MenuName, func() harness.Algorithm { return &Demo{} })
}

// Input is the demo name list and the highlighted index.
type Input struct {
	Names    []string
	Selected int
}

// Demo implements the harness contract. The menu has no algorithm to
// run: Execute returns immediately and Display does the work.
type Demo struct{}

var (
	_ harness.Algorithm  = (*Demo)(nil)
	_ harness.KeyHandler = (*Demo)(nil)
)

func (*Demo) Name() string { return harness.MenuName }

func (*Demo) Generate(seed int64, view scene.Sink) any {
	return &Input{Names: harness.Names()}
}

func (*Demo) Execute(view *scene.Visualizer, in any) any {
	return nil
}

var (
	colTitle    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	colEntry    = color.RGBA{R: 140, G: 150, B: 170, A: 255}
	colSelected = color.RGBA{R: 255, G: 180, B: 40, A: 255}
)

const lineHeight = 2.5

func (*Demo) Display(view scene.Sink, in, out any) {
	ip, ok := in.(*Input)
	if !ok {
		return
	}
	view.Text(v2.Vec{X: -10, Y: 14}, "stepview algorithm sandbox", colTitle, v2.Vec{})
	for i, name := range ip.Names {
		c := colEntry
		if i == ip.Selected {
			c = colSelected
			view.Text(v2.Vec{X: -12, Y: 10 - lineHeight*float64(i)}, ">", colSelected, v2.Vec{})
		}
		view.Text(v2.Vec{X: -10, Y: 10 - lineHeight*float64(i)}, name, c, v2.Vec{})
	}
}

// HandleKey moves the highlight. Selection confirmation is Return,
// which the controller reserves; the app layer watches for it while the
// menu is current.
func (*Demo) HandleKey(ev input.Event, in any) bool {
	ip, ok := in.(*Input)
	if !ok || len(ip.Names) == 0 {
		return false
	}
	switch ev.Key {
	case input.KeyUp:
		ip.Selected = (ip.Selected + len(ip.Names) - 1) % len(ip.Names)
	case input.KeyDown:
		ip.Selected = (ip.Selected + 1) % len(ip.Names)
	default:
		return false
	}
	return true
}

// SelectedName returns the highlighted demo name, or "" for an empty
// menu.
func SelectedName(in any) string {
	ip, ok := in.(*Input)
	if !ok || len(ip.Names) == 0 {
		return ""
	}
	return ip.Names[ip.Selected]
}
