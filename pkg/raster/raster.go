// Package raster renders scene frames into images on the CPU. It backs
// the screenshot feature and headless rendering in tests; the
// interactive path draws the same frames on the frontend canvas.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/stepview/stepview/pkg/scene"
)

// Camera maps world coordinates to screen pixels. Scale is pixels per
// world unit. Screen y grows downward; world y grows upward.
type Camera struct {
	Center v2.Vec
	Scale  float64
}

// DefaultCamera frames roughly a 40-unit world square in a window of
// the given pixel size.
func DefaultCamera(w, h int) Camera {
	size := w
	if h < size {
		size = h
	}
	return Camera{Scale: float64(size) / 40}
}

// ToScreen maps a world point plus an invariant pixel offset to screen
// coordinates. The invariant offset is applied after the world
// transform, so it is unaffected by Scale; its y component points up,
// matching world orientation.
func (c Camera) ToScreen(p, inv v2.Vec, w, h int) (float64, float64) {
	x := (p.X-c.Center.X)*c.Scale + float64(w)/2 + inv.X
	y := float64(h)/2 - (p.Y-c.Center.Y)*c.Scale - inv.Y
	return x, y
}

var background = color.RGBA{R: 16, G: 18, B: 24, A: 255}

// Render draws the given frames in order into a new RGBA image. Later
// frames and later primitives within a frame overdraw earlier ones.
func Render(frames []scene.Frame, cam Camera, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	for _, frame := range frames {
		for _, p := range frame {
			drawPrimitive(img, cam, p)
		}
	}
	return img
}

func drawPrimitive(img *image.RGBA, cam Camera, p scene.Primitive) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	switch p.Kind {
	case scene.KindLine:
		x0, y0 := cam.ToScreen(p.A, p.InvA, w, h)
		x1, y1 := cam.ToScreen(p.B, p.InvB, w, h)
		drawLine(img, x0, y0, x1, y1, p.Color)
	case scene.KindRect:
		// A is the origin, B the world-space size; InvB an invariant
		// pixel size added on top.
		x0, y0 := cam.ToScreen(p.A, v2.Vec{}, w, h)
		sw := p.B.X*cam.Scale + p.InvB.X
		sh := p.B.Y*cam.Scale + p.InvB.Y
		drawRect(img, x0, y0-sh, sw, sh, p.Color)
	case scene.KindCircle:
		cx, cy := cam.ToScreen(p.A, v2.Vec{}, w, h)
		r := p.R*cam.Scale + p.InvR
		drawCircle(img, cx, cy, r, p.Color)
	case scene.KindText:
		x, y := cam.ToScreen(p.A, p.InvA, w, h)
		drawText(img, x, y, p.Str, p.Color)
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLine is a DDA line rasterizer; exact endpoints matter less here
// than stable behavior for the near-degenerate segments demos emit.
func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		setPixel(img, int(math.Round(x0)), int(math.Round(y0)), c)
		return
	}
	n := int(steps)
	for i := 0; i <= n; i++ {
		t := float64(i) / steps
		setPixel(img, int(math.Round(x0+dx*t)), int(math.Round(y0+dy*t)), c)
	}
}

func drawRect(img *image.RGBA, x, y, w, h float64, c color.RGBA) {
	drawLine(img, x, y, x+w, y, c)
	drawLine(img, x+w, y, x+w, y+h, c)
	drawLine(img, x+w, y+h, x, y+h, c)
	drawLine(img, x, y+h, x, y, c)
}

func drawCircle(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	if r <= 0 {
		setPixel(img, int(math.Round(cx)), int(math.Round(cy)), c)
		return
	}
	// Enough segments that adjacent samples are under a pixel apart.
	n := int(math.Ceil(2 * math.Pi * r))
	if n < 8 {
		n = 8
	}
	px := cx + r
	py := cy
	for i := 1; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := cx + r*math.Cos(a)
		y := cy + r*math.Sin(a)
		drawLine(img, px, py, x, y, c)
		px, py = x, y
	}
}

func drawText(img *image.RGBA, x, y float64, s string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(int(math.Round(x))),
			Y: fixed.I(int(math.Round(y))),
		},
	}
	d.DrawString(s)
}
