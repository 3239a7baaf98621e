package geom

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// normalizeExtent is the edge length of the square that ParsePoints
// rescales loaded point sets into.
const normalizeExtent = 30.0

// ParsePoints reads a point set from the text input format: one point per
// line as "x,y" with comma-separated floating point coordinates. Blank
// lines are tolerated. The returned points are auto-centered and
// uniformly rescaled to fit a 30-unit square.
func ParsePoints(data []byte) ([]v2.Vec, error) {
	var pts []v2.Vec
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		x, y, err := parsePointLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		pts = append(pts, v2.Vec{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("no points in input")
	}
	return NormalizePoints(pts), nil
}

func parsePointLine(line string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(line, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected \"x,y\", got %q", line)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x coordinate %q", xs)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y coordinate %q", ys)
	}
	return x, y, nil
}

// NormalizePoints centers pts on the origin and uniformly rescales them
// so the larger bounding-box extent becomes 30 units. Degenerate inputs
// (all points coincident) are centered but not scaled.
func NormalizePoints(pts []v2.Vec) []v2.Vec {
	min, max := Bounds(pts)
	center := min.Add(max).DivScalar(2)
	extent := max.Sub(min)
	longest := extent.X
	if extent.Y > longest {
		longest = extent.Y
	}
	scale := 1.0
	if longest > 0 {
		scale = normalizeExtent / longest
	}
	out := make([]v2.Vec, len(pts))
	for i, p := range pts {
		out[i] = p.Sub(center).MulScalar(scale)
	}
	return out
}
