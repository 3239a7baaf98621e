// Package geom provides the 2D geometric primitives shared by all demos:
// segments, oriented planes (lines in 2D), and epsilon-tolerant
// classification. Vectors come from the sdfx v2 package so the whole
// geometry layer shares one vector type.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Eps is the tolerance used when classifying points against planes.
// Distances smaller than Eps count as "on the plane".
const Eps = 1e-3

// Segment is a directed line segment from A to B.
type Segment struct {
	A, B v2.Vec
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.B.Sub(s.A).Length()
}

// Lerp returns the point at parameter t along the segment, with t=0 at A
// and t=1 at B.
func (s Segment) Lerp(t float64) v2.Vec {
	return s.A.Add(s.B.Sub(s.A).MulScalar(t))
}

// Plane is an oriented line in 2D in Hessian normal form: the set of
// points p with Dot(N, p) == D. N must be unit length. Points with
// Dot(N, p) > D lie on the positive (front) side.
type Plane struct {
	N v2.Vec
	D float64
}

// PlaneThrough constructs the plane supporting the segment a->b, oriented
// so that the positive side is to the left of the direction of travel.
func PlaneThrough(a, b v2.Vec) Plane {
	dir := b.Sub(a)
	n := v2.Vec{X: -dir.Y, Y: dir.X}.Normalize()
	return Plane{N: n, D: n.Dot(a)}
}

// Dist returns the signed distance from p to the plane. Positive values
// are on the front side.
func (pl Plane) Dist(p v2.Vec) float64 {
	return pl.N.Dot(p) - pl.D
}

// Side reports which side of the plane p lies on: +1 front, -1 back,
// 0 within Eps of the plane.
func (pl Plane) Side(p v2.Vec) int {
	d := pl.Dist(p)
	switch {
	case d > Eps:
		return 1
	case d < -Eps:
		return -1
	}
	return 0
}

// Cross returns the 2D cross product (z component) of b-a and c-a.
// Positive when a,b,c turn counter-clockwise.
func Cross(a, b, c v2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// InCircumcircle reports whether p lies strictly inside the circumcircle
// of triangle a,b,c. The triangle must be counter-clockwise.
func InCircumcircle(a, b, c, p v2.Vec) bool {
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > 0
}

// Centroid returns the arithmetic mean of pts. The zero vector is
// returned for an empty slice.
func Centroid(pts []v2.Vec) v2.Vec {
	if len(pts) == 0 {
		return v2.Vec{}
	}
	var sum v2.Vec
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(pts)))
}

// Bounds returns the axis-aligned bounding box of pts.
func Bounds(pts []v2.Vec) (min, max v2.Vec) {
	if len(pts) == 0 {
		return v2.Vec{}, v2.Vec{}
	}
	min = pts[0]
	max = pts[0]
	for _, p := range pts[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// NearlyEqual reports whether a and b are within Eps of each other in
// both coordinates.
func NearlyEqual(a, b v2.Vec) bool {
	return math.Abs(a.X-b.X) <= Eps && math.Abs(a.Y-b.Y) <= Eps
}
