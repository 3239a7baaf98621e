// Package bsp builds binary space partition trees over 2D face segments
// and answers raycast queries against them. Faces are directed segments
// whose supporting plane (left of travel = front) defines solid/empty:
// the front child of a node is empty space, the back child is solid.
package bsp

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/stepview/stepview/pkg/geom"
)

// Side is the result of classifying a face against a plane.
type Side int

const (
	Coincident Side = iota
	Positive
	Negative
	SideSplit
)

func (s Side) String() string {
	switch s {
	case Coincident:
		return "coincident"
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return "split"
}

// Node is one BSP tree node. Children are exclusively owned and nil when
// absent: a nil front child is open space, a nil back child is solid.
// Every face in Coincident classifies as coincident against Plane.
type Node struct {
	Plane      geom.Plane
	Coincident []geom.Segment
	Front      *Node
	Back       *Node
}

// Classify determines which side of pl the face f lies on, with the
// geom.Eps tolerance applied per endpoint so near-coincident endpoints
// count as exactly on the plane. When the endpoints fall strictly on
// opposite sides the face is split at the interpolated zero crossing and
// the two sub-faces (front part, back part) are returned; for all other
// results the returned sub-faces are zero values.
func Classify(f geom.Segment, pl geom.Plane) (Side, geom.Segment, geom.Segment) {
	da := snap(pl.Dist(f.A))
	db := snap(pl.Dist(f.B))
	switch {
	case da == 0 && db == 0:
		return Coincident, geom.Segment{}, geom.Segment{}
	case da >= 0 && db >= 0:
		return Positive, geom.Segment{}, geom.Segment{}
	case da <= 0 && db <= 0:
		return Negative, geom.Segment{}, geom.Segment{}
	}
	t := da / (da - db)
	mid := f.Lerp(t)
	if da > 0 {
		return SideSplit, geom.Segment{A: f.A, B: mid}, geom.Segment{A: mid, B: f.B}
	}
	return SideSplit, geom.Segment{A: mid, B: f.B}, geom.Segment{A: f.A, B: mid}
}

// snap clamps near-zero signed distances to exactly zero.
func snap(d float64) float64 {
	if d > -geom.Eps && d < geom.Eps {
		return 0
	}
	return d
}

// ChooseSplitter greedily selects the face whose supporting plane best
// balances the remaining faces, maximizing min(front, back) counts.
// Split faces count on both sides. Ties go to the first candidate in
// input order; the tie-break is arbitrary, not semantically meaningful.
func ChooseSplitter(faces []geom.Segment) int {
	best := 0
	bestScore := -1
	for i, cand := range faces {
		pl := geom.PlaneThrough(cand.A, cand.B)
		front, back := 0, 0
		for j, f := range faces {
			if j == i {
				continue
			}
			switch side, _, _ := Classify(f, pl); side {
			case Positive:
				front++
			case Negative:
				back++
			case SideSplit:
				front++
				back++
			}
		}
		score := front
		if back < score {
			score = back
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// Partition classifies every face against pl, splitting as needed, and
// returns the coincident, front and back face lists.
func Partition(faces []geom.Segment, pl geom.Plane) (co, front, back []geom.Segment) {
	for _, f := range faces {
		switch side, fp, bp := Classify(f, pl); side {
		case Coincident:
			co = append(co, f)
		case Positive:
			front = append(front, f)
		case Negative:
			back = append(back, f)
		case SideSplit:
			front = append(front, fp)
			back = append(back, bp)
		}
	}
	return co, front, back
}

// Build recursively partitions faces into a BSP tree. An empty face list
// yields a nil node. The recursion terminates because every coincident
// face (at least the splitter itself) leaves the candidate set at each
// level.
func Build(faces []geom.Segment) *Node {
	if len(faces) == 0 {
		return nil
	}
	splitter := faces[ChooseSplitter(faces)]
	pl := geom.PlaneThrough(splitter.A, splitter.B)
	co, front, back := Partition(faces, pl)
	return &Node{
		Plane:      pl,
		Coincident: co,
		Front:      Build(front),
		Back:       Build(back),
	}
}

// Raycast returns how far travel along the segment a->b is possible
// before hitting solid space, as a fraction in [0,1]. Falling through an
// absent front (empty side) child yields 1.0, an absent back (solid
// side) child yields 0.0. Sub-fractions from children are remapped into
// the parent's [0,1] range at each level.
func Raycast(a, b v2.Vec, n *Node) float64 {
	if n == nil {
		return 1
	}
	da := snap(n.Plane.Dist(a))
	db := snap(n.Plane.Dist(b))
	switch {
	case da >= 0 && db >= 0:
		return castChild(a, b, n.Front, true)
	case da <= 0 && db <= 0:
		return castChild(a, b, n.Back, false)
	}
	t := da / (da - db)
	mid := geom.Segment{A: a, B: b}.Lerp(t)
	if da > 0 {
		near := castChild(a, mid, n.Front, true)
		if near < 1 {
			return near * t
		}
		far := castChild(mid, b, n.Back, false)
		return t + far*(1-t)
	}
	near := castChild(a, mid, n.Back, false)
	if near < 1 {
		return near * t
	}
	far := castChild(mid, b, n.Front, true)
	return t + far*(1-t)
}

// castChild recurses into a child, mapping an absent child to fully
// open (front side) or fully blocked (back side).
func castChild(a, b v2.Vec, child *Node, frontSide bool) float64 {
	if child != nil {
		return Raycast(a, b, child)
	}
	if frontSide {
		return 1
	}
	return 0
}

// Depth returns the height of the tree. A nil node has depth 0.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	front, back := Depth(n.Front), Depth(n.Back)
	if front > back {
		return front + 1
	}
	return back + 1
}

// CountFaces returns the total number of coincident faces stored in the
// tree.
func CountFaces(n *Node) int {
	if n == nil {
		return 0
	}
	return len(n.Coincident) + CountFaces(n.Front) + CountFaces(n.Back)
}
