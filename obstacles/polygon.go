package obstacles

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"rrt-planner/planner"
)

// Polygon is an obstacle outline. The ring may be given open or closed.
type Polygon struct {
	Vertices []planner.Point `json:"vertices" yaml:"vertices"`
}

// Rect builds an axis-aligned rectangular obstacle.
func Rect(minX, minY, maxX, maxY float64) Polygon {
	return Polygon{Vertices: []planner.Point{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}}
}

// Ring converts the outline to a closed orb ring.
func (p Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		ring = append(ring, toOrb(v))
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Bound returns the axis-aligned bounding box of the outline.
func (p Polygon) Bound() orb.Bound {
	return p.Ring().Bound()
}

func fromRing(r orb.Ring) Polygon {
	n := len(r)
	if n > 1 && r.Closed() {
		n--
	}
	poly := Polygon{Vertices: make([]planner.Point, 0, n)}
	for _, v := range r[:n] {
		poly.Vertices = append(poly.Vertices, planner.Point{X: v[0], Y: v[1]})
	}
	return poly
}

func toOrb(p planner.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

// ringContains treats the boundary as inside. Rings with fewer than three
// distinct vertices enclose nothing.
func ringContains(r orb.Ring, p orb.Point) bool {
	if len(r) < 4 {
		return false
	}
	return planar.RingContains(r, p)
}

// segmentsIntersect reports whether segments p1p2 and p3p4 share any point,
// touching and collinear overlap included.
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	if segmentsCross(p1, p2, p3, p4) {
		return true
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	// Check for collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// segmentsCross reports a proper crossing: each segment has its endpoints
// strictly on opposite sides of the other.
func segmentsCross(p1, p2, p3, p4 orb.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 orb.Point) float64 {
	return (p3[0]-p1[0])*(p2[1]-p1[1]) - (p2[0]-p1[0])*(p3[1]-p1[1])
}

// onSegment checks if point q lies within the bounding box of segment pr
func onSegment(p, r, q orb.Point) bool {
	return q[0] <= math.Max(p[0], r[0]) && q[0] >= math.Min(p[0], r[0]) &&
		q[1] <= math.Max(p[1], r[1]) && q[1] >= math.Min(p[1], r[1])
}

// segmentCrossesRing checks if segment ab touches any edge of the ring
func segmentCrossesRing(a, b orb.Point, r orb.Ring) bool {
	for i := 0; i+1 < len(r); i++ {
		if segmentsIntersect(a, b, r[i], r[i+1]) {
			return true
		}
	}
	return false
}
