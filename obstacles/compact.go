package obstacles

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"rrt-planner/planner"
)

// Compact removes polygons that are fully contained within other polygons.
func Compact(polygons []Polygon) []Polygon {
	if len(polygons) <= 1 {
		return polygons
	}

	result := make([]Polygon, 0, len(polygons))
	contained := make([]bool, len(polygons))

	// Check each polygon against all others
	for i := 0; i < len(polygons); i++ {
		if contained[i] {
			continue
		}

		for j := 0; j < len(polygons); j++ {
			if i == j || contained[j] {
				continue
			}

			// Check if polygon i is contained in polygon j
			if isPolygonContainedIn(polygons[i], polygons[j]) {
				contained[i] = true
				break
			}

			// Check if polygon j is contained in polygon i
			if isPolygonContainedIn(polygons[j], polygons[i]) {
				contained[j] = true
			}
		}
	}

	// Collect non-contained polygons
	for i := 0; i < len(polygons); i++ {
		if !contained[i] {
			result = append(result, polygons[i])
		}
	}

	return result
}

// isPolygonContainedIn checks if polygon a is fully contained within polygon b
func isPolygonContainedIn(a, b Polygon) bool {
	if len(a.Vertices) == 0 || len(b.Vertices) == 0 {
		return false
	}

	// Quick bounding box check first
	ba, bb := a.Bound(), b.Bound()
	if !bb.Contains(ba.Min) || !bb.Contains(ba.Max) {
		return false
	}

	// Check if all vertices of a are inside b
	ring := b.Ring()
	for _, vertex := range a.Vertices {
		if !ringContains(ring, toOrb(vertex)) {
			return false
		}
	}

	// A concave container can hold every vertex while an edge leaves
	// through a notch. Shared boundaries still count as contained.
	inner := a.Ring()
	for i := 0; i+1 < len(inner); i++ {
		p, q := inner[i], inner[i+1]
		for k := 0; k+1 < len(ring); k++ {
			if segmentsCross(p, q, ring[k], ring[k+1]) {
				return false
			}
		}
		mid := orb.Point{(p[0] + q[0]) / 2, (p[1] + q[1]) / 2}
		if !ringContains(ring, mid) {
			return false
		}
	}

	return true
}

// MergeAdjacent replaces polygons that share an edge with the convex hull of
// their vertices. Vertices within tolerance on both axes count as equal. The
// hull covers at least the union, so merging never frees blocked space.
func MergeAdjacent(polygons []Polygon, tolerance float64) []Polygon {
	if len(polygons) <= 1 {
		return polygons
	}

	merged := make([]bool, len(polygons))
	result := make([]Polygon, 0, len(polygons))

	for i := 0; i < len(polygons); i++ {
		if merged[i] {
			continue
		}

		// Find all polygons that share edges with polygon i
		group := []int{i}
		merged[i] = true
		for j := i + 1; j < len(polygons); j++ {
			if !merged[j] && shareEdge(polygons[i], polygons[j], tolerance) {
				group = append(group, j)
				merged[j] = true
			}
		}

		if len(group) == 1 {
			result = append(result, polygons[i])
			continue
		}
		var vertices []planner.Point
		for _, idx := range group {
			vertices = append(vertices, polygons[idx].Vertices...)
		}
		result = append(result, Polygon{Vertices: convexHull(vertices)})
	}

	return result
}

// shareEdge checks if two polygons share a common edge in either direction.
func shareEdge(a, b Polygon, tolerance float64) bool {
	av, bv := openVertices(a), openVertices(b)
	for i := range av {
		v1, v2 := av[i], av[(i+1)%len(av)]
		for j := range bv {
			v3, v4 := bv[j], bv[(j+1)%len(bv)]
			if (pointsEqual(v1, v3, tolerance) && pointsEqual(v2, v4, tolerance)) ||
				(pointsEqual(v1, v4, tolerance) && pointsEqual(v2, v3, tolerance)) {
				return true
			}
		}
	}
	return false
}

// openVertices drops a repeated closing vertex.
func openVertices(p Polygon) []planner.Point {
	v := p.Vertices
	if len(v) > 1 && v[0] == v[len(v)-1] {
		return v[:len(v)-1]
	}
	return v
}

func pointsEqual(a, b planner.Point, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance
}

// convexHull computes the hull counter-clockwise using a Graham scan.
func convexHull(points []planner.Point) []planner.Point {
	if len(points) < 3 {
		return points
	}

	// Pivot is the lowest point, leftmost on ties
	pts := make([]planner.Point, len(points))
	copy(pts, points)
	start := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[start].Y || (pts[i].Y == pts[start].Y && pts[i].X < pts[start].X) {
			start = i
		}
	}
	pts[0], pts[start] = pts[start], pts[0]
	pivot := pts[0]

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		ai, aj := polarAngle(pivot, rest[i]), polarAngle(pivot, rest[j])
		if ai != aj {
			return ai < aj
		}
		return pivot.Distance(rest[i]) < pivot.Distance(rest[j])
	})

	hull := []planner.Point{pivot}
	for _, p := range rest {
		if p == pivot {
			continue
		}
		// Remove points that create a right turn
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}

func polarAngle(pivot, point planner.Point) float64 {
	return math.Atan2(point.Y-pivot.Y, point.X-pivot.X)
}

// crossProduct calculates the cross product of vectors (b-a) and (c-a)
func crossProduct(a, b, c planner.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
