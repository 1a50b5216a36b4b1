package obstacles

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"rrt-planner/planner"
)

// boxTolerance pads bounding boxes so degenerate outlines still index.
const boxTolerance = 1e-9

// polygonEntry wraps a polygon for R-tree storage
type polygonEntry struct {
	ring  orb.Ring
	bound orb.Bound
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (p *polygonEntry) Bounds() rtreego.Rect {
	return p.bbox
}

// Field is an immutable obstacle set. It implements planner.CollisionChecker
// and planner.SegmentChecker; candidate polygons come from an R-tree over
// their bounding boxes.
type Field struct {
	polygons []Polygon
	tree     *rtreego.Rtree
}

var (
	_ planner.CollisionChecker = (*Field)(nil)
	_ planner.SegmentChecker   = (*Field)(nil)
)

// NewField indexes the polygons. Outlines with fewer than three vertices are dropped.
func NewField(polygons []Polygon) *Field {
	f := &Field{tree: rtreego.NewTree(2, 25, 50)} // 2D, min 25, max 50 entries per node

	for _, polygon := range polygons {
		ring := polygon.Ring()
		if len(ring) < 4 {
			continue
		}
		bound := ring.Bound()
		f.tree.Insert(&polygonEntry{
			ring:  ring,
			bound: bound,
			bbox:  boundToRect(bound),
		})
		f.polygons = append(f.polygons, polygon)
	}

	return f
}

// Len returns the number of indexed polygons.
func (f *Field) Len() int { return len(f.polygons) }

// Polygons returns the indexed polygons.
func (f *Field) Polygons() []Polygon {
	out := make([]Polygon, len(f.polygons))
	copy(out, f.polygons)
	return out
}

// IsFree reports whether p lies outside every obstacle. Boundaries count as blocked.
func (f *Field) IsFree(p planner.Point) bool {
	pt := toOrb(p)
	for _, entry := range f.query(orb.Bound{Min: pt, Max: pt}) {
		if ringContains(entry.ring, pt) {
			return false
		}
	}
	return true
}

// SegmentFree reports whether the straight segment ab avoids every obstacle.
func (f *Field) SegmentFree(a, b planner.Point) bool {
	pa, pb := toOrb(a), toOrb(b)
	for _, entry := range f.query(orb.Bound{Min: pa, Max: pa}.Extend(pb)) {
		// Check if the segment intersects the polygon boundary
		if segmentCrossesRing(pa, pb, entry.ring) {
			return false
		}

		// Check if either endpoint is inside the polygon
		if ringContains(entry.ring, pa) || ringContains(entry.ring, pb) {
			return false
		}
	}
	return true
}

func (f *Field) query(bound orb.Bound) []*polygonEntry {
	results := f.tree.SearchIntersect(boundToRect(bound))
	entries := make([]*polygonEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*polygonEntry))
	}
	return entries
}

// boundToRect converts an orb bound into an rtreego rectangle, padded so that
// points and axis-aligned segments have a positive extent.
func boundToRect(b orb.Bound) rtreego.Rect {
	rect, err := rtreego.NewRect(
		rtreego.Point{b.Min[0] - boxTolerance, b.Min[1] - boxTolerance},
		[]float64{b.Max[0] - b.Min[0] + 2*boxTolerance, b.Max[1] - b.Min[1] + 2*boxTolerance},
	)
	if err != nil {
		// only reachable with NaN coordinates
		return rtreego.Point{b.Min[0], b.Min[1]}.ToRect(boxTolerance)
	}
	return rect
}
