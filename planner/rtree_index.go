package planner

import (
	"github.com/dhconnelly/rtreego"
)

// rtreeTolerance pads each node into a tiny box for rtreego.
const rtreeTolerance = 1e-9

// nodeEntry wraps a tree node for R-tree storage
type nodeEntry struct {
	index int
	point Point
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (n *nodeEntry) Bounds() rtreego.Rect {
	return n.bbox
}

// RTreeIndex is a NeighborIndex backed by an R-tree. It keeps the lowest-index
// tie-break of the linear scan, so both indices grow identical trees.
type RTreeIndex struct {
	tree    *rtreego.Rtree
	entries []*nodeEntry
}

// NewRTreeIndex creates an empty R-tree index.
func NewRTreeIndex() *RTreeIndex {
	return &RTreeIndex{tree: rtreego.NewTree(2, 25, 50)} // 2D, min 25, max 50 entries per node
}

func (r *RTreeIndex) Insert(index int, p Point) {
	entry := &nodeEntry{
		index: index,
		point: p,
		bbox:  rtreego.Point{p.X, p.Y}.ToRect(rtreeTolerance),
	}
	r.entries = append(r.entries, entry)
	r.tree.Insert(entry)
}

// Nearest asks the R-tree for a close node, then searches the window of that
// radius for the exact minimum so that ties resolve to the lowest index.
func (r *RTreeIndex) Nearest(q Point) int {
	hit := r.tree.NearestNeighbor(rtreego.Point{q.X, q.Y})
	if hit == nil {
		return -1
	}
	radius := q.Distance(hit.(*nodeEntry).point) + 2*rtreeTolerance
	window, err := rtreego.NewRect(
		rtreego.Point{q.X - radius, q.Y - radius},
		[]float64{2 * radius, 2 * radius},
	)
	if err != nil {
		return hit.(*nodeEntry).index
	}

	best := hit.(*nodeEntry)
	bestDist := q.Distance(best.point)
	for _, item := range r.tree.SearchIntersect(window) {
		entry := item.(*nodeEntry)
		dist := q.Distance(entry.point)
		if dist < bestDist || (dist == bestDist && entry.index < best.index) {
			best = entry
			bestDist = dist
		}
	}
	return best.index
}

// Len returns the number of indexed nodes.
func (r *RTreeIndex) Len() int { return len(r.entries) }
