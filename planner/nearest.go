package planner

import "math"

// NeighborIndex answers nearest-node queries over the growing tree. Indices
// are inserted in ascending order starting at 0.
type NeighborIndex interface {
	Insert(index int, p Point)
	// Nearest returns the index of the closest inserted point. Among equally
	// close points the lowest index wins.
	Nearest(q Point) int
}

// Nearest returns the index of the tree node closest to q by linear scan.
func Nearest(t *Tree, q Point) int {
	idx, _ := nearestIn(t.nodes, q)
	return idx
}

// nearestIn is the reference scan. It is O(n) per query and O(n²) over a full
// session, which dominates planning time for large budgets.
func nearestIn(points []Point, q Point) (int, float64) {
	if len(points) == 0 {
		return -1, math.MaxFloat64
	}
	nearestID := 0
	minDist := q.Distance(points[0])
	for i := 1; i < len(points); i++ {
		dist := q.Distance(points[i])
		if dist < minDist {
			minDist = dist
			nearestID = i
		}
	}
	return nearestID, minDist
}

// LinearIndex is the default NeighborIndex.
type LinearIndex struct {
	points []Point
}

// NewLinearIndex creates an empty linear index.
func NewLinearIndex() *LinearIndex {
	return &LinearIndex{}
}

func (l *LinearIndex) Insert(index int, p Point) {
	if index != len(l.points) {
		panic("planner: linear index insertions must be sequential")
	}
	l.points = append(l.points, p)
}

func (l *LinearIndex) Nearest(q Point) int {
	idx, _ := nearestIn(l.points, q)
	return idx
}
