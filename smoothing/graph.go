package smoothing

import "rrt-planner/planner"

// Graph is a weighted undirected graph over waypoints
type Graph struct {
	Nodes map[int]planner.Point
	Edges map[int][]Edge
}

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Euclidean distance
}

// SegmentFunc reports whether the straight segment between two points is collision-free.
type SegmentFunc func(a, b planner.Point) bool

// BuildVisibilityGraph connects every pair of waypoints that can see each
// other. Consecutive waypoints are always connected, so a path that was valid
// edge by edge stays reachable.
func BuildVisibilityGraph(waypoints []planner.Point, clear SegmentFunc) *Graph {
	graph := &Graph{
		Nodes: make(map[int]planner.Point, len(waypoints)),
		Edges: make(map[int][]Edge, len(waypoints)),
	}
	for i, p := range waypoints {
		graph.Nodes[i] = p
	}

	for i := 0; i < len(waypoints); i++ {
		for j := i + 1; j < len(waypoints); j++ {
			if j != i+1 && !clear(waypoints[i], waypoints[j]) {
				continue
			}
			distance := waypoints[i].Distance(waypoints[j])

			// Add bidirectional edge
			graph.Edges[i] = append(graph.Edges[i], Edge{To: j, Cost: distance})
			graph.Edges[j] = append(graph.Edges[j], Edge{To: i, Cost: distance})
		}
	}

	return graph
}
