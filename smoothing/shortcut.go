// Package smoothing shortens planner paths after the fact. It never touches
// the tree: a visibility graph is built over the path's own waypoints and the
// shortest route through it is returned.
package smoothing

import "rrt-planner/planner"

// Shortcut returns the shortest route from the first to the last waypoint
// that only uses waypoints of path and segments accepted by clear. The result
// is never longer than path and keeps its endpoints.
func Shortcut(path []planner.Point, clear SegmentFunc) []planner.Point {
	if len(path) <= 2 {
		out := make([]planner.Point, len(path))
		copy(out, path)
		return out
	}

	graph := BuildVisibilityGraph(path, clear)
	ids, ok := ShortestPath(graph, 0, len(path)-1)
	if !ok {
		// unreachable: consecutive waypoints are always connected
		out := make([]planner.Point, len(path))
		copy(out, path)
		return out
	}

	out := make([]planner.Point, len(ids))
	for i, id := range ids {
		out[i] = path[id]
	}
	return out
}
