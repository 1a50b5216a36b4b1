package planner

import "fmt"

// ExtractPath walks parent links from goalIndex back to the root and returns
// the nodes in start-to-goal order. Each step strictly decreases the index, so
// the walk takes at most t.Len() steps.
func ExtractPath(t *Tree, goalIndex int) ([]Point, error) {
	if goalIndex < 0 || goalIndex >= t.Len() {
		return nil, fmt.Errorf("%w: goal index %d out of range [0,%d)", ErrInvalidTree, goalIndex, t.Len())
	}
	indices := PathIndices(t, goalIndex)
	path := make([]Point, len(indices))
	for i, idx := range indices {
		path[i] = t.nodes[idx]
	}
	return path, nil
}

// PathIndices returns the node indices from the root to i, root first.
func PathIndices(t *Tree, i int) []int {
	indices := []int{i}
	for i != 0 {
		i = t.parent[i]
		indices = append(indices, i)
	}
	// reverse path
	for a, b := 0, len(indices)-1; a < b; a, b = a+1, b-1 {
		indices[a], indices[b] = indices[b], indices[a]
	}
	return indices
}
