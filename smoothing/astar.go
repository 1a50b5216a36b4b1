package smoothing

import (
	"container/heap"
)

// searchNode is one waypoint on the open or closed frontier.
type searchNode struct {
	NodeID int
	G      float64 // route length so far
	H      float64 // straight line to the last waypoint
	F      float64
	Parent *searchNode
	Index  int // heap slot, kept current by Swap
}

// priorityQueue orders by F; equal F falls back to the lower waypoint index
// so the chosen route is deterministic.
type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].F == pq[j].F {
		return pq[i].NodeID < pq[j].NodeID
	}
	return pq[i].F < pq[j].F
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*searchNode)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// ShortestPath computes the shortest node sequence between two graph nodes
// using A* with the straight-line distance as heuristic.
func ShortestPath(graph *Graph, startIdx, endIdx int) ([]int, bool) {
	if graph == nil || len(graph.Nodes) == 0 {
		return nil, false
	}
	if _, ok := graph.Nodes[startIdx]; !ok {
		return nil, false
	}
	endPoint, ok := graph.Nodes[endIdx]
	if !ok {
		return nil, false
	}

	openSet := &priorityQueue{}
	heap.Init(openSet)

	startPoint := graph.Nodes[startIdx]
	startNode := &searchNode{
		NodeID: startIdx,
		H:      startPoint.Distance(endPoint),
		F:      startPoint.Distance(endPoint),
	}
	heap.Push(openSet, startNode)

	closedSet := make(map[int]bool)
	openSetMap := map[int]*searchNode{startIdx: startNode}

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		delete(openSetMap, current.NodeID)

		if current.NodeID == endIdx {
			var ids []int
			for node := current; node != nil; node = node.Parent {
				ids = append(ids, node.NodeID)
			}
			for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
				ids[i], ids[j] = ids[j], ids[i]
			}
			return ids, true
		}

		closedSet[current.NodeID] = true

		for _, edge := range graph.Edges[current.NodeID] {
			neighborID := edge.To
			if closedSet[neighborID] {
				continue
			}

			tentativeG := current.G + edge.Cost

			neighbor, exists := openSetMap[neighborID]
			if !exists {
				neighborPoint := graph.Nodes[neighborID]
				neighbor = &searchNode{
					NodeID: neighborID,
					G:      tentativeG,
					H:      neighborPoint.Distance(endPoint),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				heap.Push(openSet, neighbor)
				openSetMap[neighborID] = neighbor
			} else if tentativeG < neighbor.G {
				// shorter shortcut to a waypoint still on the frontier
				neighbor.G = tentativeG
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return nil, false
}
