package planner

import "fmt"

// Tree is an append-only store of nodes with parent links. Index 0 is the root
// and is its own parent; every other node's parent has a smaller index.
type Tree struct {
	nodes  []Point
	parent []int
}

// NewTree creates a tree holding only the root.
func NewTree(root Point) *Tree {
	return &Tree{nodes: []Point{root}, parent: []int{0}}
}

// TreeFromArrays rebuilds a tree from node and parent arrays, for example the
// outputs of a previous session. The arrays are copied.
func TreeFromArrays(nodes []Point, parent []int) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no root node", ErrInvalidTree)
	}
	if len(nodes) != len(parent) {
		return nil, fmt.Errorf("%w: %d nodes but %d parents", ErrInvalidTree, len(nodes), len(parent))
	}
	if parent[0] != 0 {
		return nil, fmt.Errorf("%w: root parent is %d, want 0", ErrInvalidTree, parent[0])
	}
	for i := 1; i < len(parent); i++ {
		if parent[i] < 0 || parent[i] >= i {
			return nil, fmt.Errorf("%w: parent[%d] = %d is not in [0,%d)", ErrInvalidTree, i, parent[i], i)
		}
	}
	t := &Tree{
		nodes:  make([]Point, len(nodes)),
		parent: make([]int, len(parent)),
	}
	copy(t.nodes, nodes)
	copy(t.parent, parent)
	return t, nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns node 0.
func (t *Tree) Root() Point { return t.nodes[0] }

// Node returns the point stored at index i.
func (t *Tree) Node(i int) Point { return t.nodes[i] }

// Parent returns the index node i was extended from.
func (t *Tree) Parent(i int) int { return t.parent[i] }

// Nodes returns a copy of the node sequence.
func (t *Tree) Nodes() []Point {
	out := make([]Point, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Parents returns a copy of the parent sequence.
func (t *Tree) Parents() []int {
	out := make([]int, len(t.parent))
	copy(out, t.parent)
	return out
}

// Clone returns an independent copy.
func (t *Tree) Clone() *Tree {
	return &Tree{nodes: t.Nodes(), parent: t.Parents()}
}

// Edges returns every node-to-parent link as a two point segment, in index order.
func (t *Tree) Edges() [][2]Point {
	lines := make([][2]Point, 0, len(t.nodes)-1)
	for i := 1; i < len(t.nodes); i++ {
		lines = append(lines, [2]Point{t.nodes[t.parent[i]], t.nodes[i]})
	}
	return lines
}

func (t *Tree) add(p Point, parent int) int {
	if parent < 0 || parent >= len(t.nodes) {
		panic(fmt.Sprintf("planner: parent index %d out of range [0,%d)", parent, len(t.nodes)))
	}
	t.nodes = append(t.nodes, p)
	t.parent = append(t.parent, parent)
	return len(t.nodes) - 1
}
