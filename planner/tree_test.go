package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestTree(t *testing.T) *Tree {
	t.Helper()
	//     0
	//    / \
	//   1   2
	//   |   |
	//   3   4
	//       |
	//       5
	tree, err := TreeFromArrays(
		[]Point{{0, 0}, {1, 0}, {0, 1}, {2, 0}, {0, 2}, {0, 3}},
		[]int{0, 0, 0, 1, 2, 4},
	)
	require.NoError(t, err)
	return tree
}

func TestNewTree(t *testing.T) {
	tree := NewTree(Point{50, 50})
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, Point{50, 50}, tree.Root())
	assert.Equal(t, 0, tree.Parent(0))
	assert.Empty(t, tree.Edges())
}

func TestTreeFromArrays_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []Point
		parent []int
	}{
		{"empty", nil, nil},
		{"length mismatch", []Point{{0, 0}, {1, 1}}, []int{0}},
		{"root not sentinel", []Point{{0, 0}}, []int{1}},
		{"self parent", []Point{{0, 0}, {1, 1}}, []int{0, 1}},
		{"forward parent", []Point{{0, 0}, {1, 1}, {2, 2}}, []int{0, 2, 0}},
		{"negative parent", []Point{{0, 0}, {1, 1}}, []int{0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TreeFromArrays(tt.nodes, tt.parent)
			assert.ErrorIs(t, err, ErrInvalidTree)
		})
	}
}

func TestTreeFromArrays_Copies(t *testing.T) {
	nodes := []Point{{0, 0}, {1, 1}}
	parent := []int{0, 0}
	tree, err := TreeFromArrays(nodes, parent)
	require.NoError(t, err)

	nodes[1] = Point{9, 9}
	parent[1] = 7
	assert.Equal(t, Point{1, 1}, tree.Node(1))
	assert.Equal(t, 0, tree.Parent(1))
}

func TestTree_CloneIsIndependent(t *testing.T) {
	tree := buildTestTree(t)
	clone := tree.Clone()
	clone.add(Point{5, 5}, 3)

	assert.Equal(t, 6, tree.Len())
	assert.Equal(t, 7, clone.Len())
	assert.Equal(t, tree.Nodes(), clone.Nodes()[:6])
}

func TestTree_Edges(t *testing.T) {
	tree := buildTestTree(t)
	edges := tree.Edges()
	require.Len(t, edges, 5)
	assert.Equal(t, [2]Point{{0, 2}, {0, 3}}, edges[4])
}

func TestTree_AddPanicsOnBadParent(t *testing.T) {
	tree := NewTree(Point{0, 0})
	assert.Panics(t, func() { tree.add(Point{1, 1}, 1) })
}

func TestExtractPath(t *testing.T) {
	tree := buildTestTree(t)

	path, err := ExtractPath(tree, 5)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, path)
	assert.Equal(t, []int{0, 2, 4, 5}, PathIndices(tree, 5))

	path, err = ExtractPath(tree, 0)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}}, path)

	_, err = ExtractPath(tree, 6)
	assert.ErrorIs(t, err, ErrInvalidTree)
}
