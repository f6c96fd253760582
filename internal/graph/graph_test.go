package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/patchbay/internal/graph"
)

func TestReaches(t *testing.T) {
	g := graph.New(4)
	g.Add(0, 1)
	g.Add(1, 2)

	assert.True(t, g.Reaches(0, 2))
	assert.True(t, g.Reaches(1, 1), "node reaches itself")
	assert.False(t, g.Reaches(2, 0))
	assert.False(t, g.Reaches(0, 3))

	g.Remove(1, 2)
	assert.False(t, g.Reaches(0, 2))
}

func TestParallelEdges(t *testing.T) {
	g := graph.New(2)
	g.Add(0, 1)
	g.Add(0, 1)
	g.Remove(0, 1)
	assert.True(t, g.Reaches(0, 1), "one edge left")
	g.Remove(0, 1)
	assert.False(t, g.Reaches(0, 1))
	// removing absent edge is no-op.
	g.Remove(0, 1)
	assert.False(t, g.Reaches(0, 1))
}

func TestSort(t *testing.T) {
	var tests = []struct {
		description string
		nodes       int
		edges       [][2]int
		expected    []int
	}{
		{
			description: "no edges",
			nodes:       3,
			expected:    []int{0, 1, 2},
		},
		{
			description: "reversed chain",
			nodes:       3,
			edges:       [][2]int{{2, 1}, {1, 0}},
			expected:    []int{2, 1, 0},
		},
		{
			description: "diamond",
			nodes:       5,
			edges:       [][2]int{{4, 3}, {4, 2}, {3, 0}, {2, 0}},
			expected:    []int{1, 4, 2, 3, 0},
		},
	}
	for _, c := range tests {
		g := graph.New(c.nodes)
		for _, e := range c.edges {
			g.Add(e[0], e[1])
		}
		order, err := g.Sort()
		require.NoError(t, err, c.description)
		assert.Equal(t, c.expected, order, c.description)

		// same edges, different insertion order.
		g = graph.New(c.nodes)
		for i := len(c.edges) - 1; i >= 0; i-- {
			g.Add(c.edges[i][0], c.edges[i][1])
		}
		order, err = g.Sort()
		require.NoError(t, err, c.description)
		assert.Equal(t, c.expected, order, c.description)
	}
}

func TestSortCycle(t *testing.T) {
	g := graph.New(3)
	g.Add(0, 1)
	g.Add(1, 2)
	g.Add(2, 0)
	_, err := g.Sort()
	assert.Equal(t, graph.ErrCycle, err)
}

func TestClone(t *testing.T) {
	g := graph.New(2)
	c := g.Clone()
	c.Add(0, 1)
	assert.False(t, g.Reaches(0, 1))
	assert.True(t, c.Reaches(0, 1))
}
