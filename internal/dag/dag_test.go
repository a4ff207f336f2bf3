package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Empty(t, g.nodes)
	assert.Empty(t, g.edges)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.True(t, g.HasNode("a"))
	assert.Len(t, g.order, 1)

	g.AddNode("a") // Test idempotency
	assert.Len(t, g.order, 1)

	g.AddNode("b")
	assert.True(t, g.HasNode("b"))
	assert.Len(t, g.order, 2)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("a", "b")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, g.Dependencies("a"))

		// Duplicate edges are absorbed silently.
		err = g.AddEdge("a", "b")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, g.Dependencies("a"))
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestFindCycle(t *testing.T) {
	t.Run("empty graph has no cycle", func(t *testing.T) {
		g := New()
		assert.Nil(t, g.FindCycle())
	})

	t.Run("acyclic graph has no cycle", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("a", "c"))
		require.NoError(t, g.AddEdge("b", "c"))
		assert.Nil(t, g.FindCycle())
	})

	t.Run("two-node cycle reports the full path", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))
		assert.Equal(t, []string{"a", "b", "a"}, g.FindCycle())
	})

	t.Run("three-node cycle starts and ends at the same node", func(t *testing.T) {
		g := New()
		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "x"))
		assert.Equal(t, []string{"x", "y", "z", "x"}, g.FindCycle())
	})

	t.Run("cycle behind an acyclic prefix is still found", func(t *testing.T) {
		g := New()
		g.AddNode("entry")
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("entry", "a"))
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))
		assert.Equal(t, []string{"a", "b", "a"}, g.FindCycle())
	})

	t.Run("same graph reports the same path every time", func(t *testing.T) {
		build := func() *Graph {
			g := New()
			g.AddNode("m")
			g.AddNode("n")
			g.AddNode("o")
			require.NoError(t, g.AddEdge("m", "n"))
			require.NoError(t, g.AddEdge("n", "o"))
			require.NoError(t, g.AddEdge("o", "m"))
			require.NoError(t, g.AddEdge("n", "m"))
			return g
		}
		first := build().FindCycle()
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, build().FindCycle())
		}
	})
}

func TestTopoSort(t *testing.T) {
	t.Run("dependencies come first", func(t *testing.T) {
		g := New()
		g.AddNode("app")
		g.AddNode("billing")
		g.AddNode("core")
		require.NoError(t, g.AddEdge("app", "billing"))
		require.NoError(t, g.AddEdge("app", "core"))
		require.NoError(t, g.AddEdge("billing", "core"))

		order, err := g.TopoSort()
		require.NoError(t, err)
		assert.Equal(t, []string{"core", "billing", "app"}, order)
	})

	t.Run("independent nodes keep a deterministic order", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("a", "c"))

		order, err := g.TopoSort()
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a"}, order)
	})

	t.Run("cyclic graph returns an error", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		_, err := g.TopoSort()
		assert.ErrorContains(t, err, "cycle")
	})
}
