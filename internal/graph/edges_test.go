package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/docgraph/internal/objectid"
)

func TestAddEdge_Symmetry(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		a := mustAddNode(t, s, Attrs{"name": "a"})
		b := mustAddNode(t, s, Attrs{"name": "b"})

		mustAddEdge(t, s, a, b, Attrs{"w": 1})

		out, err := s.GetNodeEdges(ctx, a, DirectionOut)
		require.NoError(t, err)
		assert.Nil(t, out.In)
		assert.Equal(t, map[string]Attrs{b.Hex(): {"w": int64(1), ToIDField: b}}, out.Out)

		in, err := s.GetNodeEdges(ctx, b, DirectionIn)
		require.NoError(t, err)
		assert.Nil(t, in.Out)
		assert.Equal(t, map[string]Attrs{a.Hex(): {"w": int64(1), FromIDField: a}}, in.In)
	})
}

func TestAddEdge_EndpointValidation(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		a := mustAddNode(t, s, Attrs{})
		missing := objectid.New()

		err := s.AddEdge(ctx, missing, a, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNodeNotFound)

		err = s.AddEdge(ctx, a, missing, nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNodeNotFound)
		var ae *AttributeError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "to", ae.Attribute)
		assert.Equal(t, missing, ae.ID)

		ok, err := s.HasEdge(ctx, a, objectid.Nil)
		require.NoError(t, err)
		assert.False(t, ok, "failed writes leave no adjacency document")
	})
}

func TestUpdateEdge_MergesAttributes(t *testing.T) {
	s := newTestStore(t, "memory")
	ctx := context.Background()
	a := mustAddNode(t, s, Attrs{})
	b := mustAddNode(t, s, Attrs{})

	mustAddEdge(t, s, a, b, Attrs{"w": 1, "label": "x"})
	require.NoError(t, s.UpdateEdge(ctx, a, b, Attrs{"w": 2}))

	attrs, err := s.GetEdge(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, Attrs{"w": int64(2), "label": "x", ToIDField: b}, attrs)
}

func TestUpdateEdge_ForcesToID(t *testing.T) {
	s := newTestStore(t, "memory")
	a := mustAddNode(t, s, Attrs{})
	b := mustAddNode(t, s, Attrs{})

	mustAddEdge(t, s, a, b, Attrs{ToIDField: "bogus"})

	attrs, err := s.GetEdge(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, b, attrs[ToIDField])
}

func TestRemoveEdge(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		ctx := context.Background()
		a := mustAddNode(t, s, Attrs{})
		b := mustAddNode(t, s, Attrs{})
		mustAddEdge(t, s, a, b, nil)

		require.NoError(t, s.RemoveEdge(ctx, a, b))

		ne, err := s.GetNodeEdges(ctx, a, DirectionOut)
		require.NoError(t, err)
		assert.NotContains(t, ne.Out, b.Hex())

		for _, id := range []objectid.ID{a, b} {
			ok, err := s.HasNode(ctx, id)
			require.NoError(t, err)
			assert.True(t, ok)
		}

		// The emptied adjacency document is kept.
		ok, err := s.HasEdge(ctx, a, objectid.Nil)
		require.NoError(t, err)
		assert.True(t, ok)

		// Removing a missing edge is a no-op.
		require.NoError(t, s.RemoveEdge(ctx, b, a))
	})
}

func TestHasEdge(t *testing.T) {
	s := newTestStore(t, "memory")
	ctx := context.Background()
	a := mustAddNode(t, s, Attrs{})
	b := mustAddNode(t, s, Attrs{})
	c := mustAddNode(t, s, Attrs{})
	mustAddEdge(t, s, a, b, nil)

	ok, err := s.HasEdge(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasEdge(ctx, a, c)
	require.NoError(t, err)
	assert.False(t, ok)

	// b is the target of a's edge, so the in-check reports true for any to.
	ok, err = s.HasEdge(ctx, b, c)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasEdge(ctx, c, objectid.Nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetEdge_NotFound(t *testing.T) {
	s := newTestStore(t, "memory")
	a := mustAddNode(t, s, Attrs{})
	b := mustAddNode(t, s, Attrs{})

	_, err := s.GetEdge(context.Background(), a, b)
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestOutEdges_OrderedByTarget(t *testing.T) {
	s := newTestStore(t, "memory")
	ctx := context.Background()
	a := mustAddNode(t, s, Attrs{})
	targets := make([]objectid.ID, 4)
	for i := range targets {
		targets[i] = mustAddNode(t, s, Attrs{"i": i})
	}
	// Insert edges in reverse; records come back in hex order.
	for i := len(targets) - 1; i >= 0; i-- {
		mustAddEdge(t, s, a, targets[i], Attrs{"i": i})
	}

	adj, err := s.OutEdges(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a, adj.Source)
	assert.Equal(t, targets, adj.Targets())
	for i, rec := range adj.Edges {
		assert.Equal(t, int64(i), rec.Attrs["i"])
	}

	empty, err := s.OutEdges(ctx, targets[0])
	require.NoError(t, err)
	assert.Empty(t, empty.Edges)
}

func TestEdges_ListsEverything(t *testing.T) {
	s := newTestStore(t, "memory")
	ctx := context.Background()
	a := mustAddNode(t, s, Attrs{})
	b := mustAddNode(t, s, Attrs{})
	c := mustAddNode(t, s, Attrs{})
	mustAddEdge(t, s, a, b, Attrs{"w": 1})
	mustAddEdge(t, s, a, c, nil)
	mustAddEdge(t, s, b, c, nil)

	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 3)
	assert.Equal(t, Edge{From: a, To: b, Attrs: Attrs{"w": int64(1), ToIDField: b}}, edges[0])
	assert.Equal(t, a, edges[1].From)
	assert.Equal(t, c, edges[1].To)
	assert.Equal(t, b, edges[2].From)
}
