package traverse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// newTestGraph returns a graph store backed by the memory driver.
func newTestGraph(t *testing.T) *graph.Store {
	t.Helper()
	client, err := docstore.Connect(context.Background(), docstore.Config{Driver: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	db, err := client.Database("graph")
	require.NoError(t, err)
	g, err := graph.New(context.Background(), db)
	require.NoError(t, err)
	return g
}

// addNodes creates one node per name, in order, so identifiers ascend.
func addNodes(t *testing.T, g *graph.Store, names ...string) map[string]objectid.ID {
	t.Helper()
	ids := make(map[string]objectid.ID, len(names))
	for _, n := range names {
		id, err := g.AddNode(context.Background(), graph.Attrs{"name": n})
		require.NoError(t, err)
		ids[n] = id
	}
	return ids
}

func link(t *testing.T, g *graph.Store, ids map[string]objectid.ID, pairs ...[2]string) {
	t.Helper()
	for _, p := range pairs {
		require.NoError(t, g.AddEdge(context.Background(), ids[p[0]], ids[p[1]], nil))
	}
}

// names renders steps as "parent>child".
func names(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Parent["name"].(string) + ">" + s.Node["name"].(string)
	}
	return out
}

func walk(t *testing.T, tr *Traverser, mode Mode, from objectid.ID) []string {
	t.Helper()
	ctx := context.Background()
	it, err := tr.Walk(ctx, mode, from)
	require.NoError(t, err)
	steps, err := Collect(ctx, it)
	require.NoError(t, err)
	return names(steps)
}

// ---------------------------------------------------------------------------
// BFS / DFS
// ---------------------------------------------------------------------------

func TestBFS_Order(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B", "C", "D", "E")
	link(t, g, ids, [2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"B", "D"}, [2]string{"C", "E"})

	assert.Equal(t, []string{"A>B", "A>C", "B>D", "C>E"}, walk(t, New(g), ModeBFS, ids["A"]))
}

func TestDFS_Order(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B", "C", "D")
	link(t, g, ids, [2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"B", "D"})

	// Children are pushed in key order and popped from the back.
	assert.Equal(t, []string{"A>C", "A>B", "B>D"}, walk(t, New(g), ModeDFS, ids["A"]))
}

func TestTraversal_DedupWithCyclesAndSelfLoops(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B", "C")
	link(t, g, ids,
		[2]string{"A", "B"}, [2]string{"B", "A"},
		[2]string{"B", "C"}, [2]string{"A", "C"},
		[2]string{"C", "C"}, [2]string{"C", "A"},
	)
	tr := New(g)

	for _, mode := range []Mode{ModeBFS, ModeDFS} {
		t.Run(string(mode), func(t *testing.T) {
			steps := walk(t, tr, mode, ids["A"])
			require.Len(t, steps, 2)
			seen := map[string]bool{}
			for _, s := range steps {
				child := s[len(s)-1:]
				assert.NotEqual(t, "A", child, "seed is never yielded")
				assert.False(t, seen[child], "node %s yielded twice", child)
				seen[child] = true
			}
		})
	}
}

func TestTraversal_IsolatedNodeYieldsNothing(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B")
	link(t, g, ids, [2]string{"B", "A"})

	assert.Empty(t, walk(t, New(g), ModeBFS, ids["A"]))
	assert.Empty(t, walk(t, New(g), ModeDFS, ids["A"]))
}

func TestTraversal_StartValidation(t *testing.T) {
	g := newTestGraph(t)
	tr := New(g)
	ctx := context.Background()

	_, err := tr.BFS(ctx, objectid.Nil)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	missing := objectid.New()
	_, err = tr.DFS(ctx, missing)
	var ae *graph.AttributeError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "from", ae.Attribute)
	assert.Equal(t, missing, ae.ID)

	_, err = tr.Walk(ctx, Mode("zigzag"), objectid.New())
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

func TestTraversal_SkipsNodesRemovedMidWalk(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B", "C")
	link(t, g, ids, [2]string{"A", "B"}, [2]string{"A", "C"})
	ctx := context.Background()

	it, err := New(g).BFS(ctx, ids["A"])
	require.NoError(t, err)
	require.True(t, it.Next(ctx))
	assert.Equal(t, "B", it.Step().Node["name"])

	// C is already on the frontier; the live read drops it.
	_, err = g.RemoveNode(ctx, ids["C"])
	require.NoError(t, err)

	assert.False(t, it.Next(ctx))
	require.NoError(t, it.Err())
	assert.Nil(t, it.Step().Node)
}

func TestTraversal_RestartRereadsStore(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B", "C")
	link(t, g, ids, [2]string{"A", "B"})
	tr := New(g)

	assert.Equal(t, []string{"A>B"}, walk(t, tr, ModeBFS, ids["A"]))
	link(t, g, ids, [2]string{"B", "C"})
	assert.Equal(t, []string{"A>B", "B>C"}, walk(t, tr, ModeBFS, ids["A"]))
}

func TestIterator_CanceledContext(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B")
	link(t, g, ids, [2]string{"A", "B"})

	it, err := New(g).BFS(context.Background(), ids["A"])
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, it.Next(ctx))
	assert.ErrorIs(t, it.Err(), context.Canceled)
	assert.False(t, it.Next(context.Background()), "iterator stays stopped")
}

// failingGraph wraps a Graph and fails GetNodeEdges.
type failingGraph struct {
	Graph
	err error
}

func (f failingGraph) GetNodeEdges(context.Context, objectid.ID, graph.Direction) (*graph.NodeEdges, error) {
	return nil, f.err
}

func TestIterator_PropagatesStoreErrors(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A")
	boom := errors.New("boom")

	it, err := New(failingGraph{Graph: g, err: boom}).BFS(context.Background(), ids["A"])
	require.NoError(t, err)
	steps, err := Collect(context.Background(), it)
	assert.Empty(t, steps)
	assert.ErrorIs(t, err, boom)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("dfs")
	require.NoError(t, err)
	assert.Equal(t, ModeDFS, m)

	_, err = ParseMode("astar")
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

// ---------------------------------------------------------------------------
// ShortestPath
// ---------------------------------------------------------------------------

func pathNames(p []graph.Node) []string {
	out := make([]string, len(p))
	for i, n := range p {
		out[i] = n["name"].(string)
	}
	return out
}

func TestShortestPath_Chain(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B", "C", "D")
	link(t, g, ids, [2]string{"A", "B"}, [2]string{"B", "C"})
	tr := New(g)
	ctx := context.Background()

	path, found, err := tr.ShortestPath(ctx, ids["A"], ids["C"])
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"B", "C"}, pathNames(path))

	path, found, err = tr.ShortestPath(ctx, ids["A"], ids["D"])
	require.NoError(t, err, "unreachable is not an error")
	assert.False(t, found)
	assert.Nil(t, path)
}

func TestShortestPath_PrefersFewerHops(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B", "C", "D")
	link(t, g, ids,
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"},
		[2]string{"A", "C"},
	)

	path, found, err := New(g).ShortestPath(context.Background(), ids["A"], ids["D"])
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, path, 2)
	assert.Equal(t, "C", path[0]["name"], "C is reached from A first, not again through B")
	assert.Equal(t, "D", path[1]["name"])
}

func TestShortestPath_SelfIsNotFound(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A", "B")
	link(t, g, ids, [2]string{"A", "B"}, [2]string{"B", "A"})

	path, found, err := New(g).ShortestPath(context.Background(), ids["A"], ids["A"])
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, path)
}

func TestShortestPath_Validation(t *testing.T) {
	g := newTestGraph(t)
	ids := addNodes(t, g, "A")
	tr := New(g)
	ctx := context.Background()

	_, _, err := tr.ShortestPath(ctx, ids["A"], objectid.Nil)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	missing := objectid.New()
	_, _, err = tr.ShortestPath(ctx, ids["A"], missing)
	var ae *graph.AttributeError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "to", ae.Attribute)

	_, _, err = tr.ShortestPath(ctx, missing, ids["A"])
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "from", ae.Attribute)
}
