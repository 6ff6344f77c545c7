package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

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

// seedGraph builds a -> b (labelled) and b -> c.
func seedGraph(t *testing.T, g *graph.Store) []objectid.ID {
	t.Helper()
	ctx := context.Background()
	ids, err := g.AddNodes(ctx, []graph.Attrs{{"name": "alpha"}, {"name": `say "hi"`}, {"kind": "anon"}})
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(ctx, ids[0], ids[1], graph.Attrs{"label": "knows"}))
	require.NoError(t, g.AddEdge(ctx, ids[1], ids[2], nil))
	return ids
}

func TestTakeSnapshot(t *testing.T) {
	g := newTestGraph(t)
	ids := seedGraph(t, g)

	snap, err := TakeSnapshot(context.Background(), g, "graph")
	require.NoError(t, err)
	assert.Equal(t, "graph", snap.Database)
	assert.NotEmpty(t, snap.ExportedAt)
	require.Len(t, snap.Nodes, 3)
	require.Len(t, snap.Edges, 2)
	assert.Equal(t, ids[0], snap.Edges[0].From)
	assert.Equal(t, ids[1], snap.Edges[0].To)
}

func TestTakeSnapshot_EmptyGraph(t *testing.T) {
	snap, err := TakeSnapshot(context.Background(), newTestGraph(t), "graph")
	require.NoError(t, err)
	assert.NotNil(t, snap.Nodes)
	assert.NotNil(t, snap.Edges)
}

type failingSource struct {
	Source
}

func (failingSource) Edges(context.Context) ([]graph.Edge, error) {
	return nil, errors.New("edges unavailable")
}

func TestTakeSnapshot_PropagatesErrors(t *testing.T) {
	_, err := TakeSnapshot(context.Background(), failingSource{Source: newTestGraph(t)}, "graph")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load edges")
}

func TestWriteJSON_RendersHexIdentifiers(t *testing.T) {
	g := newTestGraph(t)
	ids := seedGraph(t, g)
	snap, err := TakeSnapshot(context.Background(), g, "graph")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snap))

	var decoded struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []struct {
			From  string         `json:"from"`
			To    string         `json:"to"`
			Attrs map[string]any `json:"attrs"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Nodes, 3)
	assert.Equal(t, ids[0].Hex(), decoded.Nodes[0]["_id"])
	require.Len(t, decoded.Edges, 2)
	assert.Equal(t, ids[0].Hex(), decoded.Edges[0].From)
	assert.Equal(t, "knows", decoded.Edges[0].Attrs["label"])
	assert.Equal(t, ids[1].Hex(), decoded.Edges[0].Attrs[graph.ToIDField])
}

func TestGenerateMermaid(t *testing.T) {
	g := newTestGraph(t)
	ids := seedGraph(t, g)

	out, err := GenerateMermaid(context.Background(), g)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"graph TD",
		`  N0["alpha"]`,
		`  N1["say #quot;hi#quot;"]`,
		`  N2["` + ids[2].Hex()[:8] + `"]`,
		`  N0 -->|"knows"| N1`,
		`  N1 --> N2`,
	}, lines)
}

func TestRenderMermaid_SkipsDanglingEdges(t *testing.T) {
	a := objectid.New()
	snap := &Snapshot{
		Nodes: []graph.Node{{docstore.IDField: a, "name": "a"}},
		Edges: []graph.Edge{{From: a, To: objectid.New()}},
	}
	assert.Equal(t, "graph TD\n  N0[\"a\"]\n", RenderMermaid(snap))
}
