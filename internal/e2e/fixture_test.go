//go:build e2e

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// fixture is a graph described by node names.
type fixture struct {
	Nodes []map[string]any `json:"nodes"`
	Edges []struct {
		From  string         `json:"from"`
		To    string         `json:"to"`
		Attrs map[string]any `json:"attrs"`
	} `json:"edges"`
}

func testdataDir(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	data, err := os.ReadFile(testdataDir("fixtures", name))
	require.NoError(t, err)
	var fx fixture
	require.NoError(t, json.Unmarshal(data, &fx))
	return fx
}

// openStore connects to driver at path and returns a graph store; the
// returned close func releases the client.
func openStore(t *testing.T, driver, path string) (*graph.Store, func()) {
	t.Helper()
	ctx := context.Background()
	client, err := docstore.Connect(ctx, docstore.Config{Driver: driver, Path: path})
	require.NoError(t, err)
	db, err := client.Database("e2e")
	require.NoError(t, err)
	store, err := graph.New(ctx, db, graph.WithDurable(true))
	require.NoError(t, err)
	return store, func() { require.NoError(t, client.Close()) }
}

// build inserts fx in declaration order and returns node ids by name.
func build(t *testing.T, store *graph.Store, fx fixture) map[string]objectid.ID {
	t.Helper()
	ctx := context.Background()

	batch := make([]graph.Attrs, len(fx.Nodes))
	for i, n := range fx.Nodes {
		batch[i] = n
	}
	ids, err := store.AddNodes(ctx, batch)
	require.NoError(t, err)

	byName := make(map[string]objectid.ID, len(ids))
	for i, n := range fx.Nodes {
		byName[n["name"].(string)] = ids[i]
	}
	for _, e := range fx.Edges {
		require.NoError(t, store.AddEdge(ctx, byName[e.From], byName[e.To], e.Attrs), "%s -> %s", e.From, e.To)
	}
	return byName
}

func names(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i], _ = n["name"].(string)
	}
	return out
}
