package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/docgraph/internal/graph"
)

// runCLI executes the root command against a badger store under dir and
// returns stdout.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--driver", "badger", "--path", filepath.Join(dir, "data"), "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dir, args...)
	require.NoError(t, err, "docgraph %s", strings.Join(args, " "))
	return out
}

func addNodeCLI(t *testing.T, dir, attrs string) string {
	t.Helper()
	return strings.TrimSpace(mustRun(t, dir, "node", "add", attrs))
}

func TestCLINodeLifecycle(t *testing.T) {
	dir := t.TempDir()

	id := addNodeCLI(t, dir, `{"name":"alice","age":30}`)
	require.Len(t, id, 32)

	var node map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "node", "get", id)), &node))
	assert.Equal(t, id, node["_id"])
	assert.Equal(t, "alice", node["name"])

	mustRun(t, dir, "node", "update", id, `{"age":31}`)
	node = nil
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "node", "get", id)), &node))
	assert.EqualValues(t, 31, node["age"])
	assert.Equal(t, "alice", node["name"])

	mustRun(t, dir, "node", "rm", id)
	_, err := runCLI(t, dir, "node", "get", id)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestCLINodeFind(t *testing.T) {
	dir := t.TempDir()
	addNodeCLI(t, dir, `{"type":"doc","name":"a"}`)
	addNodeCLI(t, dir, `{"type":"doc","name":"b"}`)
	addNodeCLI(t, dir, `{"type":"tag","name":"c"}`)

	out := mustRun(t, dir, "node", "find", "--where", `{"type":"doc"}`, "--fields", "name")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"name":"a"`)
	assert.NotContains(t, lines[0], `"type"`)

	out = mustRun(t, dir, "node", "find", "--skip", "1", "--limit", "1")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
	assert.Contains(t, out, `"name":"b"`)
}

func TestCLIEdgesAndTraversal(t *testing.T) {
	dir := t.TempDir()
	a := addNodeCLI(t, dir, `{"name":"A"}`)
	b := addNodeCLI(t, dir, `{"name":"B"}`)
	c := addNodeCLI(t, dir, `{"name":"C"}`)

	mustRun(t, dir, "edge", "add", a, b, `{"label":"knows"}`)
	mustRun(t, dir, "edge", "add", b, c)

	assert.Equal(t, "true\n", mustRun(t, dir, "edge", "has", a, b))
	assert.Equal(t, "false\n", mustRun(t, dir, "edge", "has", a, c))

	var ne struct {
		ID  string                    `json:"id"`
		In  map[string]map[string]any `json:"in"`
		Out map[string]map[string]any `json:"out"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "edge", "ls", b)), &ne))
	assert.Equal(t, b, ne.ID)
	assert.Contains(t, ne.In, a)
	assert.Equal(t, "knows", ne.In[a]["label"])
	assert.Contains(t, ne.Out, c)

	assert.Equal(t, a+" -> "+b+"\n"+b+" -> "+c+"\n", mustRun(t, dir, "bfs", a))
	assert.Equal(t, a+" -> "+b+"\n", mustRun(t, dir, "dfs", a, "--limit", "1"))
	assert.Equal(t, b+"\n"+c+"\n", mustRun(t, dir, "path", a, c))

	_, err := runCLI(t, dir, "path", c, a)
	assert.ErrorIs(t, err, errNoPath)

	mustRun(t, dir, "edge", "rm", a, b)
	assert.Equal(t, "false\n", mustRun(t, dir, "edge", "has", a, b))
}

func TestCLIEdgeMissingEndpoint(t *testing.T) {
	dir := t.TempDir()
	a := addNodeCLI(t, dir, `{"name":"A"}`)
	ghost := addNodeCLI(t, dir, `{"name":"ghost"}`)
	mustRun(t, dir, "node", "rm", ghost)

	_, err := runCLI(t, dir, "edge", "add", ghost, a)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)

	_, err = runCLI(t, dir, "edge", "add", a, ghost)
	var attrErr *graph.AttributeError
	assert.ErrorAs(t, err, &attrErr)
}

func TestCLIExport(t *testing.T) {
	dir := t.TempDir()
	a := addNodeCLI(t, dir, `{"name":"A"}`)
	b := addNodeCLI(t, dir, `{"name":"B"}`)
	mustRun(t, dir, "edge", "add", a, b, `{"label":"x"}`)

	out := mustRun(t, dir, "export", "--format", "mermaid")
	assert.Equal(t, "graph TD\n  N0[\"A\"]\n  N1[\"B\"]\n  N0 -->|\"x\"| N1\n", out)

	path := filepath.Join(dir, "graph.json")
	mustRun(t, dir, "--database", "graph", "export", "-o", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap struct {
		Database string           `json:"database"`
		Nodes    []map[string]any `json:"nodes"`
		Edges    []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "graph", snap.Database)
	assert.Len(t, snap.Nodes, 2)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, a, snap.Edges[0]["from"])

	_, err = runCLI(t, dir, "export", "--format", "dot")
	assert.Error(t, err)
}

func TestCLIInvalidInput(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "node", "add", `[1,2]`)
	assert.Error(t, err)

	_, err = runCLI(t, dir, "node", "get", "nope")
	assert.Error(t, err)

	_, err = runCLI(t, dir, "edge", "ls", strings.Repeat("a", 32), "--direction", "sideways")
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	_, err = runCLI(t, dir, "--log-level", "loud", "node", "add")
	assert.Error(t, err)
}

func TestCLIConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docgraph.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  driver: memory\ndatabase: scratch\nlog:\n  level: error\n"), 0o644))

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "node", "add", `{"name":"x"}`})
	require.NoError(t, cmd.Execute())
	assert.Len(t, strings.TrimSpace(stdout.String()), 32)
}
