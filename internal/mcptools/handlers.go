package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
	"github.com/dusk-indust/docgraph/internal/traverse"
)

// DefaultTraverseLimit caps traverse results when the caller sets no limit.
const DefaultTraverseLimit = 100

// GraphService holds the graph store and traverser used by MCP tool handlers.
type GraphService struct {
	store     *graph.Store
	traverser *traverse.Traverser
}

// NewGraphService creates a GraphService over store.
func NewGraphService(store *graph.Store) *GraphService {
	return &GraphService{store: store, traverser: traverse.New(store)}
}

func parseID(param, s string) (objectid.ID, error) {
	if s == "" {
		return objectid.Nil, fmt.Errorf("%s is required", param)
	}
	id, err := objectid.FromHex(s)
	if err != nil {
		return objectid.Nil, fmt.Errorf("%s: %w", param, err)
	}
	return id, nil
}

func parseEndpoints(from, to string) (objectid.ID, objectid.ID, error) {
	f, err := parseID("from", from)
	if err != nil {
		return objectid.Nil, objectid.Nil, err
	}
	t, err := parseID("to", to)
	if err != nil {
		return objectid.Nil, objectid.Nil, err
	}
	return f, t, nil
}

// AddNode creates a node.
func (s *GraphService) AddNode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddNodeInput,
) (*mcp.CallToolResult, AddNodeOutput, error) {
	attrs := graph.Attrs(input.Attrs)
	if attrs == nil {
		attrs = graph.Attrs{}
	}
	id, err := s.store.AddNode(ctx, attrs)
	if err != nil {
		return nil, AddNodeOutput{}, err
	}
	return nil, AddNodeOutput{ID: id.Hex()}, nil
}

// GetNode fetches a node document.
func (s *GraphService) GetNode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetNodeInput,
) (*mcp.CallToolResult, GetNodeOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, GetNodeOutput{}, err
	}
	node, err := s.store.GetNode(ctx, id)
	if err != nil {
		return nil, GetNodeOutput{}, err
	}
	if node == nil {
		return nil, GetNodeOutput{}, nil
	}
	return nil, GetNodeOutput{Found: true, Node: node}, nil
}

// UpdateNode merges attributes into a node, creating it if absent.
func (s *GraphService) UpdateNode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateNodeInput,
) (*mcp.CallToolResult, UpdateNodeOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, UpdateNodeOutput{}, err
	}
	if err := s.store.UpdateNode(ctx, id, graph.Attrs(input.Attrs)); err != nil {
		return nil, UpdateNodeOutput{}, err
	}
	return nil, UpdateNodeOutput{ID: id.Hex()}, nil
}

// RemoveNode deletes a node and cascades to its edges.
func (s *GraphService) RemoveNode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveNodeInput,
) (*mcp.CallToolResult, RemoveNodeOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, RemoveNodeOutput{}, err
	}
	cleaned, err := s.store.RemoveNode(ctx, id)
	if err != nil {
		return nil, RemoveNodeOutput{}, err
	}
	return nil, RemoveNodeOutput{Cleaned: cleaned}, nil
}

// AddEdge creates or updates an edge.
func (s *GraphService) AddEdge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EdgeInput,
) (*mcp.CallToolResult, EdgeOutput, error) {
	from, to, err := parseEndpoints(input.From, input.To)
	if err != nil {
		return nil, EdgeOutput{}, err
	}
	if err := s.store.AddEdge(ctx, from, to, graph.Attrs(input.Attrs)); err != nil {
		return nil, EdgeOutput{}, err
	}
	return nil, EdgeOutput{From: from.Hex(), To: to.Hex()}, nil
}

// RemoveEdge deletes an edge.
func (s *GraphService) RemoveEdge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveEdgeInput,
) (*mcp.CallToolResult, EdgeOutput, error) {
	from, to, err := parseEndpoints(input.From, input.To)
	if err != nil {
		return nil, EdgeOutput{}, err
	}
	if err := s.store.RemoveEdge(ctx, from, to); err != nil {
		return nil, EdgeOutput{}, err
	}
	return nil, EdgeOutput{From: from.Hex(), To: to.Hex()}, nil
}

// GetNodeEdges lists a node's incoming and/or outgoing edges.
func (s *GraphService) GetNodeEdges(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetNodeEdgesInput,
) (*mcp.CallToolResult, GetNodeEdgesOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, GetNodeEdgesOutput{}, err
	}
	dir := graph.DirectionBoth
	if input.Direction != "" {
		if dir, err = graph.ParseDirection(input.Direction); err != nil {
			return nil, GetNodeEdgesOutput{}, err
		}
	}
	ne, err := s.store.GetNodeEdges(ctx, id, dir)
	if err != nil {
		return nil, GetNodeEdgesOutput{}, err
	}
	return nil, GetNodeEdgesOutput{ID: id.Hex(), In: plainEdges(ne.In), Out: plainEdges(ne.Out)}, nil
}

func plainEdges(m map[string]graph.Attrs) map[string]map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Traverse walks the graph breadth- or depth-first from a node.
func (s *GraphService) Traverse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TraverseInput,
) (*mcp.CallToolResult, TraverseOutput, error) {
	from, err := parseID("from", input.From)
	if err != nil {
		return nil, TraverseOutput{}, err
	}
	mode := traverse.ModeBFS
	if input.Mode != "" {
		if mode, err = traverse.ParseMode(input.Mode); err != nil {
			return nil, TraverseOutput{}, err
		}
	}
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultTraverseLimit
	}

	it, err := s.traverser.Walk(ctx, mode, from)
	if err != nil {
		return nil, TraverseOutput{}, err
	}
	var out TraverseOutput
	for it.Next(ctx) {
		if len(out.Steps) == limit {
			out.Truncated = true
			break
		}
		step := it.Step()
		out.Steps = append(out.Steps, StepOutput{Parent: step.Parent, Node: step.Node})
	}
	if err := it.Err(); err != nil {
		return nil, TraverseOutput{}, err
	}
	return nil, out, nil
}

// ShortestPath finds an unweighted shortest path between two nodes.
func (s *GraphService) ShortestPath(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ShortestPathInput,
) (*mcp.CallToolResult, ShortestPathOutput, error) {
	from, to, err := parseEndpoints(input.From, input.To)
	if err != nil {
		return nil, ShortestPathOutput{}, err
	}
	path, found, err := s.traverser.ShortestPath(ctx, from, to)
	if err != nil {
		return nil, ShortestPathOutput{}, err
	}
	out := ShortestPathOutput{Found: found}
	for _, n := range path {
		out.Path = append(out.Path, n)
	}
	return nil, out, nil
}
