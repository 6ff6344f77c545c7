package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with all 9 graph tools registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "docgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_node",
		Description: "Create a node with the given attributes. Returns its identifier.",
	}, svc.AddNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_node",
		Description: "Fetch a node document by identifier. found is false when the node does not exist.",
	}, svc.GetNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_node",
		Description: "Merge attributes into a node. Existing keys not given are kept. A missing node is created under the identifier.",
	}, svc.UpdateNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_node",
		Description: "Delete a node and remove its outgoing and incoming edges. cleaned is false if edge cleanup partially failed.",
	}, svc.RemoveNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_edge",
		Description: "Create or update the directed edge from -> to, merging attributes. Both nodes must exist.",
	}, svc.AddEdge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_edge",
		Description: "Delete the directed edge from -> to. The nodes are kept.",
	}, svc.RemoveEdge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_node_edges",
		Description: "List a node's incoming and/or outgoing edges keyed by the other endpoint's identifier.",
	}, svc.GetNodeEdges)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "traverse",
		Description: "Walk the graph breadth-first (bfs) or depth-first (dfs) from a node. Each reachable node is returned once with the node it was reached from.",
	}, svc.Traverse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shortest_path",
		Description: "Find a path with the fewest edges between two nodes. The path excludes the start node; found is false when the target is unreachable.",
	}, svc.ShortestPath)

	return server
}

// RunMCPServer starts an HTTP server exposing the graph MCP tools.
func RunMCPServer(ctx context.Context, svc *GraphService, addr string) error {
	server := NewGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking
// until stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, svc *GraphService) error {
	return NewGraphMCPServer(svc).Run(ctx, &mcp.StdioTransport{})
}
