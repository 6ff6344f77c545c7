package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/logging"
	"github.com/dusk-indust/docgraph/internal/mcptools"
)

func newServeMCPCmd(a *app) *cobra.Command {
	var httpAddr string
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the graph tools over MCP (stdio unless --http is set)",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(ctx context.Context, _ *cobra.Command, store *graph.Store, _ []string) error {
			addr := a.cfg.MCP.HTTPAddr
			if httpAddr != "" {
				addr = httpAddr
			}
			svc := mcptools.NewGraphService(store)
			if addr == "" {
				return mcptools.RunMCPServerStdio(ctx, svc)
			}
			logging.FromContext(ctx).Info("serving MCP over HTTP", "addr", addr)
			return mcptools.RunMCPServer(ctx, svc, addr)
		}),
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "listen address for streamable HTTP, e.g. :8080")
	return cmd
}
