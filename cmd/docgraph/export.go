package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/docgraph/internal/export"
	"github.com/dusk-indust/docgraph/internal/graph"
)

func newExportCmd(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole graph as JSON or a Mermaid flowchart",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, store *graph.Store, _ []string) error {
			if format != "json" && format != "mermaid" {
				return fmt.Errorf("unknown format %q (want json or mermaid)", format)
			}
			snap, err := export.TakeSnapshot(ctx, store, a.cfg.Database)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if format == "json" {
				return export.WriteJSON(w, snap)
			}
			_, err = io.WriteString(w, export.RenderMermaid(snap))
			return err
		}),
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or mermaid")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
