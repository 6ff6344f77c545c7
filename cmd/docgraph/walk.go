package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/traverse"
)

// errNoPath is returned by the path command when the target is unreachable.
var errNoPath = errors.New("no path")

// newWalkCmd builds the bfs and dfs commands. Each prints one
// "<parent> -> <node>" line per step.
func newWalkCmd(a *app, mode, short string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   mode + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, store *graph.Store, args []string) error {
			from, err := parseIDArg("id", args[0])
			if err != nil {
				return err
			}
			m, err := traverse.ParseMode(mode)
			if err != nil {
				return err
			}
			it, err := traverse.New(store).Walk(ctx, m, from)
			if err != nil {
				return err
			}
			n := 0
			for (limit <= 0 || n < limit) && it.Next(ctx) {
				step := it.Step()
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", step.Parent.ID(), step.Node.ID())
				n++
			}
			return it.Err()
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many steps (0 for no limit)")
	return cmd
}

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Print a path with the fewest edges, one node identifier per line",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, store *graph.Store, args []string) error {
			from, to, err := parseEndpointArgs(args)
			if err != nil {
				return err
			}
			path, found, err := traverse.New(store).ShortestPath(ctx, from, to)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s to %s: %w", from, to, errNoPath)
			}
			for _, n := range path {
				fmt.Fprintln(cmd.OutOrStdout(), n.ID())
			}
			return nil
		}),
	}
}
