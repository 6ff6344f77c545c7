package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

func newEdgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Create, inspect and remove directed edges",
	}

	var direction string
	ls := &cobra.Command{
		Use:   "ls <id>",
		Short: "Print a node's incoming and outgoing edges as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, store *graph.Store, args []string) error {
			id, err := parseIDArg("id", args[0])
			if err != nil {
				return err
			}
			dir, err := graph.ParseDirection(direction)
			if err != nil {
				return err
			}
			ne, err := store.GetNodeEdges(ctx, id, dir)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ne)
		}),
	}
	ls.Flags().StringVar(&direction, "direction", string(graph.DirectionBoth), "in, out or both")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <from> <to> [attrs-json]",
			Short: "Create an edge or merge attributes into an existing one",
			Args:  cobra.RangeArgs(2, 3),
			RunE:  a.withStore(runEdgeAdd),
		},
		&cobra.Command{
			Use:     "rm <from> <to>",
			Aliases: []string{"remove"},
			Short:   "Remove an edge",
			Args:    cobra.ExactArgs(2),
			RunE:    a.withStore(runEdgeRemove),
		},
		ls,
		&cobra.Command{
			Use:   "has <from> <to>",
			Short: "Print whether an edge exists",
			Args:  cobra.ExactArgs(2),
			RunE:  a.withStore(runEdgeHas),
		},
	)
	return cmd
}

func parseEndpointArgs(args []string) (from, to objectid.ID, err error) {
	if from, err = parseIDArg("from", args[0]); err != nil {
		return
	}
	to, err = parseIDArg("to", args[1])
	return
}

func runEdgeAdd(ctx context.Context, _ *cobra.Command, store *graph.Store, args []string) error {
	from, to, err := parseEndpointArgs(args)
	if err != nil {
		return err
	}
	attrs, err := parseAttrs(optionalArg(args, 2))
	if err != nil {
		return err
	}
	return store.AddEdge(ctx, from, to, attrs)
}

func runEdgeRemove(ctx context.Context, _ *cobra.Command, store *graph.Store, args []string) error {
	from, to, err := parseEndpointArgs(args)
	if err != nil {
		return err
	}
	return store.RemoveEdge(ctx, from, to)
}

func runEdgeHas(ctx context.Context, cmd *cobra.Command, store *graph.Store, args []string) error {
	from, to, err := parseEndpointArgs(args)
	if err != nil {
		return err
	}
	found, err := store.HasEdge(ctx, from, to)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), found)
	return nil
}
