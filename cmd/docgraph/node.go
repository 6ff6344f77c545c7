package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/logging"
)

func newNodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Create, read, update and remove nodes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [attrs-json]",
			Short: "Create a node and print its identifier",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.withStore(runNodeAdd),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Print a node as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  a.withStore(runNodeGet),
		},
		&cobra.Command{
			Use:   "update <id> <attrs-json>",
			Short: "Merge attributes into a node, creating it if absent",
			Args:  cobra.ExactArgs(2),
			RunE:  a.withStore(runNodeUpdate),
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"remove"},
			Short:   "Remove a node and its edges",
			Args:    cobra.ExactArgs(1),
			RunE:    a.withStore(runNodeRemove),
		},
		newNodeFindCmd(a),
	)
	return cmd
}

func runNodeAdd(ctx context.Context, cmd *cobra.Command, store *graph.Store, args []string) error {
	attrs, err := parseAttrs(optionalArg(args, 0))
	if err != nil {
		return err
	}
	id, err := store.AddNode(ctx, attrs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
	return nil
}

func runNodeGet(ctx context.Context, cmd *cobra.Command, store *graph.Store, args []string) error {
	id, err := parseIDArg("id", args[0])
	if err != nil {
		return err
	}
	node, err := store.GetNode(ctx, id)
	if err != nil {
		return err
	}
	if node == nil {
		return fmt.Errorf("node %s: %w", id, graph.ErrNodeNotFound)
	}
	return writeJSON(cmd.OutOrStdout(), node)
}

func runNodeUpdate(ctx context.Context, _ *cobra.Command, store *graph.Store, args []string) error {
	id, err := parseIDArg("id", args[0])
	if err != nil {
		return err
	}
	attrs, err := parseAttrs(args[1])
	if err != nil {
		return err
	}
	return store.UpdateNode(ctx, id, attrs)
}

func runNodeRemove(ctx context.Context, _ *cobra.Command, store *graph.Store, args []string) error {
	id, err := parseIDArg("id", args[0])
	if err != nil {
		return err
	}
	cleaned, err := store.RemoveNode(ctx, id)
	if err != nil {
		return err
	}
	if !cleaned {
		logging.FromContext(ctx).Warn("node removed but edge cleanup was incomplete", "id", id.Hex())
	}
	return nil
}

type nodeFindFlags struct {
	Where  string
	Exists string
	Fields string
	Skip   int
	Limit  int
}

func newNodeFindCmd(a *app) *cobra.Command {
	var flags nodeFindFlags
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print matching nodes, one JSON document per line",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, store *graph.Store, _ []string) error {
			where, err := parseAttrs(flags.Where)
			if err != nil {
				return fmt.Errorf("--where: %w", err)
			}
			req := graph.FindNodesRequest{
				Where:  docstore.Filter{Exists: splitList(flags.Exists)},
				Fields: splitList(flags.Fields),
				Skip:   flags.Skip,
				Limit:  flags.Limit,
			}
			if len(where) > 0 {
				req.Where.Equals = where
			}
			cur, err := store.FindNodes(ctx, req)
			if err != nil {
				return err
			}
			for cur.Next(ctx) {
				if err := writeJSON(cmd.OutOrStdout(), cur.Document()); err != nil {
					return err
				}
			}
			return cur.Err()
		}),
	}
	f := cmd.Flags()
	f.StringVar(&flags.Where, "where", "", `JSON object of required field values, e.g. '{"type":"doc"}'`)
	f.StringVar(&flags.Exists, "exists", "", "comma-separated fields that must be present")
	f.StringVar(&flags.Fields, "fields", "", "comma-separated fields to print (_id is always included)")
	f.IntVar(&flags.Skip, "skip", 0, "number of matches to skip")
	f.IntVar(&flags.Limit, "limit", 0, "maximum number of matches (0 for no limit)")
	return cmd
}
