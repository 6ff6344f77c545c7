package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/docgraph/internal/config"
	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	ConfigPath string
	Driver     string
	Path       string
	Database   string
	LogLevel   string
}

// app carries the resolved configuration and the open store for one
// command invocation.
type app struct {
	flags  globalFlags
	cfg    *config.Config
	logger *slog.Logger
	client *docstore.Client
	store  *graph.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "docgraph",
		Short:         "A directed property graph stored in a document database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "config file (default: docgraph.yml in the working directory)")
	pf.StringVar(&a.flags.Driver, "driver", "", "store driver: memory, badger or kuzu")
	pf.StringVar(&a.flags.Path, "path", "", "store location for embedded drivers")
	pf.StringVar(&a.flags.Database, "database", "", "database name")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newNodeCmd(a),
		newEdgeCmd(a),
		newWalkCmd(a, "bfs", "Walk the graph breadth-first from a node"),
		newWalkCmd(a, "dfs", "Walk the graph depth-first from a node"),
		newPathCmd(a),
		newExportCmd(a),
		newServeMCPCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and installs the
// logger on the command context.
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.ConfigPath != "" {
		cfg, err = config.LoadFile(a.flags.ConfigPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}

	if a.flags.Driver != "" {
		cfg.Store.Driver = a.flags.Driver
	}
	if a.flags.Path != "" {
		cfg.Store.Path = a.flags.Path
	}
	if a.flags.Database != "" {
		cfg.Database = a.flags.Database
	}
	if a.flags.LogLevel != "" {
		cfg.Log.Level = a.flags.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}

// open connects to the configured store on first use.
func (a *app) open(ctx context.Context) (*graph.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	storeCfg := a.cfg.Store
	storeCfg.Logger = a.logger
	client, err := docstore.Connect(ctx, storeCfg)
	if err != nil {
		return nil, err
	}
	db, err := client.Database(a.cfg.Database)
	if err != nil {
		client.Close()
		return nil, err
	}
	store, err := graph.New(ctx, db, graph.WithDurable(a.cfg.Durable))
	if err != nil {
		client.Close()
		return nil, err
	}
	a.logger.Debug("store opened", "driver", storeCfg.Driver, "path", storeCfg.Path, "database", a.cfg.Database)
	a.client = client
	a.store = store
	return store, nil
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client, a.store = nil, nil
	return err
}

// withStore adapts a store-using function to cobra's RunE. The store is
// closed when fn returns.
func (a *app) withStore(fn func(ctx context.Context, cmd *cobra.Command, store *graph.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		store, err := a.open(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd.Context(), cmd, store, args)
	}
}
