package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/encoding/json"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/graph"
)

// Source is the read surface an export needs. *graph.Store implements it.
type Source interface {
	FindNodes(ctx context.Context, req graph.FindNodesRequest) (*docstore.Cursor, error)
	Edges(ctx context.Context) ([]graph.Edge, error)
}

var _ Source = (*graph.Store)(nil)

// Snapshot is the top-level JSON export structure.
type Snapshot struct {
	Database   string       `json:"database"`
	ExportedAt string       `json:"exportedAt"`
	Nodes      []graph.Node `json:"nodes"`
	Edges      []graph.Edge `json:"edges"`
}

// TakeSnapshot reads every node and edge. The two collections are read
// concurrently and independently, so a snapshot taken under concurrent
// writes may hold edges whose endpoints it does not list.
func TakeSnapshot(ctx context.Context, src Source, database string) (*Snapshot, error) {
	snap := &Snapshot{
		Database:   database,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := src.FindNodes(gctx, graph.FindNodesRequest{})
		if err != nil {
			return fmt.Errorf("load nodes: %w", err)
		}
		nodes, err := cur.All(gctx)
		if err != nil {
			return fmt.Errorf("load nodes: %w", err)
		}
		snap.Nodes = nodes
		return nil
	})
	g.Go(func() error {
		edges, err := src.Edges(gctx)
		if err != nil {
			return fmt.Errorf("load edges: %w", err)
		}
		snap.Edges = edges
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if snap.Nodes == nil {
		snap.Nodes = []graph.Node{}
	}
	if snap.Edges == nil {
		snap.Edges = []graph.Edge{}
	}
	return snap, nil
}

// WriteJSON writes snap as indented JSON. Identifiers render as hex.
func WriteJSON(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
