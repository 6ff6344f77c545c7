// Package graph stores a directed attributed graph in a document store.
//
// Nodes are documents in the "nodes" collection. Edges are not documents
// of their own: every node with outgoing edges owns one adjacency
// document in the "edges" collection whose _id is the node's identifier
// and whose fields map each target's hex identifier to that edge's
// attributes:
//
//	{_id: A, "<B hex>": {w: 1, _to_id: B}, "<C hex>": {_to_id: C}}
//
// Endpoint existence is checked when an edge is written, not enforced
// afterwards. RemoveNode cascades to the node's outgoing and incoming
// edges on a best-effort basis.
//
// Store adds no locking and no cross-document atomicity; every call is a
// sequence of independent store round trips.
package graph

import (
	"context"
	"fmt"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/logging"
)

// Store is the graph API over a docstore database.
type Store struct {
	nodes   *docstore.Collection
	edges   *docstore.Collection
	durable bool
}

// Option configures a Store.
type Option func(*Store)

// WithDurable sets whether writes wait for a durable acknowledgement.
// The default is true.
func WithDurable(durable bool) Option {
	return func(s *Store) { s.durable = durable }
}

// New opens the nodes and edges collections of db and declares the node
// indexes. Index declaration is best-effort: failures are logged.
func New(ctx context.Context, db *docstore.Database, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, &InvalidArgumentError{Param: "db", Reason: "nil database"}
	}
	nodes, err := db.Collection(NodesCollection)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", NodesCollection, err)
	}
	edges, err := db.Collection(EdgesCollection)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", EdgesCollection, err)
	}

	s := &Store{nodes: nodes, edges: edges, durable: true}
	for _, opt := range opts {
		opt(s)
	}

	logger := logging.FromContext(ctx)
	for _, field := range nodeIndexes {
		if err := nodes.EnsureIndex(ctx, field); err != nil {
			logger.Warn("graph: ensure index failed", "collection", NodesCollection, "field", field, "error", err)
		}
	}
	return s, nil
}
