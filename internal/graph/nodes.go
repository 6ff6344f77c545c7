package graph

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/logging"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// idOnly projects documents onto their identifier.
var idOnly = []string{docstore.IDField}

// AddNode stores a node and returns its new identifier.
func (s *Store) AddNode(ctx context.Context, attrs Attrs) (id objectid.ID, err error) {
	if attrs == nil {
		return objectid.Nil, &InvalidArgumentError{Param: "attrs", Reason: "nil attribute map"}
	}
	if err := checkAttrs("attrs", attrs); err != nil {
		return objectid.Nil, err
	}
	ctx, done := startOp(ctx, "add_node")
	defer done(&err)

	ids, err := s.nodes.Insert(ctx, docstore.InsertRequest{
		Documents: []docstore.Document{docstore.Document(attrs)},
		Durable:   s.durable,
	})
	if err != nil {
		return objectid.Nil, fmt.Errorf("graph: add node: %w", err)
	}
	return ids[0], nil
}

// AddNodes stores a batch of nodes and returns their identifiers in input
// order.
func (s *Store) AddNodes(ctx context.Context, batch []Attrs) (ids []objectid.ID, err error) {
	if len(batch) == 0 {
		return nil, &InvalidArgumentError{Param: "attrs", Reason: "empty batch"}
	}
	docs := make([]docstore.Document, len(batch))
	for i, attrs := range batch {
		param := fmt.Sprintf("attrs[%d]", i)
		if attrs == nil {
			return nil, &InvalidArgumentError{Param: param, Reason: "nil attribute map"}
		}
		if err := checkAttrs(param, attrs); err != nil {
			return nil, err
		}
		docs[i] = docstore.Document(attrs)
	}
	ctx, done := startOp(ctx, "add_nodes", attribute.Int("batch", len(batch)))
	defer done(&err)

	ids, err = s.nodes.Insert(ctx, docstore.InsertRequest{Documents: docs, Durable: s.durable})
	if err != nil {
		return ids, fmt.Errorf("graph: add nodes: %w", err)
	}
	return ids, nil
}

// UpdateNode merges attrs into the node: given keys are overwritten,
// other keys are kept. A node that does not exist is created under id.
func (s *Store) UpdateNode(ctx context.Context, id objectid.ID, attrs Attrs) (err error) {
	if err := checkID("id", id); err != nil {
		return err
	}
	if len(attrs) == 0 {
		return &InvalidArgumentError{Param: "attrs", Reason: "no attributes to set"}
	}
	if err := checkAttrs("attrs", attrs); err != nil {
		return err
	}
	ctx, done := startOp(ctx, "update_node")
	defer done(&err)

	_, err = s.nodes.Update(ctx, docstore.UpdateRequest{
		Filter:  docstore.ByID(id),
		Update:  docstore.Update{Set: map[string]any(attrs)},
		Upsert:  true,
		Durable: s.durable,
	})
	if err != nil {
		return fmt.Errorf("graph: update node %s: %w", id, err)
	}
	return nil
}

// RemoveNode deletes the node and cascades to its edges. A failure to
// delete the node document is returned; cleanup failures are logged and
// reported only through cleaned.
func (s *Store) RemoveNode(ctx context.Context, id objectid.ID) (cleaned bool, err error) {
	if err := checkID("id", id); err != nil {
		return false, err
	}
	ctx, done := startOp(ctx, "remove_node")
	defer done(&err)

	if _, err := s.nodes.Remove(ctx, docstore.RemoveRequest{Filter: docstore.ByID(id), Durable: s.durable}); err != nil {
		return false, fmt.Errorf("graph: remove node %s: %w", id, err)
	}
	return s.cleanupEdges(ctx, id, false), nil
}

// GetNode returns the node document, or nil when it does not exist.
func (s *Store) GetNode(ctx context.Context, id objectid.ID) (node Node, err error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	ctx, done := startOp(ctx, "get_node")
	defer done(&err)

	doc, err := s.nodes.FindOne(ctx, docstore.FindOneRequest{Filter: docstore.ByID(id)})
	if err != nil {
		return nil, fmt.Errorf("graph: get node %s: %w", id, err)
	}
	return doc, nil
}

// FindNodes returns a cursor over nodes matching req.Where.
func (s *Store) FindNodes(ctx context.Context, req FindNodesRequest) (cur *docstore.Cursor, err error) {
	if req.Skip < 0 {
		return nil, &InvalidArgumentError{Param: "skip", Reason: "negative"}
	}
	if req.Limit < 0 {
		return nil, &InvalidArgumentError{Param: "limit", Reason: "negative"}
	}
	for _, f := range req.Fields {
		if f == "" {
			return nil, &InvalidArgumentError{Param: "fields", Reason: "empty field name"}
		}
	}
	ctx, done := startOp(ctx, "find_nodes")
	defer done(&err)

	cur, err = s.nodes.Find(ctx, docstore.FindRequest{
		Filter: req.Where,
		Fields: req.Fields,
		Skip:   req.Skip,
		Limit:  req.Limit,
		Eager:  req.Eager,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: find nodes: %w", err)
	}
	return cur, nil
}

// HasNode reports whether a node with id exists.
func (s *Store) HasNode(ctx context.Context, id objectid.ID) (bool, error) {
	if err := checkID("id", id); err != nil {
		return false, err
	}
	return s.HasNodeMatching(ctx, docstore.ByID(id))
}

// HasNodeMatching reports whether any node matches f.
func (s *Store) HasNodeMatching(ctx context.Context, f docstore.Filter) (found bool, err error) {
	ctx, done := startOp(ctx, "has_node")
	defer done(&err)

	doc, err := s.nodes.FindOne(ctx, docstore.FindOneRequest{Filter: f, Fields: idOnly})
	if err != nil {
		return false, fmt.Errorf("graph: has node: %w", err)
	}
	return doc != nil, nil
}

// cleanupEdges removes id's adjacency document and strips id from every
// other adjacency document. Unless force is set it does nothing while the
// node still exists. Both steps always run; the result is false if
// either failed.
func (s *Store) cleanupEdges(ctx context.Context, id objectid.ID, force bool) bool {
	logger := logging.FromContext(ctx).With("node", id.Hex())

	if !force {
		exists, err := s.HasNode(ctx, id)
		if err != nil {
			logger.Warn("graph: cleanup existence check failed", "error", err)
			recordCleanupFailure(ctx, "check")
			return false
		}
		if exists {
			logger.Debug("graph: cleanup skipped, node still exists")
			return false
		}
	}

	ok := true
	if _, err := s.edges.Remove(ctx, docstore.RemoveRequest{Filter: docstore.ByID(id), Durable: s.durable}); err != nil {
		logger.Warn("graph: remove outgoing edges failed", "error", err)
		recordCleanupFailure(ctx, "out")
		ok = false
	}

	key := id.Hex()
	_, err := s.edges.Update(ctx, docstore.UpdateRequest{
		Filter:  docstore.FieldExists(key),
		Update:  docstore.Update{Unset: []string{key}},
		Multi:   true,
		Durable: s.durable,
	})
	if err != nil {
		logger.Warn("graph: strip incoming edges failed", "error", err)
		recordCleanupFailure(ctx, "in")
		ok = false
	}
	return ok
}
