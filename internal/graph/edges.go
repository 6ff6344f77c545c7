package graph

import (
	"context"
	"fmt"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// HasEdge reports whether from has outgoing edges (to the node to, when
// to is non-zero). Failing that, it reports whether any adjacency
// document has an edge into from. The second check ignores to.
func (s *Store) HasEdge(ctx context.Context, from, to objectid.ID) (found bool, err error) {
	if err := checkID("from", from); err != nil {
		return false, err
	}
	ctx, done := startOp(ctx, "has_edge")
	defer done(&err)

	out := docstore.ByID(from)
	if !to.IsZero() {
		out.Exists = []string{to.Hex()}
	}
	doc, err := s.edges.FindOne(ctx, docstore.FindOneRequest{Filter: out, Fields: idOnly})
	if err != nil {
		return false, fmt.Errorf("graph: has edge: %w", err)
	}
	if doc != nil {
		return true, nil
	}

	doc, err = s.edges.FindOne(ctx, docstore.FindOneRequest{Filter: docstore.FieldExists(from.Hex()), Fields: idOnly})
	if err != nil {
		return false, fmt.Errorf("graph: has edge: %w", err)
	}
	return doc != nil, nil
}

// GetNodeEdges returns the edges of id in the requested direction.
// Outgoing entries are the adjacency document's fields; incoming entries
// are keyed by source, carry _from_id and omit _to_id.
func (s *Store) GetNodeEdges(ctx context.Context, id objectid.ID, dir Direction) (ne *NodeEdges, err error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	if !dir.valid() {
		return nil, &InvalidArgumentError{Param: "direction", Reason: fmt.Sprintf("unsupported value %q", dir)}
	}
	ctx, done := startOp(ctx, "get_node_edges")
	defer done(&err)

	ne = &NodeEdges{ID: id}
	key := id.Hex()

	if dir.wantsIn() {
		ne.In = make(map[string]Attrs)
		cur, err := s.edges.Find(ctx, docstore.FindRequest{Filter: docstore.FieldExists(key)})
		if err != nil {
			return nil, fmt.Errorf("graph: incoming edges of %s: %w", id, err)
		}
		for cur.Next(ctx) {
			doc := cur.Document()
			attrs, ok := asAttrs(doc[key])
			if !ok {
				continue
			}
			attrs[FromIDField] = doc.ID()
			delete(attrs, ToIDField)
			ne.In[doc.ID().Hex()] = attrs
		}
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("graph: incoming edges of %s: %w", id, err)
		}
	}

	if dir.wantsOut() {
		ne.Out = make(map[string]Attrs)
		doc, err := s.edges.FindOne(ctx, docstore.FindOneRequest{Filter: docstore.ByID(id)})
		if err != nil {
			return nil, fmt.Errorf("graph: outgoing edges of %s: %w", id, err)
		}
		for k, v := range doc {
			if k == docstore.IDField {
				continue
			}
			if attrs, ok := asAttrs(v); ok {
				ne.Out[k] = attrs
			}
		}
	}
	return ne, nil
}

// GetEdge returns the attributes of the edge from -> to, including
// _to_id. It fails with ErrEdgeNotFound when there is no such edge.
func (s *Store) GetEdge(ctx context.Context, from, to objectid.ID) (attrs Attrs, err error) {
	if err := checkID("from", from); err != nil {
		return nil, err
	}
	if err := checkID("to", to); err != nil {
		return nil, err
	}
	ctx, done := startOp(ctx, "get_edge")
	defer done(&err)

	key := to.Hex()
	doc, err := s.edges.FindOne(ctx, docstore.FindOneRequest{Filter: docstore.ByID(from), Fields: []string{key}})
	if err != nil {
		return nil, fmt.Errorf("graph: get edge %s -> %s: %w", from, to, err)
	}
	attrs, ok := asAttrs(doc[key])
	if !ok {
		return nil, fmt.Errorf("graph: get edge %s -> %s: %w", from, to, ErrEdgeNotFound)
	}
	return attrs, nil
}

// OutEdges returns the adjacency of id. A node without outgoing edges
// yields an Adjacency with no records.
func (s *Store) OutEdges(ctx context.Context, id objectid.ID) (adj *Adjacency, err error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	ctx, done := startOp(ctx, "out_edges")
	defer done(&err)

	doc, err := s.edges.FindOne(ctx, docstore.FindOneRequest{Filter: docstore.ByID(id)})
	if err != nil {
		return nil, fmt.Errorf("graph: outgoing edges of %s: %w", id, err)
	}
	if doc == nil {
		return &Adjacency{Source: id}, nil
	}
	return adjacencyFromDoc(doc), nil
}

// Edges lists every stored edge, grouped by source in identifier order.
// Edges whose endpoints have been removed without cleanup are included.
func (s *Store) Edges(ctx context.Context) (edges []Edge, err error) {
	ctx, done := startOp(ctx, "edges")
	defer done(&err)

	cur, err := s.edges.Find(ctx, docstore.FindRequest{})
	if err != nil {
		return nil, fmt.Errorf("graph: list edges: %w", err)
	}
	for cur.Next(ctx) {
		adj := adjacencyFromDoc(cur.Document())
		for _, rec := range adj.Edges {
			edges = append(edges, Edge{From: adj.Source, To: rec.Target, Attrs: rec.Attrs})
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("graph: list edges: %w", err)
	}
	return edges, nil
}

// AddEdge creates or updates the edge from -> to. See UpdateEdge.
func (s *Store) AddEdge(ctx context.Context, from, to objectid.ID, attrs Attrs) error {
	return s.UpdateEdge(ctx, from, to, attrs)
}

// UpdateEdge merges attrs into the edge from -> to, creating the edge and
// the adjacency document as needed. Both nodes must exist: a missing from
// fails with ErrNodeNotFound, a missing to with an *AttributeError. Nil
// attrs are treated as empty.
func (s *Store) UpdateEdge(ctx context.Context, from, to objectid.ID, attrs Attrs) (err error) {
	if err := checkID("from", from); err != nil {
		return err
	}
	if err := checkID("to", to); err != nil {
		return err
	}
	if err := checkAttrs("attrs", attrs); err != nil {
		return err
	}
	ctx, done := startOp(ctx, "update_edge")
	defer done(&err)

	ok, err := s.HasNode(ctx, from)
	if err != nil {
		return fmt.Errorf("graph: update edge: %w", err)
	}
	if !ok {
		return fmt.Errorf("graph: update edge: from %s: %w", from, ErrNodeNotFound)
	}
	ok, err = s.HasNode(ctx, to)
	if err != nil {
		return fmt.Errorf("graph: update edge: %w", err)
	}
	if !ok {
		return &AttributeError{Attribute: "to", ID: to}
	}

	prefix := to.Hex() + "."
	set := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		set[prefix+k] = v
	}
	set[prefix+ToIDField] = to

	_, err = s.edges.Update(ctx, docstore.UpdateRequest{
		Filter:  docstore.ByID(from),
		Update:  docstore.Update{Set: set},
		Upsert:  true,
		Durable: s.durable,
	})
	if err != nil {
		return fmt.Errorf("graph: update edge %s -> %s: %w", from, to, err)
	}
	return nil
}

// RemoveEdge deletes the edge from -> to. Neither node is touched and
// the adjacency document is kept even when it becomes empty.
func (s *Store) RemoveEdge(ctx context.Context, from, to objectid.ID) (err error) {
	if err := checkID("from", from); err != nil {
		return err
	}
	if err := checkID("to", to); err != nil {
		return err
	}
	ctx, done := startOp(ctx, "remove_edge")
	defer done(&err)

	_, err = s.edges.Update(ctx, docstore.UpdateRequest{
		Filter:  docstore.ByID(from),
		Update:  docstore.Update{Unset: []string{to.Hex()}},
		Durable: s.durable,
	})
	if err != nil {
		return fmt.Errorf("graph: remove edge %s -> %s: %w", from, to, err)
	}
	return nil
}
