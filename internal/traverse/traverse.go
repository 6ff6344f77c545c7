// Package traverse walks a graph breadth-first or depth-first and finds
// unweighted shortest paths.
//
// Traversals read the live store at every step: there is no snapshot.
// A node removed mid-walk is skipped when it is reached, and edges added
// mid-walk may be followed. Termination on cyclic graphs comes from the
// visited set alone.
package traverse

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// Graph is the read surface a traversal needs. *graph.Store implements it.
type Graph interface {
	HasNode(ctx context.Context, id objectid.ID) (bool, error)
	GetNode(ctx context.Context, id objectid.ID) (graph.Node, error)
	GetNodeEdges(ctx context.Context, id objectid.ID, dir graph.Direction) (*graph.NodeEdges, error)
}

// Compile-time assertion: *graph.Store satisfies Graph.
var _ Graph = (*graph.Store)(nil)

// Mode selects the frontier discipline.
type Mode string

const (
	ModeBFS Mode = "bfs"
	ModeDFS Mode = "dfs"
)

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeBFS, ModeDFS:
		return m, nil
	default:
		return "", &graph.InvalidArgumentError{Param: "mode", Reason: fmt.Sprintf("unsupported value %q", s)}
	}
}

// Traverser runs traversals over a Graph.
type Traverser struct {
	g Graph
}

// New returns a Traverser reading from g.
func New(g Graph) *Traverser {
	return &Traverser{g: g}
}

// BFS starts a breadth-first traversal from the node from.
func (t *Traverser) BFS(ctx context.Context, from objectid.ID) (*Iterator, error) {
	return t.Walk(ctx, ModeBFS, from)
}

// DFS starts a depth-first traversal from the node from. Children of a
// node are pushed together, so the order is depth-first but not the
// order a recursive walk would give.
func (t *Traverser) DFS(ctx context.Context, from objectid.ID) (*Iterator, error) {
	return t.Walk(ctx, ModeDFS, from)
}

// Walk validates from and returns a fresh iterator in the given mode.
// Every call starts over from the store; iterators cannot be rewound.
func (t *Traverser) Walk(ctx context.Context, mode Mode, from objectid.ID) (it *Iterator, err error) {
	if mode != ModeBFS && mode != ModeDFS {
		return nil, &graph.InvalidArgumentError{Param: "mode", Reason: fmt.Sprintf("unsupported value %q", mode)}
	}
	if from.IsZero() {
		return nil, &graph.InvalidArgumentError{Param: "from", Reason: "zero identifier"}
	}
	ctx, span := tracer.Start(ctx, "traverse.start")
	span.SetAttributes(attribute.String("mode", string(mode)), attribute.String("from", from.Hex()))
	defer func() { endSpan(span, err) }()

	ok, err := t.g.HasNode(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("traverse: check start: %w", err)
	}
	if !ok {
		return nil, &graph.AttributeError{Attribute: "from", ID: from}
	}
	recordStart(ctx, mode)
	return newIterator(t.g, mode, from), nil
}

// ShortestPath returns the nodes on a shortest path from from to to,
// excluding from and ending with to. found is false when to is not
// reachable; a path from a node to itself is never found. to must exist.
func (t *Traverser) ShortestPath(ctx context.Context, from, to objectid.ID) (path []graph.Node, found bool, err error) {
	if from.IsZero() {
		return nil, false, &graph.InvalidArgumentError{Param: "from", Reason: "zero identifier"}
	}
	if to.IsZero() {
		return nil, false, &graph.InvalidArgumentError{Param: "to", Reason: "zero identifier"}
	}
	ctx, span := tracer.Start(ctx, "traverse.shortest_path")
	span.SetAttributes(attribute.String("from", from.Hex()), attribute.String("to", to.Hex()))
	defer func() {
		span.SetAttributes(attribute.Bool("found", found), attribute.Int("length", len(path)))
		endSpan(span, err)
	}()

	ok, err := t.g.HasNode(ctx, to)
	if err != nil {
		return nil, false, fmt.Errorf("traverse: check target: %w", err)
	}
	if !ok {
		return nil, false, &graph.AttributeError{Attribute: "to", ID: to}
	}

	it, err := t.BFS(ctx, from)
	if err != nil {
		return nil, false, err
	}
	paths := make(map[objectid.ID][]graph.Node)
	for it.Next(ctx) {
		step := it.Step()
		me := step.Node.ID()
		prefix := paths[step.Parent.ID()]
		p := make([]graph.Node, len(prefix), len(prefix)+1)
		copy(p, prefix)
		p = append(p, step.Node)
		paths[me] = p
		if me == to {
			return p, true, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// Collect drains it and returns every step.
func Collect(ctx context.Context, it *Iterator) ([]Step, error) {
	var steps []Step
	for it.Next(ctx) {
		steps = append(steps, it.Step())
	}
	return steps, it.Err()
}
