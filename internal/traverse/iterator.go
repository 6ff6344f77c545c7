package traverse

import (
	"context"
	"fmt"
	"sort"

	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/sets/hashset"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// Step is one traversal edge: Node was first reached from Parent.
type Step struct {
	Parent graph.Node
	Node   graph.Node
}

// pair is a frontier entry. parent is zero for the seed.
type pair struct {
	parent objectid.ID
	me     objectid.ID
}

// Iterator yields the steps of one traversal. It is single-pass and not
// safe for concurrent use. A node reached again through another parent is
// not yielded a second time, so each step is a tree edge.
//
//	it, err := t.BFS(ctx, start)
//	for it.Next(ctx) {
//		step := it.Step()
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	g        Graph
	mode     Mode
	frontier *doublylinkedlist.List
	visited  *hashset.Set
	step     Step
	err      error
}

func newIterator(g Graph, mode Mode, from objectid.ID) *Iterator {
	return &Iterator{
		g:        g,
		mode:     mode,
		frontier: doublylinkedlist.New(pair{me: from}),
		visited:  hashset.New(),
	}
}

// Mode reports the frontier discipline.
func (it *Iterator) Mode() Mode { return it.mode }

// Next advances to the next newly reached node. The start node is never
// yielded and every other node at most once.
func (it *Iterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for !it.frontier.Empty() {
		if err := ctx.Err(); err != nil {
			it.err = err
			return false
		}
		p := it.pop()

		ok, err := it.g.HasNode(ctx, p.me)
		if err != nil {
			it.err = fmt.Errorf("traverse: %w", err)
			return false
		}
		if !ok || it.visited.Contains(p.me) {
			continue
		}
		it.visited.Add(p.me)
		if err := it.expand(ctx, p.me); err != nil {
			it.err = err
			return false
		}
		if p.parent.IsZero() {
			continue
		}

		parent, err := it.g.GetNode(ctx, p.parent)
		if err != nil {
			it.err = fmt.Errorf("traverse: %w", err)
			return false
		}
		me, err := it.g.GetNode(ctx, p.me)
		if err != nil {
			it.err = fmt.Errorf("traverse: %w", err)
			return false
		}
		if parent == nil || me == nil {
			continue
		}
		it.step = Step{Parent: parent, Node: me}
		recordStep(ctx, it.mode)
		return true
	}
	it.step = Step{}
	return false
}

// Step returns the current step.
func (it *Iterator) Step() Step { return it.step }

// Err returns the error that stopped the traversal, if any.
func (it *Iterator) Err() error { return it.err }

func (it *Iterator) pop() pair {
	idx := 0
	if it.mode == ModeDFS {
		idx = it.frontier.Size() - 1
	}
	v, _ := it.frontier.Get(idx)
	it.frontier.Remove(idx)
	return v.(pair)
}

// expand pushes (me, child) for every outgoing target of me other than
// me itself, in ascending key order.
func (it *Iterator) expand(ctx context.Context, me objectid.ID) error {
	ne, err := it.g.GetNodeEdges(ctx, me, graph.DirectionOut)
	if err != nil {
		return fmt.Errorf("traverse: edges of %s: %w", me, err)
	}
	keys := make([]string, 0, len(ne.Out))
	for k := range ne.Out {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		child, err := objectid.FromHex(k)
		if err != nil {
			return fmt.Errorf("traverse: adjacency key of %s: %w", me, err)
		}
		if child == me {
			continue
		}
		it.frontier.Add(pair{parent: me, me: child})
	}
	return nil
}
