package graph

import (
	"fmt"
	"sort"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// Collection names inside the graph database.
const (
	NodesCollection = "nodes"
	EdgesCollection = "edges"
)

// Reserved fields inside edge attribute maps.
const (
	// ToIDField holds the edge target. It always matches the hex key the
	// attributes are nested under.
	ToIDField = "_to_id"
	// FromIDField is set on incoming edges returned by GetNodeEdges.
	FromIDField = "_from_id"
)

// nodeIndexes are the node attributes declared as secondary indexes.
var nodeIndexes = []string{"name", "type"}

// Attrs is an attribute mapping for a node or an edge.
type Attrs map[string]any

// Node is a stored node document: its attributes plus the _id field.
type Node = docstore.Document

// --- Direction ---

// Direction selects which edges GetNodeEdges returns.
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionBoth Direction = "both"
)

// ParseDirection validates s as a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.valid() {
		return "", &InvalidArgumentError{Param: "direction", Reason: fmt.Sprintf("unsupported value %q", s)}
	}
	return d, nil
}

func (d Direction) valid() bool {
	return d == DirectionIn || d == DirectionOut || d == DirectionBoth
}

func (d Direction) wantsIn() bool  { return d == DirectionIn || d == DirectionBoth }
func (d Direction) wantsOut() bool { return d == DirectionOut || d == DirectionBoth }

// --- Edge views ---

// NodeEdges is the result of GetNodeEdges. In and Out are keyed by the
// other endpoint's hex identifier and are nil when not requested.
type NodeEdges struct {
	ID  objectid.ID      `json:"id"`
	In  map[string]Attrs `json:"in,omitempty"`
	Out map[string]Attrs `json:"out,omitempty"`
}

// EdgeRecord is one outgoing edge owned by a source node. Target is a
// weak reference: the node it names may have been removed since.
type EdgeRecord struct {
	Target objectid.ID `json:"target"`
	Attrs  Attrs       `json:"attrs"`
}

// Adjacency lists the outgoing edges of one node in target order.
type Adjacency struct {
	Source objectid.ID  `json:"source"`
	Edges  []EdgeRecord `json:"edges"`
}

// Targets returns the edge targets in order.
func (a *Adjacency) Targets() []objectid.ID {
	out := make([]objectid.ID, len(a.Edges))
	for i, e := range a.Edges {
		out[i] = e.Target
	}
	return out
}

// Edge is a flattened (from, to, attrs) triple.
type Edge struct {
	From  objectid.ID `json:"from"`
	To    objectid.ID `json:"to"`
	Attrs Attrs       `json:"attrs"`
}

// FindNodesRequest selects nodes. Zero Skip and Limit mean no skip and no
// limit.
type FindNodesRequest struct {
	Where  docstore.Filter
	Fields []string
	Skip   int
	Limit  int
	// Eager reads the whole result before FindNodes returns.
	Eager bool
}

// adjacencyFromDoc decodes an adjacency document. Entries whose key is
// not a valid identifier or whose value is not an object are skipped.
func adjacencyFromDoc(doc docstore.Document) *Adjacency {
	adj := &Adjacency{Source: doc.ID()}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != docstore.IDField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs, ok := asAttrs(doc[k])
		if !ok {
			continue
		}
		target, ok := attrs[ToIDField].(objectid.ID)
		if !ok {
			id, err := objectid.FromHex(k)
			if err != nil {
				continue
			}
			target = id
		}
		adj.Edges = append(adj.Edges, EdgeRecord{Target: target, Attrs: attrs})
	}
	return adj
}

func asAttrs(v any) (Attrs, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Attrs(m), true
	case docstore.Document:
		return Attrs(m), true
	case Attrs:
		return m, true
	default:
		return nil, false
	}
}
