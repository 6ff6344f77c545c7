package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// LabelAttr is the edge attribute rendered on Mermaid arrows.
const LabelAttr = "label"

// GenerateMermaid produces a Mermaid graph TD diagram from a graph store.
// Nodes are labelled with their "name" attribute, or a short identifier
// when they have none. Edges whose endpoints are gone are left out.
func GenerateMermaid(ctx context.Context, src Source) (string, error) {
	snap, err := TakeSnapshot(ctx, src, "")
	if err != nil {
		return "", err
	}
	return RenderMermaid(snap), nil
}

// RenderMermaid renders an already loaded snapshot.
func RenderMermaid(snap *Snapshot) string {
	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[objectid.ID]string, len(snap.Nodes))

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, n := range snap.Nodes {
		id := fmt.Sprintf("N%d", i)
		nodeIDs[n.ID()] = id
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", id, escape(nodeLabel(n))))
	}

	for _, e := range snap.Edges {
		src, ok := nodeIDs[e.From]
		if !ok {
			continue
		}
		tgt, ok := nodeIDs[e.To]
		if !ok {
			continue
		}
		if label, ok := e.Attrs[LabelAttr].(string); ok && label != "" {
			sb.WriteString(fmt.Sprintf("  %s -->|\"%s\"| %s\n", src, escape(label), tgt))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", src, tgt))
	}

	return sb.String()
}

func nodeLabel(n graph.Node) string {
	if name, ok := n["name"].(string); ok && name != "" {
		return fmt.Sprintf("%.40s", name)
	}
	return n.ID().Hex()[:8]
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
