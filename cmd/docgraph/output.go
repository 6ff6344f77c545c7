package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/dusk-indust/docgraph/internal/graph"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

func parseIDArg(name, s string) (objectid.ID, error) {
	id, err := objectid.FromHex(s)
	if err != nil {
		return objectid.Nil, fmt.Errorf("%s: %w", name, err)
	}
	return id, nil
}

// parseAttrs decodes a JSON object given on the command line. An empty
// string yields empty attributes.
func parseAttrs(s string) (graph.Attrs, error) {
	attrs := graph.Attrs{}
	if strings.TrimSpace(s) == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(s), &attrs); err != nil {
		return nil, fmt.Errorf("attributes must be a JSON object: %w", err)
	}
	return attrs, nil
}

// writeJSON prints v as one line of JSON.
func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
