package docstore

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dusk-indust/docgraph/internal/objectid"
)

// IDField is the reserved identifier field present in every document.
const IDField = "_id"

// Document is a schemaless record.
type Document map[string]any

// ID returns the document identifier, or objectid.Nil when absent.
func (d Document) ID() objectid.ID {
	id, _ := d[IDField].(objectid.ID)
	return id
}

// Clone returns a deep copy of the document's maps and slices.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

// Get returns the value at a dotted path.
func (d Document) Get(path string) (any, bool) {
	return lookup(d, path)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case Document:
		return cloneMap(x)
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// asMap unwraps the two map flavours a document may nest.
func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case Document:
		return x, true
	case map[string]any:
		return x, true
	default:
		return nil, false
	}
}

func lookup(m map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = m
	for _, p := range parts {
		mm, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = mm[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath assigns v at a dotted path, creating intermediate objects.
// It fails when an intermediate value exists but is not an object.
func setPath(m map[string]any, path string, v any) error {
	parts := strings.Split(path, ".")
	cur := m
	for i, p := range parts[:len(parts)-1] {
		next, ok := cur[p]
		if !ok {
			child := make(map[string]any)
			cur[p] = child
			cur = child
			continue
		}
		child, ok := asMap(next)
		if !ok {
			return fmt.Errorf("%w: cannot set %q: %q is not an object", ErrInvalidUpdate, path, strings.Join(parts[:i+1], "."))
		}
		cur = child
	}
	cur[parts[len(parts)-1]] = v
	return nil
}

// unsetPath removes the value at a dotted path. Missing paths are a no-op.
func unsetPath(m map[string]any, path string) bool {
	parts := strings.Split(path, ".")
	cur := m
	for _, p := range parts[:len(parts)-1] {
		child, ok := asMap(cur[p])
		if !ok {
			return false
		}
		cur = child
	}
	last := parts[len(parts)-1]
	if _, ok := cur[last]; !ok {
		return false
	}
	delete(cur, last)
	return true
}

// project keeps only the given dotted paths plus the identifier.
func project(doc Document, fields []string) Document {
	if len(fields) == 0 {
		return doc
	}
	out := Document{IDField: doc[IDField]}
	for _, f := range fields {
		if v, ok := lookup(doc, f); ok {
			// Paths were validated; setPath only fails on a conflicting
			// prefix, which a projection of one document cannot produce.
			_ = setPath(out, f, v)
		}
	}
	return out
}

// checkPath validates a dotted update or filter path.
func checkPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidDocument)
	}
	for _, p := range strings.Split(path, ".") {
		if p == "" {
			return fmt.Errorf("%w: empty segment in path %q", ErrInvalidDocument, path)
		}
		if strings.HasPrefix(p, "$") {
			return fmt.Errorf("%w: path %q has a $-prefixed segment", ErrInvalidDocument, path)
		}
	}
	return nil
}

// checkFields validates field names of a value tree: no empty names, no
// dots, no leading '$'.
func checkFields(v any) error {
	switch x := v.(type) {
	case Document:
		return checkFields(map[string]any(x))
	case map[string]any:
		for k, e := range x {
			if k == "" || strings.Contains(k, ".") || strings.HasPrefix(k, "$") {
				return fmt.Errorf("%w: illegal field name %q", ErrInvalidDocument, k)
			}
			if err := checkFields(e); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range x {
			if err := checkFields(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// equalValues compares two normalized values.
func equalValues(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
