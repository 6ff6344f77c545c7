package docstore

import (
	"bytes"
	"fmt"
	"math"

	"github.com/segmentio/encoding/json"

	"github.com/dusk-indust/docgraph/internal/objectid"
)

// Wire tags for values plain JSON cannot carry.
const (
	// oidKey tags an identifier: {"$oid": "<hex>"}.
	oidKey = "$oid"
	// doubleKey tags an integral float, which JSON would otherwise
	// print as an integer: {"$double": 2}.
	doubleKey = "$double"
)

// encodeDocument renders a document in its persisted form.
func encodeDocument(doc Document) ([]byte, error) {
	w, err := toWire(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// decodeDocument parses the persisted form back into typed values.
func decodeDocument(b []byte) (Document, error) {
	var raw map[string]any
	if err := decodeInto(b, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	m, _ := fromWire(raw).(map[string]any)
	return Document(m), nil
}

// normalize round-trips a single value through the codec so that values
// supplied by callers compare equal to values read back from a backend.
func normalize(v any) (any, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var raw any
	if err := decodeInto(b, &raw); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return fromWire(raw), nil
}

func decodeInto(b []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(dst)
}

func toWire(v any) (any, error) {
	switch x := v.(type) {
	case objectid.ID:
		return map[string]any{oidKey: x.Hex()}, nil
	case *objectid.ID:
		if x == nil {
			return nil, nil
		}
		return map[string]any{oidKey: x.Hex()}, nil
	case float64:
		return wireFloat(x), nil
	case float32:
		return wireFloat(float64(x)), nil
	case uint:
		return wireUint(uint64(x))
	case uint64:
		return wireUint(x)
	case uintptr:
		return wireUint(uint64(x))
	case Document:
		return toWireMap(x)
	case map[string]any:
		return toWireMap(x)
	case []any:
		return toWireSlice(len(x), func(i int) any { return x[i] })
	case []objectid.ID:
		return toWireSlice(len(x), func(i int) any { return x[i] })
	case []map[string]any:
		return toWireSlice(len(x), func(i int) any { return x[i] })
	case []float64:
		return toWireSlice(len(x), func(i int) any { return x[i] })
	default:
		return v, nil
	}
}

// wireFloat tags integral floats so they decode as float64, not int64.
func wireFloat(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return map[string]any{doubleKey: f}
	}
	return f
}

// wireUint rejects unsigned values that do not fit the int64 they decode as.
func wireUint(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: unsigned value %d overflows int64", ErrInvalidDocument, u)
	}
	return u, nil
}

func toWireMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, e := range m {
		w, err := toWire(e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = w
	}
	return out, nil
}

func toWireSlice(n int, at func(int) any) ([]any, error) {
	out := make([]any, n)
	for i := range out {
		w, err := toWire(at(i))
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = w
	}
	return out, nil
}

func fromWire(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if len(x) == 1 {
			if s, ok := x[oidKey].(string); ok {
				if id, err := objectid.FromHex(s); err == nil {
					return id
				}
			}
			if n, ok := x[doubleKey].(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					return f
				}
			}
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = fromWire(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromWire(e)
		}
		return out
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return f
	default:
		return v
	}
}
