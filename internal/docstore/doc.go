// Package docstore is a small schemaless document store: a Client owns a
// key-ordered backend, hands out named databases and collections, and runs
// typed insert/find/update/remove requests against them.
//
// Documents are map[string]any with the reserved "_id" field holding an
// objectid.ID. Updates address nested fields with dotted paths ("a.b.c").
// Every backend persists the same encoded form, so documents read back with
// identical types regardless of driver: identifiers stay objectid.ID,
// integers come back as int64, floats as float64 (integral ones included),
// nested objects as map[string]any and arrays as []any. Unsigned values
// above math.MaxInt64 are rejected.
//
// Drivers:
//
//	memory  ordered in-process map (tidwall/btree), lost on Close
//	badger  embedded LSM store (dgraph-io/badger/v4), Path is a directory
//	        or ":memory:"
//	kuzu    embedded KuzuDB (cgo builds only), Path is a database
//	        directory or ":memory:"
//
// No operation spans more than one document atomically.
package docstore
