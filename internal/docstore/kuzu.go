//go:build cgo

package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

func init() {
	Register("kuzu", func(_ context.Context, cfg Config) (Backend, error) {
		return OpenKuzu(cfg)
	})
}

// Compile-time check that KuzuBackend satisfies Backend.
var _ Backend = (*KuzuBackend)(nil)

// KuzuBackend stores each key/value pair as a Doc node in KuzuDB.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuBackend struct {
	mu   sync.Mutex
	db   *kuzu.Database
	conn *kuzu.Connection
}

const kuzuSchema = `CREATE NODE TABLE IF NOT EXISTS Doc(
	key STRING,
	body STRING,
	PRIMARY KEY(key)
)`

// OpenKuzu opens a KuzuDB at cfg.Path (MemoryPath for in-memory) and
// creates the Doc table if needed. KuzuDB creates the leaf directory
// itself for new databases.
func OpenKuzu(cfg Config) (*KuzuBackend, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("kuzu: path is required")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
		}
	}
	db, err := kuzu.OpenDatabase(path, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	b := &KuzuBackend{db: db, conn: conn}
	res, err := conn.Query(kuzuSchema)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("kuzu: init schema: %w", err)
	}
	res.Close()
	return b, nil
}

// Get fetches one Doc body.
func (b *KuzuBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	rows, err := b.query("MATCH (d:Doc {key: $key}) RETURN d.body", map[string]any{"key": key})
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return []byte(toString(rows[0][0])), true, nil
}

// Put upserts one Doc node. Kuzu commits each statement before returning.
func (b *KuzuBackend) Put(ctx context.Context, key string, value []byte, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.exec(
		"MERGE (d:Doc {key: $key}) SET d.body = $body",
		map[string]any{"key": key, "body": string(value)},
	)
}

// Delete removes one Doc node if present.
func (b *KuzuBackend) Delete(ctx context.Context, key string, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.exec("MATCH (d:Doc {key: $key}) DELETE d", map[string]any{"key": key})
}

// Scan fetches every prefixed key after `after` in key order, then
// visits them.
func (b *KuzuBackend) Scan(ctx context.Context, prefix, after string, fn func(string, []byte) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows, err := b.query(
		`MATCH (d:Doc) WHERE d.key STARTS WITH $prefix AND d.key > $after
		 RETURN d.key, d.body ORDER BY d.key`,
		map[string]any{"prefix": prefix, "after": after},
	)
	if err != nil {
		return err
	}
	for _, r := range rows {
		cont, err := fn(toString(r[0]), []byte(toString(r[1])))
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// Close releases the KuzuDB connection and database.
func (b *KuzuBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	if b.db != nil {
		b.db.Close()
		b.db = nil
	}
	return nil
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (b *KuzuBackend) exec(cypher string, params map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return ErrClosed
	}

	stmt, err := b.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := b.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (b *KuzuBackend) query(cypher string, params map[string]any) ([][]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil, ErrClosed
	}

	stmt, err := b.conn.Prepare(cypher)
	if err != nil {
		return nil, fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()
	res, err := b.conn.Execute(stmt, params)
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
