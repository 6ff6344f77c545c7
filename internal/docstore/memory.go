package docstore

import (
	"context"
	"strings"
	"sync"

	"github.com/tidwall/btree"
)

func init() {
	Register("memory", func(context.Context, Config) (Backend, error) {
		return NewMemoryBackend(), nil
	})
}

// Compile-time assertion: *MemoryBackend satisfies Backend.
var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps every key in an ordered in-process B-tree.
// Thread-safe via sync.RWMutex.
type MemoryBackend struct {
	mu     sync.RWMutex
	tree   btree.Map[string, []byte]
	closed bool
}

// NewMemoryBackend returns an empty MemoryBackend ready for use.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Get returns a copy of the value stored under key.
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.tree.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value. Writes are acknowledged on return.
func (m *MemoryBackend) Put(ctx context.Context, key string, value []byte, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.tree.Set(key, append([]byte(nil), value...))
	return nil
}

// Delete removes key if present.
func (m *MemoryBackend) Delete(ctx context.Context, key string, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.tree.Delete(key)
	return nil
}

// Scan walks prefixed keys in ascending order under a read lock.
func (m *MemoryBackend) Scan(ctx context.Context, prefix, after string, fn func(string, []byte) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	pivot := prefix
	if after > pivot {
		pivot = after
	}
	var scanErr error
	m.tree.Ascend(pivot, func(k string, v []byte) bool {
		if !strings.HasPrefix(k, prefix) {
			return false
		}
		if after != "" && k <= after {
			return true
		}
		cont, err := fn(k, append([]byte(nil), v...))
		if err != nil {
			scanErr = err
			return false
		}
		return cont
	})
	return scanErr
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}

// Close drops all data.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.tree = btree.Map[string, []byte]{}
	return nil
}
