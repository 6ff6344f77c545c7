package docstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// Backend is a key-ordered byte store. Keys are compared bytewise.
type Backend interface {
	io.Closer

	// Get returns the value stored under key, reporting whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key. When durable is set the call returns
	// only after the write is acknowledged by stable storage.
	Put(ctx context.Context, key string, value []byte, durable bool) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string, durable bool) error

	// Scan visits keys with the given prefix that sort strictly after
	// `after` (all prefixed keys when after is empty), in ascending order,
	// until fn returns false or an error. fn must not call back into the
	// backend.
	Scan(ctx context.Context, prefix, after string, fn func(key string, value []byte) (bool, error)) error
}

// Config selects and configures a backend.
type Config struct {
	// Driver names a registered backend: memory, badger or kuzu.
	Driver string `yaml:"driver" validate:"required"`
	// Path is the on-disk location for embedded drivers, or ":memory:".
	Path string `yaml:"path,omitempty"`
	// Host and Port identify the store endpoint in error context.
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	// SyncWrites makes every write durable regardless of the per-call flag.
	SyncWrites bool `yaml:"syncWrites,omitempty"`

	Logger *slog.Logger `yaml:"-" validate:"-"`
}

// MemoryPath asks embedded drivers for a non-persistent database.
const MemoryPath = ":memory:"

// OpenFunc opens a backend for a configuration.
type OpenFunc func(ctx context.Context, cfg Config) (Backend, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]OpenFunc)
)

// Register makes a backend available under name. It panics on duplicate
// registration.
func Register(name string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, dup := drivers[name]; dup {
		panic(fmt.Sprintf("docstore: driver %q registered twice", name))
	}
	drivers[name] = open
}

// Drivers returns the names of registered backends, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	out := make([]string, 0, len(drivers))
	for name := range drivers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func lookupDriver(name string) (OpenFunc, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	open, ok := drivers[name]
	return open, ok
}
