package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

func init() {
	Register("badger", func(_ context.Context, cfg Config) (Backend, error) {
		return OpenBadger(cfg)
	})
}

// Compile-time assertion: *BadgerBackend satisfies Backend.
var _ Backend = (*BadgerBackend)(nil)

// BadgerBackend stores documents in an embedded BadgerDB.
type BadgerBackend struct {
	db         *badger.DB
	inMemory   bool
	syncWrites bool
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens (creating if needed) a BadgerDB at cfg.Path, or an
// in-memory instance when Path is MemoryPath.
func OpenBadger(cfg Config) (*BadgerBackend, error) {
	if cfg.Path == "" {
		return nil, errors.New("badger: path is required")
	}

	inMemory := cfg.Path == MemoryPath
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("badger: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return &BadgerBackend{db: db, inMemory: inMemory, syncWrites: cfg.SyncWrites}, nil
}

// Get reads key in a read-only transaction.
func (b *BadgerBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var val []byte
	found := true
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("badger: get %s: %w", key, err)
	}
	return val, found, nil
}

// Put writes key in its own transaction.
func (b *BadgerBackend) Put(ctx context.Context, key string, value []byte, durable bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger: put %s: %w", key, err)
	}
	return b.sync(durable)
}

// Delete removes key in its own transaction.
func (b *BadgerBackend) Delete(ctx context.Context, key string, durable bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger: delete %s: %w", key, err)
	}
	return b.sync(durable)
}

// sync flushes to disk when a durable write was requested and the
// database does not already sync every write.
func (b *BadgerBackend) sync(durable bool) error {
	if !durable || b.syncWrites || b.inMemory {
		return nil
	}
	if err := b.db.Sync(); err != nil {
		return fmt.Errorf("badger: sync: %w", err)
	}
	return nil
}

// Scan iterates prefixed keys inside one read-only transaction.
func (b *BadgerBackend) Scan(ctx context.Context, prefix, after string, fn func(string, []byte) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		start := prefix
		if after > start {
			start = after
		}
		for it.Seek([]byte(start)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			k := string(item.KeyCopy(nil))
			if after != "" && k <= after {
				continue
			}
			v, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("badger: read %s: %w", k, err)
			}
			cont, err := fn(k, v)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	})
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
