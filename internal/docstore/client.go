package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Client is an open connection to a backend. Callers own its lifecycle:
// Connect at startup, Close at shutdown.
type Client struct {
	cfg     Config
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Connect opens the backend named by cfg.Driver.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	ectx := Context{Driver: cfg.Driver, Host: cfg.Host, Port: cfg.Port, Path: cfg.Path}
	if err := validateRequest(cfg); err != nil {
		return nil, &Error{Kind: KindConnection, Context: ectx, Err: err}
	}
	open, ok := lookupDriver(cfg.Driver)
	if !ok {
		return nil, &Error{
			Kind:    KindConnection,
			Context: ectx,
			Err:     fmt.Errorf("%w %q (registered: %s)", ErrUnknownDriver, cfg.Driver, strings.Join(Drivers(), ", ")),
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backend, err := open(ctx, cfg)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Context: ectx, Err: err}
	}
	logger.Debug("document store connected", "driver", cfg.Driver, "path", cfg.Path)
	return &Client{cfg: cfg, backend: backend, logger: logger}, nil
}

// NewClient wraps an already open backend. Used by tests and by callers
// that build a backend themselves.
func NewClient(backend Backend, cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, backend: backend, logger: logger}
}

// Close releases the backend. Further calls fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Debug("document store closed", "driver", c.cfg.Driver)
	return c.backend.Close()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) errContext() Context {
	return Context{Driver: c.cfg.Driver, Host: c.cfg.Host, Port: c.cfg.Port, Path: c.cfg.Path}
}

// Database returns a handle to a named database.
func (c *Client) Database(name string) (*Database, error) {
	ectx := c.errContext()
	ectx.Database = name
	if c.isClosed() {
		return nil, &Error{Kind: KindDatabase, Context: ectx, Err: ErrClosed}
	}
	if err := checkDatabaseName(name); err != nil {
		return nil, &Error{Kind: KindDatabase, Context: ectx, Err: err}
	}
	return &Database{client: c, name: name}, nil
}

// Database is a named namespace of collections.
type Database struct {
	client *Client
	name   string
}

// Name returns the database name.
func (d *Database) Name() string { return d.name }

// Client returns the owning client.
func (d *Database) Client() *Client { return d.client }

// Collection returns a handle to a named collection.
func (d *Database) Collection(name string) (*Collection, error) {
	ectx := d.client.errContext()
	ectx.Database = d.name
	ectx.Collection = name
	if d.client.isClosed() {
		return nil, &Error{Kind: KindCollection, Context: ectx, Err: ErrClosed}
	}
	if err := checkCollectionName(name); err != nil {
		return nil, &Error{Kind: KindCollection, Context: ectx, Err: err}
	}
	return &Collection{
		db:     d,
		name:   name,
		prefix: d.name + "/" + name + "/",
		meta:   d.name + "/" + name + "#indexes",
	}, nil
}

func checkDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidName)
	}
	if len(name) > 64 {
		return fmt.Errorf("%w: database name longer than 64 bytes", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\. \"$#\x00") {
		return fmt.Errorf("%w: database name %q contains a reserved character", ErrInvalidName, name)
	}
	return nil
}

func checkCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, "$/#\x00") {
		return fmt.Errorf("%w: collection name %q contains a reserved character", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, "system.") {
		return fmt.Errorf("%w: collection name %q uses the system prefix", ErrInvalidName, name)
	}
	return nil
}
