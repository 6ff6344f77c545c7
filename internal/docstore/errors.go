package docstore

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies store failures.
type Kind int

const (
	KindConnection Kind = iota + 1
	KindDatabase
	KindCollection
	KindInsert
	KindFind
	KindUpdate
	KindRemove
)

var kindMessages = map[Kind]string{
	KindConnection: "connect to document store",
	KindDatabase:   "get database",
	KindCollection: "get collection",
	KindInsert:     "insert data",
	KindFind:       "find data",
	KindUpdate:     "update data",
	KindRemove:     "remove data",
}

func (k Kind) String() string {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Context records where a store failure happened.
type Context struct {
	Driver     string
	Host       string
	Port       int
	Path       string
	Database   string
	Collection string
	// Args is the request record of the failing call, if any.
	Args any
}

func (c Context) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("driver", c.Driver)
	add("host", c.Host)
	if c.Port != 0 {
		add("port", fmt.Sprint(c.Port))
	}
	add("path", c.Path)
	add("database", c.Database)
	add("collection", c.Collection)
	if c.Args != nil {
		add("args", fmt.Sprintf("%+v", c.Args))
	}
	return strings.Join(parts, "; ")
}

// Error is the single error type returned by store-facing operations.
// Match a kind with errors.Is(err, ErrFind) and friends, or errors.As to
// read the context.
type Error struct {
	Kind    Kind
	Context Context
	Err     error
}

func (e *Error) Error() string {
	msg := "docstore: " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if ctx := e.Context.String(); ctx != "" {
		msg += " (" + ctx + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches kind sentinels such as ErrUpdate.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrConnection = &Error{Kind: KindConnection}
	ErrDatabase   = &Error{Kind: KindDatabase}
	ErrCollection = &Error{Kind: KindCollection}
	ErrInsert     = &Error{Kind: KindInsert}
	ErrFind       = &Error{Kind: KindFind}
	ErrUpdate     = &Error{Kind: KindUpdate}
	ErrRemove     = &Error{Kind: KindRemove}
)

// Causes wrapped inside an *Error.
var (
	ErrUnknownDriver   = errors.New("unknown driver")
	ErrClosed          = errors.New("client is closed")
	ErrInvalidName     = errors.New("invalid name")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidUpdate   = errors.New("invalid update")
	ErrInvalidRequest  = errors.New("invalid request")
)

// KindOf returns the kind of a store error, or 0 when err is not one.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
