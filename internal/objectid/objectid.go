// Package objectid defines the opaque identifier assigned to every stored
// document. An ID is 16 bytes generated from a time-ordered UUIDv7, so the
// canonical lowercase-hex form sorts roughly by creation time.
package objectid

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Size is the length of an ID in bytes.
const Size = 16

// HexLen is the length of the canonical hex representation.
const HexLen = Size * 2

// ErrInvalidHex is returned when a string is not a valid hex-encoded ID.
var ErrInvalidHex = errors.New("objectid: invalid hex")

// ID is a fixed-size opaque document identifier. The zero value means
// "no identifier".
type ID [Size]byte

// Nil is the zero ID.
var Nil ID

// New returns a fresh identifier.
func New() ID {
	u, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4,
		// which panics under the same condition.
		u = uuid.New()
	}
	return ID(u)
}

// FromHex parses the canonical hex form of an ID.
func FromHex(s string) (ID, error) {
	var id ID
	if len(s) != HexLen {
		return Nil, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidHex, s, len(s), HexLen)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return Nil, fmt.Errorf("%w: %q: %v", ErrInvalidHex, s, err)
	}
	return id, nil
}

// MustFromHex is like FromHex but panics on malformed input. Intended for
// tests and constants.
func MustFromHex(s string) ID {
	id, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsHex reports whether s is a well-formed ID.
func IsHex(s string) bool {
	_, err := FromHex(s)
	return err == nil
}

// Hex returns the canonical lowercase hex representation.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Hex()
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool {
	return id == Nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := FromHex(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
