//go:build cgo

package docstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func init() {
	backendFactories["kuzu"] = func(t *testing.T) Backend {
		b, err := OpenKuzu(Config{Driver: "kuzu", Path: MemoryPath})
		require.NoError(t, err)
		return b
	}
}
