// Package storagetest holds the behaviour every storage.KV backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/youth-hub/internal/storage"
)

// Run exercises kv against the storage.KV contract. Keys are namespaced with
// t.Name so shared live servers can be reused.
func Run(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()
	ns := "contract:" + t.Name() + ":"

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, ns+"missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, ns+"a", []byte(`{"x":1}`)))
		got, err := kv.Get(ctx, ns+"a")
		require.NoError(t, err)
		assert.Equal(t, `{"x":1}`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, ns+"b", []byte("one")))
		require.NoError(t, kv.Set(ctx, ns+"b", []byte("two")))
		got, err := kv.Get(ctx, ns+"b")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, ns+"c", []byte("gone soon")))
		require.NoError(t, kv.Delete(ctx, ns+"c"))
		_, err := kv.Get(ctx, ns+"c")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// deleting an absent key is not an error
		assert.NoError(t, kv.Delete(ctx, ns+"never-set"))
	})

	t.Run("json helpers", func(t *testing.T) {
		type doc struct {
			Name string `json:"name"`
		}
		require.NoError(t, storage.SetJSON(ctx, kv, ns+"d", doc{Name: "Ama"}))

		var got doc
		require.NoError(t, storage.GetJSON(ctx, kv, ns+"d", &got))
		assert.Equal(t, "Ama", got.Name)

		require.NoError(t, kv.Set(ctx, ns+"e", []byte("{not json")))
		var decodeErr *storage.DecodeError
		assert.ErrorAs(t, storage.GetJSON(ctx, kv, ns+"e", &got), &decodeErr)
	})
}
