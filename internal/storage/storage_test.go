package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/youth-hub/internal/storage"
	"github.com/david/youth-hub/internal/storage/storagetest"
)

func TestMemory(t *testing.T) {
	storagetest.Run(t, storage.NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hub.db")
	kv, err := storage.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	storagetest.Run(t, kv)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hub.db")

	kv, err := storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, storage.KeyOpportunities, []byte("[]")))
	require.NoError(t, kv.Close())

	kv, err = storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer kv.Close()
	got, err := kv.Get(ctx, storage.KeyOpportunities)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR_TEST")
	if addr == "" {
		t.Skip("REDIS_ADDR_TEST not set")
	}
	kv, err := storage.OpenRedis(context.Background(), storage.RedisOptions{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	storagetest.Run(t, kv)
}

func TestPrefixed_ScopesKeys(t *testing.T) {
	ctx := context.Background()
	base := storage.NewMemory()
	a := storage.WithPrefix(base, storage.SessionPrefix("client-a"))
	b := storage.WithPrefix(base, storage.SessionPrefix("client-b"))

	require.NoError(t, a.Set(ctx, storage.KeyLoggedIn, []byte("true")))

	_, err := b.Get(ctx, storage.KeyLoggedIn)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	raw, err := base.Get(ctx, "session:client-a:"+storage.KeyLoggedIn)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	local := storage.WithPrefix(base, storage.SessionPrefix(""))
	require.NoError(t, local.Set(ctx, storage.KeyLanguage, []byte(`"fr"`)))
	_, err = base.Get(ctx, storage.KeyLanguage)
	assert.NoError(t, err)
}

func TestPrefixed_Contract(t *testing.T) {
	storagetest.Run(t, storage.WithPrefix(storage.NewMemory(), "scope:"))
}
