package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	platformsqlite "github.com/Apurer/go-gin-cart-server/internal/platform/sqlite"
)

func openStore(t *testing.T, path string) *SnapshotStore {
	t.Helper()
	ctx := context.Background()
	db, err := platformsqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSnapshotStore(ctx, db)
	require.NoError(t, err)
	return store
}

func TestSnapshotStore_SaveLoadClear(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cart.db"))
	ctx := context.Background()

	_, err := store.Load(ctx, ports.DefaultStorageKey)
	require.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, ports.DefaultStorageKey, []byte(`[{"id":1,"title":"a","price":1,"image":"","amount":1}]`)))
	require.NoError(t, store.Save(ctx, ports.DefaultStorageKey, []byte(`[]`)))

	loaded, err := store.Load(ctx, ports.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(loaded))

	require.NoError(t, store.Clear(ctx, ports.DefaultStorageKey))
	_, err = store.Load(ctx, ports.DefaultStorageKey)
	require.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	require.Error(t, store.Save(ctx, " ", []byte("[]")))
}

func TestSnapshotStore_CartSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile", "cart.db")
	ctx := context.Background()

	catalog, err := memory.NewSeededCatalog()
	require.NoError(t, err)

	first := application.NewService(ctx, catalog, openStore(t, path))
	require.NoError(t, first.Add(ctx, 2))
	require.NoError(t, first.Add(ctx, 2))
	require.NoError(t, first.Add(ctx, 1))

	restarted := application.NewService(ctx, catalog, openStore(t, path))
	assert.Equal(t, first.Cart(ctx).Entries(), restarted.Cart(ctx).Entries())
	assert.Equal(t, 2, restarted.Cart(ctx).AmountOf(2))
}
