package api

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	cartsqlite "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/persistence/sqlite"
)

func TestOpenSnapshotStore_SQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "nested", "cart.db")
	ctx := context.Background()

	store, cleanup, err := OpenSnapshotStore(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &cartsqlite.SnapshotStore{}, store)
	require.NoError(t, store.Save(ctx, cfg.StorageKey, []byte(`[]`)))
	payload, err := store.Load(ctx, cfg.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(payload))
}

func TestBuildSnapshotStore_FallsBackToMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CartStore = StoreRedis
	cfg.RedisURL = "not a url"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, cleanup := buildSnapshotStore(context.Background(), cfg, logger)
	defer cleanup()

	assert.IsType(t, &cartmemory.SnapshotStore{}, store)
}
