//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-cart-server/internal/platform/migrations"
)

func setupCartPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("cart_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

const samplePayload = `[{"id":3,"title":"Shoe","price":179.9,"image":"shoe.png","amount":2},{"id":1,"title":"Boot","price":99.9,"image":"boot.png","amount":1}]`

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	store := NewSnapshotStore(db)
	ctx := context.Background()

	_, err := store.Load(ctx, ports.DefaultStorageKey)
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, ports.DefaultStorageKey, []byte(samplePayload)))

	loaded, err := store.Load(ctx, ports.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, samplePayload, string(loaded))
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	store := NewSnapshotStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.DefaultStorageKey, []byte(samplePayload)))
	require.NoError(t, store.Save(ctx, ports.DefaultStorageKey, []byte("[]")))

	loaded, err := store.Load(ctx, ports.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(loaded))
}

func TestSnapshotStore_KeysHoldingProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	store := NewSnapshotStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", []byte(samplePayload)))
	require.NoError(t, store.Save(ctx, "b", []byte(`[{"id":1,"title":"Boot","price":99.9,"image":"boot.png","amount":3}]`)))

	keys, err := store.KeysHoldingProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	keys, err = store.KeysHoldingProduct(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
}

func TestSnapshotStore_Clear(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	store := NewSnapshotStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.DefaultStorageKey, []byte(samplePayload)))
	require.NoError(t, store.Clear(ctx, ports.DefaultStorageKey))

	_, err := store.Load(ctx, ports.DefaultStorageKey)
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	require.NoError(t, store.Clear(ctx, ports.DefaultStorageKey))
}

func TestNewSnapshotStore_LeavesSchemaToMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()
	require.NoError(t, db.Migrator().DropTable("cart_snapshots"))

	store := NewSnapshotStore(db)
	assert.False(t, db.Migrator().HasTable("cart_snapshots"))
	assert.Error(t, store.Save(context.Background(), ports.DefaultStorageKey, []byte(samplePayload)))

	require.NoError(t, migrations.Run(db))
	require.NoError(t, store.Save(context.Background(), ports.DefaultStorageKey, []byte(samplePayload)))
}
