package api

import (
	"context"
	"fmt"
	"log/slog"

	cartmemory "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/persistence/redis"
	cartsqlite "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/persistence/sqlite"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-cart-server/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-cart-server/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-cart-server/internal/platform/redis"
	platformsqlite "github.com/Apurer/go-gin-cart-server/internal/platform/sqlite"
)

// OpenSnapshotStore connects the backend selected by cfg.CartStore. The
// returned cleanup releases the connection and is never nil.
func OpenSnapshotStore(ctx context.Context, cfg Config) (cartports.SnapshotStore, func(), error) {
	noop := func() {}
	switch cfg.CartStore {
	case StoreMemory:
		return cartmemory.NewSnapshotStore(), noop, nil
	case StoreSQLite:
		db, err := platformsqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite: %w", err)
		}
		store, err := cartsqlite.NewSnapshotStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return store, func() { _ = db.Close() }, nil
	case StorePostgres:
		db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("unwrap postgres connection: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			_ = sqlDB.Close()
			return nil, noop, fmt.Errorf("migrate postgres: %w", err)
		}
		return cartpostgres.NewSnapshotStore(db), func() { _ = sqlDB.Close() }, nil
	case StoreRedis:
		client, err := platformredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect redis: %w", err)
		}
		return cartredis.NewSnapshotStore(client, cfg.RedisKeyPrefix), func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown cart store %q", cfg.CartStore)
	}
}

// buildSnapshotStore opens the configured backend and falls back to memory
// when it is unreachable, so the cart stays usable without durability.
func buildSnapshotStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.SnapshotStore, func()) {
	store, cleanup, err := OpenSnapshotStore(ctx, cfg)
	if err != nil {
		logger.Warn("cart store unavailable, falling back to memory",
			slog.String("store", cfg.CartStore), slog.String("error", err.Error()))
		return cartmemory.NewSnapshotStore(), func() {}
	}
	logger.Info("cart snapshot store configured", slog.String("store", cfg.CartStore))
	return store, cleanup
}
