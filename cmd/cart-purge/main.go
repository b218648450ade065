package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-cart-server/internal/app/api"
	cartpostgres "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/persistence/postgres"
)

func main() {
	productID := flag.Int64("product", 0, "clear every cart holding this product id (postgres store only)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store, cleanup, err := api.OpenSnapshotStore(ctx, cfg)
	if err != nil {
		log.Fatalf("cart store unavailable: %v", err)
	}
	defer cleanup()

	keys := []string{cfg.StorageKey}
	if *productID > 0 {
		pg, ok := store.(*cartpostgres.SnapshotStore)
		if !ok {
			log.Fatalf("-product requires CART_STORE=postgres, got %s", cfg.CartStore)
		}
		if keys, err = pg.KeysHoldingProduct(ctx, *productID); err != nil {
			log.Fatalf("failed to find carts holding product %d: %v", *productID, err)
		}
	}

	for _, key := range keys {
		if err := store.Clear(ctx, key); err != nil {
			log.Fatalf("failed to clear cart %q: %v", key, err)
		}
		logger.Info("cart snapshot cleared", slog.String("store", cfg.CartStore), slog.String("key", key))
	}
	logger.Info("cart purge completed", slog.Int("cleared", len(keys)))
}
