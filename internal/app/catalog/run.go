package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cartserver "github.com/Apurer/go-gin-cart-server/go"

	cartmemory "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	"github.com/Apurer/go-gin-cart-server/internal/platform/httpserver"
	platformobservability "github.com/Apurer/go-gin-cart-server/internal/platform/observability"
)

const serviceName = "catalog-api"

// Config carries environment-driven settings for the demo catalog service.
type Config struct {
	Port string
	// SeedFile optionally replaces the bundled products and stock.
	SeedFile       string
	Environment    string
	LogLevel       string
	TracesExporter string
}

// LoadConfig reads CATALOG_PORT (falling back to PORT), CATALOG_SEED_FILE,
// and the shared observability variables.
func LoadConfig() Config {
	port := strings.TrimSpace(os.Getenv("CATALOG_PORT"))
	if port == "" {
		port = strings.TrimSpace(os.Getenv("PORT"))
	}
	if port == "" {
		port = "3333"
	}
	return Config{
		Port:           port,
		SeedFile:       strings.TrimSpace(os.Getenv("CATALOG_SEED_FILE")),
		Environment:    envDefault("DEPLOYMENT_ENVIRONMENT", "local"),
		LogLevel:       envDefault("LOG_LEVEL", "info"),
		TracesExporter: envDefault("OTEL_TRACES_EXPORTER", "otlp"),
	}
}

// NewInventory builds the in-memory catalog the service reads from.
func NewInventory(seedFile string) (*cartmemory.Catalog, error) {
	if seedFile == "" {
		return cartmemory.NewSeededCatalog()
	}
	data, err := os.ReadFile(filepath.Clean(seedFile))
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	return cartmemory.NewCatalogFromJSON(data)
}

// NewRouter serves stock and product records from inventory.
func NewRouter(inventory cartserver.InventorySource) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	return cartserver.NewRouterWithGinEngine(router, cartserver.ApiHandleFunctions{
		InventoryAPI: cartserver.NewInventoryAPI(inventory),
	})
}

// Run boots the catalog service until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName:    serviceName,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
		TracesExporter: cfg.TracesExporter,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	inventory, err := NewInventory(cfg.SeedFile)
	if err != nil {
		return err
	}
	products, _ := inventory.ListProducts(ctx)
	addr := ":" + cfg.Port
	logger.Info("catalog API listening", slog.String("addr", addr), slog.Int("products", len(products)))
	return httpserver.Serve(ctx, logger, addr, NewRouter(inventory))
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
