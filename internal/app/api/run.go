package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cartserver "github.com/Apurer/go-gin-cart-server/go"

	catalogclient "github.com/Apurer/go-gin-cart-server/internal/clients/http/catalog"
	cartcatalog "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/external/catalog"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/notify"
	cartobs "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	catalogapp "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/application"
	"github.com/Apurer/go-gin-cart-server/internal/platform/httpserver"
	platformobservability "github.com/Apurer/go-gin-cart-server/internal/platform/observability"
)

const serviceName = "cart-api"

// Run boots the cart HTTP API with observability, the catalog client, and the
// configured snapshot store wired. It returns when ctx is cancelled.
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

	store, cleanupStore := buildSnapshotStore(ctx, cfg, logger)
	defer cleanupStore()

	client, err := catalogclient.NewClient(cfg.CatalogBaseURL, &http.Client{Timeout: cfg.CatalogTimeout},
		catalogclient.WithTracePropagation(nil))
	if err != nil {
		return err
	}
	remote := cartcatalog.NewReader(client)

	notices := notify.NewRecorder(cfg.NoticeHistory)
	coreCart := cartapp.NewService(ctx, remote, store,
		cartapp.WithNotifier(notify.Fanout{notify.NewLogNotifier(logger), notices}),
		cartapp.WithLogger(logger),
		cartapp.WithStorageKey(cfg.StorageKey),
	)
	cart := cartobs.New(coreCart,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	unsubscribe := cart.Subscribe(func(snapshot *cartdomain.Cart) {
		logger.Debug("cart snapshot published", slog.Int("cart.entries", snapshot.Len()))
	})
	defer unsubscribe()
	view := catalogapp.NewView(remote, cart)

	handlers := cartserver.ApiHandleFunctions{
		CartAPI:       cartserver.NewCartAPI(cart, notices),
		StorefrontAPI: cartserver.NewStorefrontAPI(view, cart),
	}
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router = cartserver.NewRouterWithGinEngine(router, handlers)

	logger.Info("cart API listening",
		slog.String("addr", cfg.Addr()),
		slog.String("catalog", cfg.CatalogBaseURL),
		slog.Int("cart.entries", cart.Cart(ctx).Len()))
	return httpserver.Serve(ctx, logger, cfg.Addr(), router)
}
