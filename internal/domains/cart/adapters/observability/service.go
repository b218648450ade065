package observability

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/observability/service"

// Service decorates the cart store with tracing, logging and metrics.
// Decorated operations run one at a time so that the snapshot captured from
// the store's subscription is the one the running operation committed.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics

	mu        sync.Mutex
	committed atomic.Pointer[cartdomain.Cart]
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	inner.Subscribe(func(cart *cartdomain.Cart) { s.committed.Store(cart) })
	return s
}

func (s *Service) Add(ctx context.Context, productID int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Add", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.Store(nil)

	s.logInfo(ctx, "adding product to cart", slog.Int64("product.id", productID))
	if err := s.inner.Add(ctx, productID); err != nil {
		return s.handleRejection(ctx, span, "add", err, slog.Int64("product.id", productID))
	}
	s.recordCommit(ctx, span, "add", productID)
	return nil
}

func (s *Service) Remove(ctx context.Context, productID int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Remove", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.Store(nil)

	s.logInfo(ctx, "removing product from cart", slog.Int64("product.id", productID))
	if err := s.inner.Remove(ctx, productID); err != nil {
		return s.handleRejection(ctx, span, "remove", err, slog.Int64("product.id", productID))
	}
	s.recordCommit(ctx, span, "remove", productID)
	return nil
}

func (s *Service) UpdateAmount(ctx context.Context, input cartports.UpdateAmountInput) error {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateAmount", trace.WithAttributes(
		attribute.Int64("product.id", input.ProductID),
		attribute.Int("cart.amount", input.Amount),
	))
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.Store(nil)

	s.logInfo(ctx, "updating cart amount", slog.Int64("product.id", input.ProductID), slog.Int("amount", input.Amount))
	if err := s.inner.UpdateAmount(ctx, input); err != nil {
		return s.handleRejection(ctx, span, "update_amount", err,
			slog.Int64("product.id", input.ProductID), slog.Int("amount", input.Amount))
	}
	s.recordCommit(ctx, span, "update_amount", input.ProductID)
	return nil
}

func (s *Service) Cart(ctx context.Context) *cartdomain.Cart {
	return s.inner.Cart(ctx)
}

func (s *Service) Subscribe(fn cartports.Subscriber) func() {
	return s.inner.Subscribe(fn)
}

func (s *Service) recordCommit(ctx context.Context, span trace.Span, op string, productID int64) {
	cart := s.committed.Load()
	if cart == nil {
		span.SetAttributes(attribute.Bool("cart.noop", true))
		return
	}
	span.SetAttributes(attribute.Int("cart.entries", cart.Len()))
	s.metrics.recordCommit(ctx, op)
	s.logInfo(ctx, "cart committed",
		slog.String("op", op),
		slog.Int64("product.id", productID),
		slog.Int("cart.entries", cart.Len()),
		slog.Int("product.amount", cart.AmountOf(productID)),
		slog.Float64("cart.total", cart.Total()))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleRejection records a rejected operation. Stock shortfalls are an
// expected outcome and stay at warn level; everything else is an error.
func (s *Service) handleRejection(ctx context.Context, span trace.Span, op string, err error, attrs ...slog.Attr) error {
	kind := cartapp.Kind(err)
	notice, _ := cartapp.NoticeOf(err)
	span.SetAttributes(attribute.String("cart.rejection", kind), attribute.String("cart.notice", string(notice.Kind)))
	attrs = append(attrs,
		slog.String("op", op),
		slog.String("rejection", kind),
		slog.String("notice", notice.Message),
		slog.String("error", err.Error()))

	level := slog.LevelWarn
	if kind != "stock_exceeded" {
		level = slog.LevelError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, level, "cart operation rejected", attrs...)
	}
	s.metrics.recordRejection(ctx, op, kind)
	return err
}

type serviceMetrics struct {
	commits    metric.Int64Counter
	rejections metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	commits, _ := m.Int64Counter("cart.service.commits", metric.WithDescription("Number of committed cart snapshots"))
	rejections, _ := m.Int64Counter("cart.service.notices", metric.WithDescription("Number of notices raised by rejected cart operations"))
	return serviceMetrics{commits: commits, rejections: rejections}
}

func (m serviceMetrics) recordCommit(ctx context.Context, op string) {
	if m.commits != nil {
		m.commits.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.op", op)))
	}
}

func (m serviceMetrics) recordRejection(ctx context.Context, op, kind string) {
	if m.rejections != nil {
		m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.op", op), attribute.String("cart.rejection", kind)))
	}
}

var _ cartports.Service = (*Service)(nil)
