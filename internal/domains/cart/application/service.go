package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update_amount"
)

// Service owns the authoritative cart snapshot and mediates every change
// through stock-aware validation. Operations are serialized: each one reads the
// latest committed snapshot and commits before the next one starts.
type Service struct {
	catalog  ports.Catalog
	store    ports.SnapshotStore
	notifier ports.Notifier
	logger   *slog.Logger
	key      string

	opMu    sync.Mutex
	current atomic.Pointer[domain.Cart]

	subMu       sync.RWMutex
	subscribers map[uint64]ports.Subscriber
	nextSubID   uint64
}

// Option configures optional collaborators.
type Option func(*Service)

// WithNotifier sets the sink for user-facing notices.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStorageKey overrides the durable key the snapshot is stored under.
func WithStorageKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.key = key
		}
	}
}

// NewService wires the cart store and restores the last persisted snapshot.
// A missing or corrupt snapshot yields an empty cart.
func NewService(ctx context.Context, catalog ports.Catalog, store ports.SnapshotStore, opts ...Option) *Service {
	s := &Service{
		catalog:     catalog,
		store:       store,
		notifier:    discardNotifier{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		key:         ports.DefaultStorageKey,
		subscribers: map[uint64]ports.Subscriber{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.current.Store(s.restore(ctx))
	return s
}

func (s *Service) restore(ctx context.Context) *domain.Cart {
	payload, err := s.store.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrSnapshotNotFound) {
			s.logger.WarnContext(ctx, "failed to load cart snapshot, starting empty",
				slog.String("key", s.key), slog.String("error", err.Error()))
		}
		return domain.EmptyCart()
	}
	cart, err := domain.DecodeCart(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cart snapshot",
			slog.String("key", s.key), slog.String("error", err.Error()))
		return domain.EmptyCart()
	}
	return cart
}

// Cart returns the current snapshot. Callers must treat it as read-only.
func (s *Service) Cart(_ context.Context) *domain.Cart {
	return s.current.Load()
}

// Add puts one more unit of productID in the cart, fetching the product when
// it is new to the cart.
func (s *Service) Add(ctx context.Context, productID int64) error {
	return s.run(ctx, opAdd, productID, func(snapshot *domain.Cart) (*domain.Cart, error) {
		if productID <= 0 {
			return nil, domain.ErrInvalidProductID
		}
		stock, err := s.catalog.GetStock(ctx, productID)
		if err != nil {
			return nil, transportError(err)
		}
		desired := snapshot.AmountOf(productID) + 1
		if !stock.Allows(desired) {
			return nil, domain.ErrStockExceeded
		}
		if _, ok := snapshot.Find(productID); ok {
			return snapshot.WithAmount(productID, desired)
		}
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return nil, transportError(err)
		}
		if product.ID != productID {
			return nil, transportError(fmt.Errorf("catalog returned product %d for %d", product.ID, productID))
		}
		entry, err := domain.NewEntry(product, 1)
		if err != nil {
			return nil, err
		}
		return snapshot.WithEntry(entry)
	})
}

// Remove drops the entry for productID.
func (s *Service) Remove(ctx context.Context, productID int64) error {
	return s.run(ctx, opRemove, productID, func(snapshot *domain.Cart) (*domain.Cart, error) {
		return snapshot.Without(productID)
	})
}

// UpdateAmount sets an absolute quantity for an entry already in the cart.
// Non-positive amounts are ignored without a notice.
func (s *Service) UpdateAmount(ctx context.Context, input ports.UpdateAmountInput) error {
	if input.Amount <= 0 {
		return nil
	}
	return s.run(ctx, opUpdate, input.ProductID, func(snapshot *domain.Cart) (*domain.Cart, error) {
		stock, err := s.catalog.GetStock(ctx, input.ProductID)
		if err != nil {
			return nil, transportError(err)
		}
		if !stock.Allows(input.Amount) {
			return nil, domain.ErrStockExceeded
		}
		return snapshot.WithAmount(input.ProductID, input.Amount)
	})
}

// Subscribe registers fn for every committed snapshot. fn runs on the
// committing goroutine and must not call back into mutating operations.
func (s *Service) Subscribe(fn ports.Subscriber) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

// run executes one serialized transition: mutate computes the next snapshot
// from the current one and nothing is committed unless it succeeds. Once a
// snapshot is committed the operation reports success.
func (s *Service) run(ctx context.Context, op string, productID int64, mutate func(*domain.Cart) (*domain.Cart, error)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next, err := apply(s.current.Load(), mutate)
	if err != nil {
		return s.reject(ctx, op, productID, err)
	}
	s.commit(ctx, next)
	return nil
}

// apply turns a panic inside mutate into ErrInternal.
func apply(snapshot *domain.Cart, mutate func(*domain.Cart) (*domain.Cart, error)) (next *domain.Cart, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	return mutate(snapshot)
}

// commit swaps in next and fans it out. A nil or unchanged snapshot is not
// written or published.
func (s *Service) commit(ctx context.Context, next *domain.Cart) {
	prev := s.current.Load()
	if next == nil || next == prev {
		return
	}
	s.current.Store(next)
	s.persist(ctx, next)
	s.publish(ctx, next)
}

// persist writes the whole snapshot. A failed write is logged and healed by
// the next commit, which rewrites the full cart.
func (s *Service) persist(ctx context.Context, cart *domain.Cart) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "cart snapshot store panicked",
				slog.String("key", s.key), slog.Any("panic", r))
		}
	}()
	payload, err := json.Marshal(cart)
	if err == nil {
		err = s.store.Save(ctx, s.key, payload)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart snapshot",
			slog.String("key", s.key), slog.Int("cart.entries", cart.Len()), slog.String("error", err.Error()))
	}
}

func (s *Service) publish(ctx context.Context, cart *domain.Cart) {
	s.subMu.RLock()
	subscribers := make([]ports.Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.subMu.RUnlock()
	for _, fn := range subscribers {
		s.deliver(ctx, fn, cart)
	}
}

// deliver runs one subscriber. A panic is logged and does not undo the commit.
func (s *Service) deliver(ctx context.Context, fn ports.Subscriber, cart *domain.Cart) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "cart subscriber panicked", slog.Any("panic", r))
		}
	}()
	fn(cart)
}

func (s *Service) reject(ctx context.Context, op string, productID int64, cause error) error {
	notice := domain.NewNotice(noticeKindFor(op, cause), productID)
	s.notifier.Notify(ctx, notice)
	return &OperationError{Op: op, Notice: notice, Err: cause}
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, domain.Notice) {}

var _ ports.Service = (*Service)(nil)
