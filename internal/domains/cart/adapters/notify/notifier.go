package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// LogNotifier writes every notice to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice domain.Notice) {
	n.logger.LogAttrs(ctx, slog.LevelWarn, notice.Message,
		slog.String("notice.id", notice.ID.String()),
		slog.String("notice.kind", string(notice.Kind)),
		slog.Int64("product.id", notice.ProductID))
}

// Recorder keeps the most recent notices so they can be shown to the user.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	notices []domain.Notice
}

const defaultRecorderLimit = 20

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = defaultRecorderLimit
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(_ context.Context, notice domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
	if over := len(r.notices) - r.limit; over > 0 {
		r.notices = append([]domain.Notice(nil), r.notices[over:]...)
	}
}

// Recent returns the retained notices, newest last.
func (r *Recorder) Recent() []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Fanout delivers each notice to every wrapped notifier in order.
type Fanout []ports.Notifier

func (f Fanout) Notify(ctx context.Context, notice domain.Notice) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, notice)
		}
	}
}

var (
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.Notifier = (*Recorder)(nil)
	_ ports.Notifier = Fanout(nil)
)
