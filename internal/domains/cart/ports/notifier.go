package ports

import (
	"context"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

// Notifier delivers user-facing notices. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
}

// Subscriber observes each committed cart snapshot.
type Subscriber func(cart *domain.Cart)
