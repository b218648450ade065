package ports

import (
	"context"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

// UpdateAmountInput targets an absolute quantity for a product already in the cart.
type UpdateAmountInput struct {
	ProductID int64
	Amount    int
}

// Service exposes the cart store use cases to adapters.
type Service interface {
	Add(ctx context.Context, productID int64) error
	Remove(ctx context.Context, productID int64) error
	UpdateAmount(ctx context.Context, input UpdateAmountInput) error
	Cart(ctx context.Context) *domain.Cart
	// Subscribe registers fn for every committed snapshot and returns a func that unregisters it.
	Subscribe(fn Subscriber) (unsubscribe func())
}
