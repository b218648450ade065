package ports

import (
	"context"

	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

// ProductLister returns the full product list from the remote catalog.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]cartdomain.Product, error)
}
