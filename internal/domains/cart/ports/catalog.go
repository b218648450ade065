package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

var ErrProductNotFound = errors.New("product not found")

// StockReader queries the external availability of a product.
type StockReader interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
}

// ProductReader fetches full catalog records.
type ProductReader interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

// Catalog is the remote service the cart store validates against.
type Catalog interface {
	StockReader
	ProductReader
}
