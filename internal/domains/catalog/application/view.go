package application

import (
	"context"
	"fmt"
	"sync"

	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-cart-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/catalog/ports"
)

// View lists the remote catalog alongside the cart's current amounts and
// forwards add requests to the cart store.
type View struct {
	lister ports.ProductLister
	cart   cartports.Service

	mu       sync.Mutex
	loaded   bool
	products []cartdomain.Product
}

func NewView(lister ports.ProductLister, cart cartports.Service) *View {
	return &View{lister: lister, cart: cart}
}

// Load fetches the product list once. A failed fetch is not cached, so the
// next call retries it.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded {
		return nil
	}
	products, err := v.lister.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("load product list: %w", err)
	}
	v.products = products
	v.loaded = true
	return nil
}

// Products returns the display list, loading it first if needed.
func (v *View) Products(ctx context.Context) ([]domain.ProductView, error) {
	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	v.mu.Lock()
	products := v.products
	v.mu.Unlock()
	return domain.NewProductViews(products, v.cart.Cart(ctx).Amounts()), nil
}

// AddProduct puts one unit of productID in the cart.
func (v *View) AddProduct(ctx context.Context, productID int64) error {
	return v.cart.Add(ctx, productID)
}
