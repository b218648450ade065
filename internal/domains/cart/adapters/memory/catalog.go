package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

//go:embed seed.json
var seedJSON []byte

var _ ports.Catalog = (*Catalog)(nil)

// Catalog is an in-memory product and stock source. It backs the demo catalog
// service and doubles as a test double for the remote catalog.
type Catalog struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	stock    map[int64]int
}

func NewCatalog() *Catalog {
	return &Catalog{products: map[int64]domain.Product{}, stock: map[int64]int{}}
}

type seedFile struct {
	Products []domain.Product `json:"products"`
	Stock    []domain.Stock   `json:"stock"`
}

// NewSeededCatalog returns a catalog loaded with the bundled demo products.
func NewSeededCatalog() (*Catalog, error) {
	return NewCatalogFromJSON(seedJSON)
}

// NewCatalogFromJSON loads a catalog from a {"products": [...], "stock": [...]} document.
func NewCatalogFromJSON(data []byte) (*Catalog, error) {
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	c := NewCatalog()
	for _, p := range seed.Products {
		if err := c.PutProduct(p); err != nil {
			return nil, err
		}
	}
	for _, s := range seed.Stock {
		if err := c.SetStock(s.ID, s.Amount); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// PutProduct inserts or replaces a product.
func (c *Catalog) PutProduct(p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
	return nil
}

// SetStock records the available quantity for a product.
func (c *Catalog) SetStock(productID int64, amount int) error {
	if productID <= 0 {
		return domain.ErrInvalidProductID
	}
	if amount < 0 {
		return errors.New("stock amount must not be negative")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stock[productID] = amount
	return nil
}

// Reset drops every product and stock record.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = map[int64]domain.Product{}
	c.stock = map[int64]int{}
}

func (c *Catalog) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	amount, ok := c.stock[productID]
	if !ok {
		return domain.Stock{}, ports.ErrProductNotFound
	}
	return domain.Stock{ID: productID, Amount: amount}, nil
}

func (c *Catalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[productID]
	if !ok {
		return domain.Product{}, ports.ErrProductNotFound
	}
	return p, nil
}

// ListProducts returns every product ordered by identifier.
func (c *Catalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
