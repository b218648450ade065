package catalog

import (
	"context"
	"errors"

	catalogclient "github.com/Apurer/go-gin-cart-server/internal/clients/http/catalog"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// Reader adapts the catalog HTTP client to the cart ports.
type Reader struct {
	client *catalogclient.Client
}

func NewReader(client *catalogclient.Client) *Reader {
	return &Reader{client: client}
}

func (r *Reader) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	stock, err := r.client.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, mapError(err)
	}
	return domain.Stock{ID: stock.ID, Amount: stock.Amount}, nil
}

func (r *Reader) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	product, err := r.client.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, mapError(err)
	}
	return toDomain(product), nil
}

func (r *Reader) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := r.client.ListProducts(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toDomain(p))
	}
	return out, nil
}

func toDomain(p catalogclient.Product) domain.Product {
	return domain.Product{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
}

func mapError(err error) error {
	if errors.Is(err, catalogclient.ErrNotFound) {
		return ports.ErrProductNotFound
	}
	return err
}

var _ ports.Catalog = (*Reader)(nil)
