package mapper

import (
	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/domain"
)

// Product is the catalog view shape returned to clients.
type Product struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"`
	PriceFormatted string  `json:"priceFormatted"`
	Image          string  `json:"image"`
	QuantityInCart int     `json:"quantityInCart"`
}

// RemoteProduct is the raw product record served by the catalog service.
type RemoteProduct struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// RemoteStock is the raw stock record served by the catalog service.
type RemoteStock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func FromProductViews(views []catalogdomain.ProductView) []Product {
	out := make([]Product, 0, len(views))
	for _, v := range views {
		out = append(out, Product{
			ID:             v.ID,
			Title:          v.Title,
			Price:          v.Price,
			PriceFormatted: v.PriceFormatted,
			Image:          v.Image,
			QuantityInCart: v.QuantityInCart,
		})
	}
	return out
}

func FromDomainProduct(p cartdomain.Product) RemoteProduct {
	return RemoteProduct{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
}

func FromDomainProducts(products []cartdomain.Product) []RemoteProduct {
	out := make([]RemoteProduct, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomainProduct(p))
	}
	return out
}

func FromDomainStock(s cartdomain.Stock) RemoteStock {
	return RemoteStock{ID: s.ID, Amount: s.Amount}
}
