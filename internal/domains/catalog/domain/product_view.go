package domain

import (
	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

// ProductView is a catalog product decorated for display.
type ProductView struct {
	cartdomain.Product
	PriceFormatted string
	QuantityInCart int
}

// NewProductViews pairs each product with its formatted price and the amount
// already in the cart. Products absent from amounts show zero.
func NewProductViews(products []cartdomain.Product, amounts map[int64]int) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			Product:        p,
			PriceFormatted: FormatPrice(p.Price),
			QuantityInCart: amounts[p.ID],
		})
	}
	return views
}
