package domain

import "errors"

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
)

// Product is the immutable catalog record a cart entry is built from.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Validate enforces the catalog identity invariant.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	return nil
}

// Stock is the externally owned availability of a product.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Allows reports whether the requested quantity fits in the available stock.
func (s Stock) Allows(amount int) bool {
	return amount <= s.Amount
}
