package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/domain"
)

// CartEntry is the transport shape of one cart line.
type CartEntry struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Price             float64 `json:"price"`
	PriceFormatted    string  `json:"priceFormatted"`
	Image             string  `json:"image"`
	Amount            int     `json:"amount"`
	Subtotal          float64 `json:"subtotal"`
	SubtotalFormatted string  `json:"subtotalFormatted"`
}

// Cart is the transport shape of the whole cart with derived totals.
type Cart struct {
	Entries        []CartEntry `json:"entries"`
	Size           int         `json:"size"`
	Total          float64     `json:"total"`
	TotalFormatted string      `json:"totalFormatted"`
}

// Notice is the transport shape of a recorded notice.
type Notice struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	ProductID int64     `json:"productId,omitempty"`
	RaisedAt  time.Time `json:"raisedAt"`
}

// UpdateAmount is the request body for an absolute quantity change.
type UpdateAmount struct {
	Amount *int `json:"amount" binding:"required"`
}

// FromDomainCart converts a snapshot into its transport representation.
// Money is summed as decimals so totals do not drift.
func FromDomainCart(cart *cartdomain.Cart) Cart {
	entries := cart.Entries()
	out := Cart{Entries: make([]CartEntry, 0, len(entries)), Size: len(entries)}
	total := decimal.Zero
	for _, e := range entries {
		subtotal := decimal.NewFromFloat(e.Price).Mul(decimal.NewFromInt(int64(e.Amount)))
		total = total.Add(subtotal)
		out.Entries = append(out.Entries, CartEntry{
			ID:                e.ID,
			Title:             e.Title,
			Price:             e.Price,
			PriceFormatted:    catalogdomain.FormatPrice(e.Price),
			Image:             e.Image,
			Amount:            e.Amount,
			Subtotal:          subtotal.Round(2).InexactFloat64(),
			SubtotalFormatted: catalogdomain.FormatDecimal(subtotal),
		})
	}
	out.Total = total.Round(2).InexactFloat64()
	out.TotalFormatted = catalogdomain.FormatDecimal(total)
	return out
}

// FromDomainNotices converts recorded notices, preserving order.
func FromDomainNotices(notices []cartdomain.Notice) []Notice {
	out := make([]Notice, 0, len(notices))
	for _, n := range notices {
		out = append(out, Notice{
			ID:        n.ID.String(),
			Kind:      string(n.Kind),
			Message:   n.Message,
			ProductID: n.ProductID,
			RaisedAt:  n.RaisedAt,
		})
	}
	return out
}
