package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		0:          "R$\u00a00,00",
		179.9:      "R$\u00a0179,90",
		139.9:      "R$\u00a0139,90",
		1234.5:     "R$\u00a01.234,50",
		1234567.89: "R$\u00a01.234.567,89",
		0.005:      "R$\u00a00,01",
		-12.3:      "-R$\u00a012,30",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(in), "price %v", in)
	}
}

func TestFormatDecimal_NegativeZeroDropsSign(t *testing.T) {
	assert.Equal(t, "R$\u00a00,00", FormatDecimal(decimal.RequireFromString("-0.001")))
}

func TestNewProductViews_FoldsCartAmounts(t *testing.T) {
	products := []cartdomain.Product{
		{ID: 1, Title: "A", Price: 10, Image: "a"},
		{ID: 2, Title: "B", Price: 20.5, Image: "b"},
	}

	views := NewProductViews(products, map[int64]int{2: 3, 9: 1})

	require.Len(t, views, 2)
	assert.Equal(t, 0, views[0].QuantityInCart)
	assert.Equal(t, 3, views[1].QuantityInCart)
	assert.Equal(t, "R$\u00a020,50", views[1].PriceFormatted)
	assert.Equal(t, "B", views[1].Title)
}
