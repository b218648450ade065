package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix precedes formatted amounts. The separator is a non-breaking
// space, as pt-BR currency formatting emits.
const CurrencyPrefix = "R$\u00a0"

// FormatPrice renders a price in pt-BR currency style, e.g. "R$ 1.234,50".
func FormatPrice(price float64) string {
	return FormatDecimal(decimal.NewFromFloat(price))
}

// FormatDecimal is FormatPrice for values that are already decimals.
func FormatDecimal(value decimal.Decimal) string {
	rounded := value.Round(2)
	whole, fraction, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(CurrencyPrefix)
	b.WriteString(groupThousands(whole))
	b.WriteByte(',')
	b.WriteString(fraction)
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
