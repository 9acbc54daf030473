package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/jafarshop/storefront/internal/domain"
)

var (
	// FreeShippingThreshold is exclusive: a subtotal of exactly 50.00 still pays shipping
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShippingRate      = decimal.RequireFromString("5.99")
	TaxRate               = decimal.RequireFromString("0.08")
)

// Summary holds the order totals at full precision
type Summary struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// SummaryView is Summary rendered for display
type SummaryView struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// LineView is one rendered row of the order summary
type LineView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingRate
}

func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

// Price derives all totals from the cart
func Price(items []domain.CartItem) Summary {
	subtotal := Subtotal(items)
	shipping := Shipping(subtotal)
	tax := Tax(subtotal)

	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Display rounds every amount to two decimals
func (s Summary) Display() SummaryView {
	return SummaryView{
		Subtotal: FormatMoney(s.Subtotal),
		Shipping: FormatMoney(s.Shipping),
		Tax:      FormatMoney(s.Tax),
		Total:    FormatMoney(s.Total),
	}
}

// Lines renders the per-item rows of the summary
func Lines(items []domain.CartItem) []LineView {
	lines := make([]LineView, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineView{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			LineTotal: FormatMoney(item.LineTotal()),
		})
	}
	return lines
}

func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
