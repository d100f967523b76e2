package pricing

import (
	"github.com/fjod/go_food/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// Tax is charged on every order.
	Tax = decimal.RequireFromString("2.00")
	// ShippingFee is charged whenever a discount-bearing promotion is applied.
	ShippingFee = decimal.RequireFromString("2.00")
)

// Subtotal sums unit price times quantity over the lines, rounded to cents.
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum.Round(2)
}

// Compose builds the final breakdown. Shipping is waived only when there is no discount.
func Compose(subtotal, discount decimal.Decimal) domain.PriceBreakdown {
	shipping := decimal.Zero
	if discount.IsPositive() {
		shipping = ShippingFee
	}

	total := subtotal.Sub(discount).Add(Tax).Add(shipping)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return domain.PriceBreakdown{
		Subtotal:    subtotal.InexactFloat64(),
		Discount:    discount.InexactFloat64(),
		Tax:         Tax.InexactFloat64(),
		ShippingFee: shipping.InexactFloat64(),
		Total:       total.Round(2).InexactFloat64(),
	}
}

// Quote runs aggregation, promotion and fee composition for one cart.
func Quote(lines []domain.CartLine, promo Promotion) domain.PriceBreakdown {
	subtotal := Subtotal(lines)
	return Compose(subtotal, promo.Discount(subtotal))
}
