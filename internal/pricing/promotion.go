package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownPromotion = errors.New("unknown promotion")

// Promotion is one entry of the fixed promotion table. The zero value is not a valid promotion;
// use the package variables or ParsePromotion.
type Promotion struct {
	label     string
	threshold decimal.Decimal
	rate      decimal.Decimal
}

var (
	FreeShipping = Promotion{label: "Free Shipping"}

	FivePercentOff = Promotion{
		label:     "5% off for orders above 5$",
		threshold: decimal.RequireFromString("5.00"),
		rate:      decimal.RequireFromString("0.05"),
	}
	TenPercentOff = Promotion{
		label:     "10% off for orders above 10$",
		threshold: decimal.RequireFromString("10.00"),
		rate:      decimal.RequireFromString("0.10"),
	}
	FifteenPercentOff = Promotion{
		label:     "15% off for orders above 20$",
		threshold: decimal.RequireFromString("20.00"),
		rate:      decimal.RequireFromString("0.15"),
	}
)

var promotions = []Promotion{FreeShipping, FivePercentOff, TenPercentOff, FifteenPercentOff}

// Promotions lists the selectable promotions in display order.
func Promotions() []Promotion {
	out := make([]Promotion, len(promotions))
	copy(out, promotions)
	return out
}

// ParsePromotion maps a label to its promotion. An empty label is the default selection, Free Shipping.
func ParsePromotion(label string) (Promotion, error) {
	if label == "" {
		return FreeShipping, nil
	}
	for _, p := range promotions {
		if p.label == label {
			return p, nil
		}
	}
	return Promotion{}, fmt.Errorf("%w: %q", ErrUnknownPromotion, label)
}

func (p Promotion) Label() string {
	return p.label
}

func (p Promotion) String() string {
	return p.label
}

// Discount is subtotal*rate when subtotal is strictly above the threshold. It is not rounded:
// rounding happens once, on the total.
func (p Promotion) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if p.rate.IsZero() || !subtotal.GreaterThan(p.threshold) {
		return decimal.Zero
	}
	return subtotal.Mul(p.rate)
}

func (p Promotion) MarshalText() ([]byte, error) {
	return []byte(p.label), nil
}
