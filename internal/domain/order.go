package domain

import "time"

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentMoMo           PaymentMethod = "MoMo"
)

// IsOnline reports whether the method goes through the external payment redirect.
func (p PaymentMethod) IsOnline() bool {
	return p == PaymentMoMo
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentCashOnDelivery, PaymentMoMo:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}

// PriceBreakdown is derived from the cart and the selected promotion. Never stored on its own.
type PriceBreakdown struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	Tax         float64 `json:"tax"`
	ShippingFee float64 `json:"shipping_fee"`
	Total       float64 `json:"total"`
}

// Order is an immutable snapshot of a completed checkout. Only Status and UpdatedAt change afterwards.
type Order struct {
	ID              string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	RequestToken    string          `json:"-"`
	Items           []CartLine      `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	ShippingFee     float64         `json:"shipping_fee"`
	Taxes           float64         `json:"taxes"`
	Discount        float64         `json:"discount"`
	Total           float64         `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	DeliveryDate    string          `json:"delivery_date"`
	DeliveryTime    string          `json:"delivery_time"`
	Promotion       string          `json:"promo"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Status          OrderStatus     `json:"status"`
	OrderDate       time.Time       `json:"order_date"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) Breakdown() PriceBreakdown {
	return PriceBreakdown{
		Subtotal:    o.Subtotal,
		Discount:    o.Discount,
		Tax:         o.Taxes,
		ShippingFee: o.ShippingFee,
		Total:       o.Total,
	}
}
