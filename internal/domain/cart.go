package domain

import "time"

// CartLine is one food entry in a user's cart, with the customization picked on the detail screen.
type CartLine struct {
	FoodID       string  `json:"food_id" bson:"food_id"`
	Name         string  `json:"name" bson:"name"`
	UnitPrice    float64 `json:"unit_price" bson:"unit_price"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	Portion      string  `json:"portion,omitempty" bson:"portion,omitempty"`
	Drink        string  `json:"drink,omitempty" bson:"drink,omitempty"`
	Instructions string  `json:"instructions,omitempty" bson:"instructions,omitempty"`
}

type Cart struct {
	UserID    string     `json:"user_id" bson:"user_id"`
	Items     []CartLine `json:"items" bson:"items"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	// Revision is bumped by every stored write to the cart.
	Revision int64 `json:"-" bson:"revision"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
