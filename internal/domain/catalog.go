package domain

import "time"

type Food struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Review struct {
	ID        string    `json:"id" bson:"_id"`
	FoodID    string    `json:"food_id" bson:"food_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Favorite struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	FoodID    string    `json:"food_id" bson:"food_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	OrderID   string    `json:"order_id,omitempty" bson:"order_id,omitempty"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
