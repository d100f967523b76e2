package domain

type ShippingAddress struct {
	FullName string `json:"full_name" bson:"full_name"`
	Phone    string `json:"phone" bson:"phone"`
	Address  string `json:"address" bson:"address"`
}

type UserProfile struct {
	UserID    string `json:"user_id" bson:"-"`
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
	AvatarURL string `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
}
