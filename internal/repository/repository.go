package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_food/internal/domain"
)

var (
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartChanged          = errors.New("cart changed")
	ErrItemNotFound         = fmt.Errorf("cart item %w", domain.ErrNotFound)
	ErrOrderNotFound        = fmt.Errorf("order %w", domain.ErrNotFound)
	ErrFoodNotFound         = fmt.Errorf("food %w", domain.ErrNotFound)
	ErrProfileNotFound      = fmt.Errorf("profile %w", domain.ErrNotFound)
	ErrAddressNotFound      = fmt.Errorf("shipping address %w", domain.ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", domain.ErrNotFound)
	ErrDuplicateOrder       = errors.New("order for this request token already exists")
	ErrStatusConflict       = errors.New("order status was changed concurrently")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// CartRepository stores one cart document per user.
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertLine(ctx context.Context, userID string, line domain.CartLine) error
	UpdateLineQuantity(ctx context.Context, userID, foodID string, quantity int) error
	RemoveLine(ctx context.Context, userID, foodID string) error
	DeleteCart(ctx context.Context, userID string) error
	// DeleteCartAtRevision deletes the cart only while it is still at revision.
	DeleteCartAtRevision(ctx context.Context, userID string, revision int64) error
}

// OrderRepository writes the optional outbox event in the same transaction as the order change.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order, event *OutboxEvent) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetOrderByRequestToken(ctx context.Context, userID, token string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	ListOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	// UpdateStatus moves the order to `to` only if it is still in `from`.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, event *OutboxEvent) (*domain.Order, error)
}

// OutboxEvent is an order event waiting to be relayed to the broker.
type OutboxEvent struct {
	ID          int
	AggregateID string
	EventType   string
	Payload     json.RawMessage
	CreatedAt   time.Time
}

type OutboxRepository interface {
	// GetUnprocessedEvents returns pending events oldest first.
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int) error
}

type FoodRepository interface {
	ListFoods(ctx context.Context, category string) ([]*domain.Food, error)
	GetFood(ctx context.Context, id string) (*domain.Food, error)
	CreateFood(ctx context.Context, food *domain.Food) error
	UpdateFood(ctx context.Context, food *domain.Food) error
	DeleteFood(ctx context.Context, id string) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	ListReviewsByFood(ctx context.Context, foodID string) ([]*domain.Review, error)
	AverageRating(ctx context.Context, foodID string) (avg float64, count int, err error)
}

type FavoriteRepository interface {
	AddFavorite(ctx context.Context, userID, foodID string) error
	RemoveFavorite(ctx context.Context, userID, foodID string) error
	ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, profile *domain.UserProfile) error
	GetShippingAddress(ctx context.Context, userID string) (*domain.ShippingAddress, error)
	SaveShippingAddress(ctx context.Context, userID string, addr domain.ShippingAddress) error
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}
