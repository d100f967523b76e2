package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_food/internal/domain"
)

// CartCache entries are versioned per user. Delete bumps the version, and SetIfVersion
// only stores a cart when the version read before loading it is still current, so a
// fill racing an invalidation is dropped instead of resurrecting the old cart.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Version(ctx context.Context, userID string) (int64, error)
	SetIfVersion(ctx context.Context, userID string, cart *domain.Cart, version int64) error
	Delete(ctx context.Context, userID string) error
}

// FoodCache keeps catalog entries that every AddItem call resolves.
type FoodCache interface {
	GetFood(ctx context.Context, foodID string) (*domain.Food, error)
	SetFood(ctx context.Context, food *domain.Food) error
	DeleteFood(ctx context.Context, foodID string) error
}

var (
	ErrCacheMiss = errors.New("cache miss")
	// ErrStaleFill is returned by SetIfVersion when the cart was invalidated during the fill.
	ErrStaleFill = errors.New("cart invalidated during cache fill")
)
