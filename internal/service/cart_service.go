package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
	"golang.org/x/sync/singleflight"
)

const maxLineQuantity = 99

type foodLookup interface {
	GetFood(ctx context.Context, id string) (*domain.Food, error)
}

type AddItemRequest struct {
	FoodID       string
	Quantity     int
	Portion      string
	Drink        string
	Instructions string
}

type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	foods foodLookup
	log   *slog.Logger
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, foods foodLookup, log *slog.Logger) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
		foods: foods,
		log:   log,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "cache get error", slog.Any("error", err))
		}

		// the version must be read before the cart, so an invalidation after it rejects the fill
		version, errVersion := s.cache.Version(ctx, userID)
		if errVersion != nil {
			s.log.WarnContext(ctx, "cache version error", slog.Any("error", errVersion))
		}

		cart, errLoad := s.LoadCart(ctx, userID)
		if errLoad != nil || errVersion != nil {
			return cart, errLoad
		}

		errSet := s.cache.SetIfVersion(ctx, userID, cart, version)
		switch {
		case errors.Is(errSet, cache.ErrStaleFill):
			s.log.DebugContext(ctx, "cart changed during cache fill", slog.String("user_id", userID))
		case errSet != nil:
			s.log.WarnContext(ctx, "cache set error", slog.Any("error", errSet))
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// LoadCart reads the stored cart, bypassing the cache. A user without a cart gets an empty one.
func (s *CartService) LoadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return &domain.Cart{
			UserID:    userID,
			Items:     []domain.CartLine{},
			UpdatedAt: time.Now(),
		}, nil
	}
	if err != nil {
		return nil, domain.Persistence("load cart", err)
	}
	return cart, nil
}

// AddItem puts a food into the cart with the name and price the catalog has now.
// Adding a food that is already in the cart replaces that line.
func (s *CartService) AddItem(ctx context.Context, userID string, req AddItemRequest) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if err := firstError(requireField("food_id", req.FoodID), validateQuantity(req.Quantity)); err != nil {
		return err
	}

	food, err := s.foods.GetFood(ctx, req.FoodID)
	if err != nil {
		return err
	}

	line := domain.CartLine{
		FoodID:       food.ID,
		Name:         food.Name,
		UnitPrice:    food.Price,
		Quantity:     req.Quantity,
		Portion:      req.Portion,
		Drink:        req.Drink,
		Instructions: req.Instructions,
	}
	if errAdd := s.repo.UpsertLine(ctx, userID, line); errAdd != nil {
		return domain.Persistence("add cart item", errAdd)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, foodID string, quantity int) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	if errUpdate := s.repo.UpdateLineQuantity(ctx, userID, foodID, quantity); errUpdate != nil {
		if errors.Is(errUpdate, repository.ErrItemNotFound) {
			return errUpdate
		}
		return domain.Persistence("update cart item", errUpdate)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, foodID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	if errRemove := s.repo.RemoveLine(ctx, userID, foodID); errRemove != nil {
		if errors.Is(errRemove, repository.ErrItemNotFound) {
			return errRemove
		}
		return domain.Persistence("remove cart item", errRemove)
	}

	s.invalidateCache(userID)
	return nil
}

// ClearCart empties the cart. Clearing a cart that does not exist is not an error.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		return domain.Persistence("clear cart", errDelete)
	}

	s.invalidateCache(userID)
	return nil
}

// ClearCheckedOut deletes the cart an order was built from. A cart edited since it was
// loaded (a newer revision) is left in place and repository.ErrCartChanged is returned.
func (s *CartService) ClearCheckedOut(ctx context.Context, userID string, cart *domain.Cart) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	errDelete := s.repo.DeleteCartAtRevision(ctx, userID, cart.Revision)
	if errors.Is(errDelete, repository.ErrCartChanged) {
		return errDelete
	}
	if errDelete != nil {
		return domain.Persistence("clear cart", errDelete)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if errInvalidate := s.cache.Delete(ctx, userID); errInvalidate != nil {
		s.log.Warn("cache invalidate error", slog.String("user_id", userID), slog.Any("error", errInvalidate))
	}
}

func validateQuantity(q int) error {
	if q < 1 || q > maxLineQuantity {
		return domain.NewValidationError("quantity", "must be between 1 and 99")
	}
	return nil
}
