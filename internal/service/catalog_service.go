package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FoodInput is what the admin form submits. Price arrives as typed text.
type FoodInput struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
	Category    string
}

type CatalogService struct {
	repo  repository.FoodRepository
	cache cache.FoodCache
	log   *slog.Logger
}

func NewCatalogService(repo repository.FoodRepository, cache cache.FoodCache, log *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func (s *CatalogService) ListFoods(ctx context.Context, category string) ([]*domain.Food, error) {
	foods, err := s.repo.ListFoods(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, domain.Persistence("list foods", err)
	}
	return foods, nil
}

func (s *CatalogService) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	food, err := s.cache.GetFood(ctx, id)
	if err == nil {
		return food, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.WarnContext(ctx, "food cache get error", slog.Any("error", err))
	}

	food, err = s.repo.GetFood(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, err
		}
		return nil, domain.Persistence("get food", err)
	}

	if errSet := s.cache.SetFood(ctx, food); errSet != nil {
		s.log.WarnContext(ctx, "food cache set error", slog.Any("error", errSet))
	}
	return food, nil
}

func (s *CatalogService) CreateFood(ctx context.Context, in FoodInput) (*domain.Food, error) {
	price, err := validateFoodInput(in)
	if err != nil {
		return nil, err
	}

	food := &domain.Food{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       price,
		ImageURL:    in.ImageURL,
		Category:    strings.TrimSpace(in.Category),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateFood(ctx, food); err != nil {
		return nil, domain.Persistence("create food", err)
	}
	return food, nil
}

// UpdateFood changes the catalog entry only. Carts and orders keep the price they were built with.
func (s *CatalogService) UpdateFood(ctx context.Context, id string, in FoodInput) (*domain.Food, error) {
	price, err := validateFoodInput(in)
	if err != nil {
		return nil, err
	}

	food := &domain.Food{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       price,
		ImageURL:    in.ImageURL,
		Category:    strings.TrimSpace(in.Category),
	}
	if err := s.repo.UpdateFood(ctx, food); err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, err
		}
		return nil, domain.Persistence("update food", err)
	}

	s.evict(ctx, id)
	return s.GetFood(ctx, id)
}

func (s *CatalogService) DeleteFood(ctx context.Context, id string) error {
	if err := s.repo.DeleteFood(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return err
		}
		return domain.Persistence("delete food", err)
	}
	s.evict(ctx, id)
	return nil
}

func (s *CatalogService) evict(ctx context.Context, id string) {
	if err := s.cache.DeleteFood(ctx, id); err != nil {
		s.log.WarnContext(ctx, "food cache delete error", slog.String("food_id", id), slog.Any("error", err))
	}
}

func validateFoodInput(in FoodInput) (float64, error) {
	if err := requireField("name", in.Name); err != nil {
		return 0, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return 0, domain.NewValidationError("price", "unparsable price")
	}
	if price.IsNegative() {
		return 0, domain.NewValidationError("price", "must not be negative")
	}
	return price.Round(2).InexactFloat64(), nil
}
