package service

import (
	"context"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
)

type FavoriteService struct {
	repo  repository.FavoriteRepository
	foods foodLookup
}

func NewFavoriteService(repo repository.FavoriteRepository, foods foodLookup) *FavoriteService {
	return &FavoriteService{repo: repo, foods: foods}
}

func (s *FavoriteService) Add(ctx context.Context, userID, foodID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if _, err := s.foods.GetFood(ctx, foodID); err != nil {
		return err
	}
	return domain.Persistence("add favorite", s.repo.AddFavorite(ctx, userID, foodID))
}

func (s *FavoriteService) Remove(ctx context.Context, userID, foodID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	return domain.Persistence("remove favorite", s.repo.RemoveFavorite(ctx, userID, foodID))
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	favs, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, domain.Persistence("list favorites", err)
	}
	return favs, nil
}
