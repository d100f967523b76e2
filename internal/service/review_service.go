package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
	"github.com/google/uuid"
)

type ReviewInput struct {
	Rating  int
	Comment string
}

// FoodReviews is the review list of one food plus its average rating.
type FoodReviews struct {
	FoodID  string           `json:"food_id"`
	Average float64          `json:"average_rating"`
	Count   int              `json:"count"`
	Reviews []*domain.Review `json:"reviews"`
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	foods    foodLookup
	profiles repository.ProfileRepository
	log      *slog.Logger
}

func NewReviewService(reviews repository.ReviewRepository, foods foodLookup, profiles repository.ProfileRepository, log *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, foods: foods, profiles: profiles, log: log}
}

func (s *ReviewService) AddReview(ctx context.Context, userID, foodID string, in ReviewInput) (*domain.Review, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.NewValidationError("rating", "must be between 1 and 5")
	}
	if err := requireField("comment", in.Comment); err != nil {
		return nil, err
	}
	if _, err := s.foods.GetFood(ctx, foodID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.NewString(),
		FoodID:    foodID,
		UserID:    userID,
		UserName:  s.displayName(ctx, userID),
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, domain.Persistence("create review", err)
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, foodID string) (*FoodReviews, error) {
	reviews, err := s.reviews.ListReviewsByFood(ctx, foodID)
	if err != nil {
		return nil, domain.Persistence("list reviews", err)
	}
	avg, count, err := s.reviews.AverageRating(ctx, foodID)
	if err != nil {
		return nil, domain.Persistence("average rating", err)
	}
	return &FoodReviews{FoodID: foodID, Average: avg, Count: count, Reviews: reviews}, nil
}

// displayName falls back to an empty name rather than failing the review.
func (s *ReviewService) displayName(ctx context.Context, userID string) string {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			s.log.WarnContext(ctx, "profile lookup failed", slog.Any("error", err))
		}
		return ""
	}
	return profile.Name
}
