package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	ListFoods(ctx context.Context, category string) ([]*domain.Food, error)
	GetFood(ctx context.Context, id string) (*domain.Food, error)
	CreateFood(ctx context.Context, in service.FoodInput) (*domain.Food, error)
	UpdateFood(ctx context.Context, id string, in service.FoodInput) (*domain.Food, error)
	DeleteFood(ctx context.Context, id string) error
}

type ReviewService interface {
	AddReview(ctx context.Context, userID, foodID string, in service.ReviewInput) (*domain.Review, error)
	ListReviews(ctx context.Context, foodID string) (*service.FoodReviews, error)
}

type CatalogHandler struct {
	foods   CatalogService
	reviews ReviewService
	log     *slog.Logger
}

func NewCatalogHandler(foods CatalogService, reviews ReviewService, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{foods: foods, reviews: reviews, log: log}
}

// FoodRequestDTO carries the price as text, the way the admin form submits it.
type FoodRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (d FoodRequestDTO) input() service.FoodInput {
	return service.FoodInput{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		Category:    d.Category,
	}
}

type ReviewRequestDTO struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// GET /api/v1/foods?category=...
func (h *CatalogHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foods.ListFoods(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(foods))
}

// GET /api/v1/foods/{food_id}
func (h *CatalogHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	food, err := h.foods.GetFood(r.Context(), chi.URLParam(r, "food_id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, food)
}

// POST /api/v1/admin/foods
func (h *CatalogHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	var req FoodRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	food, err := h.foods.CreateFood(r.Context(), req.input())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, food)
}

// PUT /api/v1/admin/foods/{food_id}
func (h *CatalogHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	var req FoodRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	food, err := h.foods.UpdateFood(r.Context(), chi.URLParam(r, "food_id"), req.input())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, food)
}

// DELETE /api/v1/admin/foods/{food_id}
func (h *CatalogHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	if err := h.foods.DeleteFood(r.Context(), chi.URLParam(r, "food_id")); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/foods/{food_id}/reviews
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListReviews(r.Context(), chi.URLParam(r, "food_id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	reviews.Reviews = nonNil(reviews.Reviews)
	respondJSON(w, http.StatusOK, reviews)
}

// POST /api/v1/foods/{food_id}/reviews
func (h *CatalogHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ReviewRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.reviews.AddReview(r.Context(), userID, chi.URLParam(r, "food_id"), service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}
