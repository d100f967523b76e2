package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, req service.AddItemRequest) error
	UpdateQuantity(ctx context.Context, userID, foodID string, quantity int) error
	RemoveItem(ctx context.Context, userID, foodID string) error
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts CartService
	log   *slog.Logger
}

func NewCartHandler(carts CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

type AddItemRequestDTO struct {
	FoodID       string `json:"food_id"`
	Quantity     int    `json:"quantity"`
	Portion      string `json:"portion,omitempty"`
	Drink        string `json:"drink,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.respondCart(w, r, userID, http.StatusOK)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.carts.AddItem(r.Context(), userID, service.AddItemRequest{
		FoodID:       req.FoodID,
		Quantity:     req.Quantity,
		Portion:      req.Portion,
		Drink:        req.Drink,
		Instructions: req.Instructions,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	h.respondCart(w, r, userID, http.StatusCreated)
}

// PUT /api/v1/cart/items/{food_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), userID, chi.URLParam(r, "food_id"), req.Quantity); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	h.respondCart(w, r, userID, http.StatusOK)
}

// DELETE /api/v1/cart/items/{food_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), userID, chi.URLParam(r, "food_id")); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	h.respondCart(w, r, userID, http.StatusOK)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.carts.ClearCart(r.Context(), userID); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, &domain.Cart{UserID: userID, Items: []domain.CartLine{}})
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, userID string, status int) {
	cart, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	// Must be a JSON array, not null
	if cart.Items == nil {
		cart.Items = []domain.CartLine{}
	}
	respondJSON(w, status, cart)
}
