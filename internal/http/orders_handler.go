package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fjod/go_food/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	defaultAdminOrderLimit = 100
	maxAdminOrderLimit     = 500
)

type OrderService interface {
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListAllOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	Accept(ctx context.Context, orderID string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID string) (*domain.Order, error)
}

type OrdersHandler struct {
	orders OrderService
	log    *slog.Logger
}

func NewOrdersHandler(orders OrderService, log *slog.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, log: log}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(orders))
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), userID, chi.URLParam(r, "order_id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// GET /api/v1/admin/orders?limit=N
func (h *OrdersHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	limit := defaultAdminOrderLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAdminOrderLimit {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	orders, err := h.orders.ListAllOrders(r.Context(), limit)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(orders))
}

// POST /api/v1/admin/orders/{order_id}/accept
func (h *OrdersHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Accept)
}

// POST /api/v1/admin/orders/{order_id}/cancel
func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Cancel)
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) (*domain.Order, error)) {
	order, err := apply(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
