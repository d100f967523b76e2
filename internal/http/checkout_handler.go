package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/pricing"
	"github.com/fjod/go_food/internal/service"
	"github.com/go-chi/chi/v5"
)

type CheckoutService interface {
	Quote(ctx context.Context, userID, promotion string) (domain.PriceBreakdown, error)
	PlaceOrder(ctx context.Context, userID string, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error)
	BuyAgain(ctx context.Context, userID, orderID, requestToken string) (*service.PlaceOrderResult, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	log      *slog.Logger
}

func NewCheckoutHandler(checkout CheckoutService, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

type PlaceOrderRequestDTO struct {
	IdempotencyKey     string `json:"idempotency_key"`
	Promotion          string `json:"promotion"`
	PaymentMethod      string `json:"payment_method"`
	DeliveryDate       string `json:"delivery_date"`
	DeliveryTime       string `json:"delivery_time"`
	PaymentRedirectURL string `json:"payment_redirect_url,omitempty"`
}

type BuyAgainRequestDTO struct {
	IdempotencyKey string `json:"idempotency_key"`
}

// GET /api/v1/checkout/promotions
func (h *CheckoutHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, pricing.Promotions())
}

// GET /api/v1/checkout/quote?promotion=...
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	breakdown, err := h.checkout.Quote(r.Context(), userID, r.URL.Query().Get("promotion"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, breakdown)
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req PlaceOrderRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.checkout.PlaceOrder(r.Context(), userID, service.PlaceOrderRequest{
		RequestToken:       req.IdempotencyKey,
		Promotion:          req.Promotion,
		PaymentMethod:      req.PaymentMethod,
		DeliveryDate:       req.DeliveryDate,
		DeliveryTime:       req.DeliveryTime,
		PaymentRedirectURL: req.PaymentRedirectURL,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondPlaced(w, result)
}

// POST /api/v1/orders/{order_id}/buy-again
func (h *CheckoutHandler) BuyAgain(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req BuyAgainRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.checkout.BuyAgain(r.Context(), userID, chi.URLParam(r, "order_id"), req.IdempotencyKey)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondPlaced(w, result)
}

// respondPlaced answers 201 for a new order and 200 when the idempotency key was replayed.
func respondPlaced(w http.ResponseWriter, result *service.PlaceOrderResult) {
	if result.Duplicate {
		w.Header().Set("Idempotent-Replayed", "true")
		respondJSON(w, http.StatusOK, result.Order)
		return
	}
	respondJSON(w, http.StatusCreated, result.Order)
}
