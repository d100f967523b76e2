package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/logger"
	"github.com/fjod/go_food/internal/service"
)

func placedOrder() *domain.Order {
	return &domain.Order{
		ID:            "order-uuid-1",
		UserID:        "user-1",
		Subtotal:      12,
		Discount:      1.2,
		Taxes:         2,
		ShippingFee:   2,
		Total:         14.8,
		Promotion:     "10% off for orders above 10$",
		PaymentMethod: domain.PaymentCashOnDelivery,
		Status:        domain.OrderStatusPreparing,
	}
}

func placeOrderBody() *bytes.Reader {
	body, _ := json.Marshal(PlaceOrderRequestDTO{
		IdempotencyKey: "key-1",
		Promotion:      "10% off for orders above 10$",
		PaymentMethod:  "Cash on Delivery",
		DeliveryDate:   "2026-10-17",
		DeliveryTime:   "12:30",
	})
	return bytes.NewReader(body)
}

func TestPlaceOrder_Created(t *testing.T) {
	mock := &CheckoutServiceMock{result: &service.PlaceOrderResult{Order: placedOrder()}}
	handler := NewCheckoutHandler(mock, logger.Discard())
	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/api/v1/checkout", placeOrderBody()))

	handler.PlaceOrder(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, recorder.Code)
	}
	if mock.lastRequest.RequestToken != "key-1" || mock.lastRequest.DeliveryTime != "12:30" {
		t.Errorf("unexpected request forwarded: %+v", mock.lastRequest)
	}

	var order domain.Order
	if err := json.NewDecoder(recorder.Body).Decode(&order); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if order.ID != "order-uuid-1" || order.Total != 14.8 {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestPlaceOrder_ReplayedKey(t *testing.T) {
	mock := &CheckoutServiceMock{result: &service.PlaceOrderResult{Order: placedOrder(), Duplicate: true}}
	handler := NewCheckoutHandler(mock, logger.Discard())
	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/api/v1/checkout", placeOrderBody()))

	handler.PlaceOrder(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	if recorder.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("expected Idempotent-Replayed header")
	}
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		field    string
	}{
		{"empty cart", service.ErrEmptyCart, http.StatusUnprocessableEntity, ""},
		{"no address", domain.NewValidationError("shipping_address", "no default shipping address"), http.StatusBadRequest, "shipping_address"},
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCheckoutHandler(&CheckoutServiceMock{err: tt.err}, logger.Discard())
			recorder := httptest.NewRecorder()
			request := withUser(httptest.NewRequest("POST", "/api/v1/checkout", placeOrderBody()))

			handler.PlaceOrder(recorder, request)

			if recorder.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, recorder.Code)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, resp.Field)
			}
		})
	}
}

func TestQuote_ForwardsPromotion(t *testing.T) {
	mock := &CheckoutServiceMock{breakdown: domain.PriceBreakdown{Subtotal: 12, Tax: 2, Total: 14}}
	handler := NewCheckoutHandler(mock, logger.Discard())
	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("GET", "/api/v1/checkout/quote?promotion=Free+Shipping", nil))

	handler.Quote(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.lastPromotion != "Free Shipping" {
		t.Errorf("expected promotion 'Free Shipping', got %q", mock.lastPromotion)
	}
	var breakdown domain.PriceBreakdown
	if err := json.NewDecoder(recorder.Body).Decode(&breakdown); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if breakdown.Total != 14 {
		t.Errorf("expected total 14, got %v", breakdown.Total)
	}
}

func TestListPromotions(t *testing.T) {
	handler := NewCheckoutHandler(&CheckoutServiceMock{}, logger.Discard())
	recorder := httptest.NewRecorder()

	handler.ListPromotions(recorder, httptest.NewRequest("GET", "/api/v1/checkout/promotions", nil))

	var labels []string
	if err := json.NewDecoder(recorder.Body).Decode(&labels); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(labels) != 4 || labels[0] != "Free Shipping" {
		t.Errorf("unexpected promotions: %v", labels)
	}
}

func TestBuyAgain(t *testing.T) {
	mock := &CheckoutServiceMock{result: &service.PlaceOrderResult{Order: placedOrder()}}
	handler := NewCheckoutHandler(mock, logger.Discard())
	body, _ := json.Marshal(BuyAgainRequestDTO{IdempotencyKey: "again-1"})
	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/api/v1/orders/old/buy-again", bytes.NewReader(body)))
	request = withURLParam(request, "order_id", "old")

	handler.BuyAgain(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, recorder.Code)
	}
	if mock.lastOrderID != "old" || mock.lastToken != "again-1" {
		t.Errorf("unexpected forwarding: order=%q token=%q", mock.lastOrderID, mock.lastToken)
	}
}
