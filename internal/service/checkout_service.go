package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/fjod/go_food/internal/checkout"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/events"
	"github.com/fjod/go_food/internal/metrics"
	"github.com/fjod/go_food/internal/payment"
	"github.com/fjod/go_food/internal/pricing"
	"github.com/fjod/go_food/internal/repository"
	"github.com/google/uuid"
)

// cartStore reads carts from storage, not from the cache.
type cartStore interface {
	LoadCart(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCheckedOut(ctx context.Context, userID string, cart *domain.Cart) error
}

type PlaceOrderRequest struct {
	RequestToken       string
	Promotion          string
	PaymentMethod      string
	DeliveryDate       string
	DeliveryTime       string
	PaymentRedirectURL string
}

type PlaceOrderResult struct {
	Order *domain.Order
	// Duplicate is set when the request token had already produced this order.
	Duplicate bool
}

type CheckoutService struct {
	carts    cartStore
	orders   repository.OrderRepository
	profiles repository.ProfileRepository
	metrics  *metrics.ServerMetrics
	log      *slog.Logger
	now      func() time.Time
}

func NewCheckoutService(
	carts cartStore,
	orders repository.OrderRepository,
	profiles repository.ProfileRepository,
	m *metrics.ServerMetrics,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		profiles: profiles,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Quote prices the current cart under the given promotion without placing anything.
func (s *CheckoutService) Quote(ctx context.Context, userID, promotion string) (domain.PriceBreakdown, error) {
	if userID == "" {
		return domain.PriceBreakdown{}, domain.ErrNotAuthenticated
	}
	promo, err := parsePromotion(promotion)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}
	cart, err := s.carts.LoadCart(ctx, userID)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}
	return pricing.Quote(cart.Items, promo), nil
}

// PlaceOrder turns the user's cart into an order.
//
// A request token that already produced an order returns that order with Duplicate set
// and changes nothing. The order.placed event is stored with the order and relayed later.
// The cart is read from storage and only cleared after the order is stored, and only if
// it was not edited in between. A cart left in place is logged and does not fail the call.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	method, promo, err := validatePlaceOrder(req)
	if err != nil {
		return nil, err
	}

	if existing, err := s.findExisting(ctx, userID, req.RequestToken); err != nil || existing != nil {
		return existing, err
	}

	cart, err := s.carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	addr, err := s.defaultAddress(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := checkout.NewSession(cart.Items)
	session.SetPromotion(promo)
	session.SetShippingAddress(*addr)
	session.SetPaymentMethod(method)
	session.SetDeliverySlot(req.DeliveryDate, req.DeliveryTime)

	order := s.newOrder(userID, req.RequestToken, session.Snapshot())
	result, err := s.store(ctx, order)
	if err != nil || result.Duplicate {
		return result, err
	}

	errClear := s.carts.ClearCheckedOut(ctx, userID, cart)
	switch {
	case errors.Is(errClear, repository.ErrCartChanged):
		s.log.WarnContext(ctx, "cart edited while ordering, left in place",
			slog.String("order_id", order.ID))
	case errClear != nil:
		s.log.ErrorContext(ctx, "failed to clear cart after order",
			slog.String("order_id", order.ID), slog.Any("error", errClear))
	}
	s.afterPlaced(ctx, order)
	return result, nil
}

// BuyAgain places a new order with the items, address, promotion, payment method and
// delivery slot of an earlier order. Prices are recomputed; the earlier order is untouched.
func (s *CheckoutService) BuyAgain(ctx context.Context, userID, orderID, requestToken string) (*PlaceOrderResult, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if err := requireField("idempotency_key", requestToken); err != nil {
		return nil, err
	}

	if existing, err := s.findExisting(ctx, userID, requestToken); err != nil || existing != nil {
		return existing, err
	}

	previous, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		return nil, domain.Persistence("load order", err)
	}
	if previous.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	if len(previous.Items) == 0 {
		return nil, ErrEmptyCart
	}

	promo, err := pricing.ParsePromotion(previous.Promotion)
	if err != nil {
		// promotions retired since then price as the default
		promo = pricing.FreeShipping
	}

	session := checkout.NewSession(previous.Items)
	session.SetPromotion(promo)
	session.SetShippingAddress(previous.ShippingAddress)
	session.SetPaymentMethod(previous.PaymentMethod)
	session.SetDeliverySlot(previous.DeliveryDate, previous.DeliveryTime)

	order := s.newOrder(userID, requestToken, session.Snapshot())
	result, err := s.store(ctx, order)
	if err != nil || result.Duplicate {
		return result, err
	}
	s.afterPlaced(ctx, order)
	return result, nil
}

func (s *CheckoutService) findExisting(ctx context.Context, userID, token string) (*PlaceOrderResult, error) {
	existing, err := s.orders.GetOrderByRequestToken(ctx, userID, token)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Persistence("check request token", err)
	}

	s.log.InfoContext(ctx, "duplicate checkout request",
		slog.String("order_id", existing.ID), slog.String("status", existing.Status.String()))
	s.countOrder(existing, true)
	return &PlaceOrderResult{Order: existing, Duplicate: true}, nil
}

func (s *CheckoutService) defaultAddress(ctx context.Context, userID string) (*domain.ShippingAddress, error) {
	addr, err := s.profiles.GetShippingAddress(ctx, userID)
	if errors.Is(err, repository.ErrAddressNotFound) {
		return nil, domain.NewValidationError("shipping_address", "no default shipping address saved")
	}
	if err != nil {
		return nil, domain.Persistence("load shipping address", err)
	}
	if err := validateShippingAddress(*addr); err != nil {
		return nil, domain.NewValidationError("shipping_address", err.Error())
	}
	return addr, nil
}

// store persists the order together with its order.placed outbox event.
// Losing a race on the request token yields the winner's order.
func (s *CheckoutService) store(ctx context.Context, order *domain.Order) (*PlaceOrderResult, error) {
	outbox, err := events.NewOrderPlaced(order).Outbox()
	if err != nil {
		return nil, err
	}

	err = s.orders.CreateOrder(ctx, order, outbox)
	if errors.Is(err, repository.ErrDuplicateOrder) {
		existing, errGet := s.orders.GetOrderByRequestToken(ctx, order.UserID, order.RequestToken)
		if errGet != nil {
			return nil, domain.Persistence("load concurrent order", errGet)
		}
		s.countOrder(existing, true)
		return &PlaceOrderResult{Order: existing, Duplicate: true}, nil
	}
	if err != nil {
		return nil, domain.Persistence("store order", err)
	}
	return &PlaceOrderResult{Order: order}, nil
}

func (s *CheckoutService) afterPlaced(ctx context.Context, order *domain.Order) {
	s.log.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Float64("total", order.Total),
		slog.String("promotion", order.Promotion))
	s.countOrder(order, false)
	if s.metrics != nil {
		s.metrics.OrderTotal.Observe(order.Total)
	}
}

func (s *CheckoutService) countOrder(o *domain.Order, duplicate bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.OrdersPlaced.WithLabelValues(string(o.PaymentMethod), strconv.FormatBool(duplicate)).Inc()
}

func (s *CheckoutService) newOrder(userID, token string, snap checkout.Snapshot) *domain.Order {
	now := s.now().UTC()
	return &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		RequestToken:    token,
		Items:           snap.Lines,
		Subtotal:        snap.Breakdown.Subtotal,
		ShippingFee:     snap.Breakdown.ShippingFee,
		Taxes:           snap.Breakdown.Tax,
		Discount:        snap.Breakdown.Discount,
		Total:           snap.Breakdown.Total,
		ShippingAddress: snap.ShippingAddress,
		DeliveryDate:    snap.DeliveryDate,
		DeliveryTime:    snap.DeliveryTime,
		Promotion:       snap.Promotion.Label(),
		PaymentMethod:   snap.PaymentMethod,
		Status:          domain.OrderStatusPreparing,
		OrderDate:       now,
		UpdatedAt:       now,
	}
}

func validatePlaceOrder(req PlaceOrderRequest) (domain.PaymentMethod, pricing.Promotion, error) {
	if err := firstError(
		requireField("idempotency_key", req.RequestToken),
		requireField("payment_method", req.PaymentMethod),
		requireField("delivery_date", req.DeliveryDate),
		requireField("delivery_time", req.DeliveryTime),
	); err != nil {
		return "", pricing.Promotion{}, err
	}

	method, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return "", pricing.Promotion{}, domain.NewValidationError("payment_method", "unsupported payment method")
	}
	promo, err := parsePromotion(req.Promotion)
	if err != nil {
		return "", pricing.Promotion{}, err
	}
	if method.IsOnline() && !payment.Succeeded(req.PaymentRedirectURL) {
		return "", pricing.Promotion{}, domain.NewValidationError("payment_redirect_url", "payment was not completed")
	}
	return method, promo, nil
}

func parsePromotion(label string) (pricing.Promotion, error) {
	promo, err := pricing.ParsePromotion(label)
	if err != nil {
		return pricing.Promotion{}, domain.NewValidationError("promotion", "unknown promotion")
	}
	return promo, nil
}
