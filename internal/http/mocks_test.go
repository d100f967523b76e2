package http

import (
	"context"
	"net/http"

	"github.com/fjod/go_food/internal/auth"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/service"
	"github.com/go-chi/chi/v5"
)

// --- Mocks ---

type CartServiceMock struct {
	cart    *domain.Cart
	err     error
	added   []service.AddItemRequest
	updated map[string]int
	removed []string
	cleared bool
}

func (m *CartServiceMock) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return &domain.Cart{UserID: userID}, nil
	}
	return m.cart, nil
}

func (m *CartServiceMock) AddItem(_ context.Context, _ string, req service.AddItemRequest) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, req)
	return nil
}

func (m *CartServiceMock) UpdateQuantity(_ context.Context, _ string, foodID string, quantity int) error {
	if m.err != nil {
		return m.err
	}
	if m.updated == nil {
		m.updated = map[string]int{}
	}
	m.updated[foodID] = quantity
	return nil
}

func (m *CartServiceMock) RemoveItem(_ context.Context, _ string, foodID string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, foodID)
	return nil
}

func (m *CartServiceMock) ClearCart(context.Context, string) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

type CheckoutServiceMock struct {
	breakdown domain.PriceBreakdown
	result    *service.PlaceOrderResult
	err       error

	lastRequest   service.PlaceOrderRequest
	lastPromotion string
	lastOrderID   string
	lastToken     string
}

func (m *CheckoutServiceMock) Quote(_ context.Context, _ string, promotion string) (domain.PriceBreakdown, error) {
	m.lastPromotion = promotion
	return m.breakdown, m.err
}

func (m *CheckoutServiceMock) PlaceOrder(_ context.Context, _ string, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *CheckoutServiceMock) BuyAgain(_ context.Context, _ string, orderID, token string) (*service.PlaceOrderResult, error) {
	m.lastOrderID = orderID
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type OrderServiceMock struct {
	order     *domain.Order
	orders    []*domain.Order
	err       error
	lastLimit int
}

func (m *OrderServiceMock) ListOrders(context.Context, string) ([]*domain.Order, error) {
	return m.orders, m.err
}

func (m *OrderServiceMock) GetOrder(context.Context, string, string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *OrderServiceMock) ListAllOrders(_ context.Context, limit int) ([]*domain.Order, error) {
	m.lastLimit = limit
	return m.orders, m.err
}

func (m *OrderServiceMock) Accept(context.Context, string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o := *m.order
	o.Status = domain.OrderStatusDelivered
	return &o, nil
}

func (m *OrderServiceMock) Cancel(context.Context, string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o := *m.order
	o.Status = domain.OrderStatusCancelled
	return &o, nil
}

type CatalogServiceMock struct {
	foods   []*domain.Food
	err     error
	created service.FoodInput
}

func (m *CatalogServiceMock) ListFoods(context.Context, string) ([]*domain.Food, error) {
	return m.foods, m.err
}

func (m *CatalogServiceMock) GetFood(_ context.Context, id string) (*domain.Food, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.foods {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *CatalogServiceMock) CreateFood(_ context.Context, in service.FoodInput) (*domain.Food, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = in
	return &domain.Food{ID: "new-food", Name: in.Name}, nil
}

func (m *CatalogServiceMock) UpdateFood(_ context.Context, id string, in service.FoodInput) (*domain.Food, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Food{ID: id, Name: in.Name}, nil
}

func (m *CatalogServiceMock) DeleteFood(context.Context, string) error {
	return m.err
}

type ReviewServiceMock struct {
	reviews *service.FoodReviews
	err     error
}

func (m *ReviewServiceMock) AddReview(_ context.Context, userID, foodID string, in service.ReviewInput) (*domain.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Review{ID: "r1", FoodID: foodID, UserID: userID, Rating: in.Rating, Comment: in.Comment}, nil
}

func (m *ReviewServiceMock) ListReviews(_ context.Context, foodID string) (*service.FoodReviews, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.reviews == nil {
		return &service.FoodReviews{FoodID: foodID}, nil
	}
	return m.reviews, nil
}

type FavoriteServiceMock struct {
	favs []*domain.Favorite
	err  error
}

func (m *FavoriteServiceMock) Add(context.Context, string, string) error    { return m.err }
func (m *FavoriteServiceMock) Remove(context.Context, string, string) error { return m.err }
func (m *FavoriteServiceMock) List(context.Context, string) ([]*domain.Favorite, error) {
	return m.favs, m.err
}

type ProfileServiceMock struct {
	profile *domain.UserProfile
	address *domain.ShippingAddress
	err     error
}

func (m *ProfileServiceMock) GetProfile(_ context.Context, userID string) (*domain.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.profile == nil {
		return &domain.UserProfile{UserID: userID}, nil
	}
	return m.profile, nil
}

func (m *ProfileServiceMock) UpdateProfile(_ context.Context, userID string, p domain.UserProfile) (*domain.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p.UserID = userID
	return &p, nil
}

func (m *ProfileServiceMock) GetShippingAddress(context.Context, string) (*domain.ShippingAddress, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.address == nil {
		return nil, domain.ErrNotFound
	}
	return m.address, nil
}

func (m *ProfileServiceMock) SaveShippingAddress(_ context.Context, _ string, addr domain.ShippingAddress) (*domain.ShippingAddress, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &addr, nil
}

type NotificationServiceMock struct {
	items []*domain.Notification
	err   error
}

func (m *NotificationServiceMock) List(context.Context, string) ([]*domain.Notification, error) {
	return m.items, m.err
}

func (m *NotificationServiceMock) MarkRead(context.Context, string, string) error {
	return m.err
}

// --- helpers ---

func withUser(r *http.Request) *http.Request {
	return r.WithContext(WithIdentity(r.Context(), auth.Identity{UserID: "user-1"}))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
