package service

import (
	"context"
	"sort"
	"sync"

	"github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
)

type mockCartRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
	// deleteErr fails only DeleteCart
	deleteErr error
	// deletes counts DeleteCart and DeleteCartAtRevision calls
	deletes int
	// afterGet runs once, after the next GetCart has read the cart
	afterGet func()
}

func (m *mockCartRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	cart, err := m.read()

	m.m.Lock()
	hook := m.afterGet
	m.afterGet = nil
	m.m.Unlock()
	if hook != nil {
		hook()
	}
	return cart, err
}

func (m *mockCartRepository) read() (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	cp := *m.cart
	cp.Items = append([]domain.CartLine(nil), m.cart.Items...)
	return &cp, nil
}

func (m *mockCartRepository) UpsertLine(_ context.Context, userID string, line domain.CartLine) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{UserID: userID}
	}
	m.cart.Revision++
	for i := range m.cart.Items {
		if m.cart.Items[i].FoodID == line.FoodID {
			m.cart.Items[i] = line
			return nil
		}
	}
	m.cart.Items = append(m.cart.Items, line)
	return nil
}

func (m *mockCartRepository) UpdateLineQuantity(_ context.Context, _ string, foodID string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart != nil {
		for i := range m.cart.Items {
			if m.cart.Items[i].FoodID == foodID {
				m.cart.Items[i].Quantity = quantity
				m.cart.Revision++
				return nil
			}
		}
	}
	return repository.ErrItemNotFound
}

func (m *mockCartRepository) RemoveLine(_ context.Context, _ string, foodID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart != nil {
		for i, item := range m.cart.Items {
			if item.FoodID == foodID {
				m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
				m.cart.Revision++
				return nil
			}
		}
	}
	return repository.ErrItemNotFound
}

func (m *mockCartRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	if m.err != nil {
		return m.err
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

func (m *mockCartRepository) DeleteCartAtRevision(_ context.Context, _ string, revision int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	if m.err != nil {
		return m.err
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.cart == nil || m.cart.Revision != revision {
		return repository.ErrCartChanged
	}
	m.cart = nil
	return nil
}

func (m *mockCartRepository) stored() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCache struct {
	m       sync.RWMutex
	cart    *domain.Cart
	version int64
	err     error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Version(context.Context, string) (int64, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.version, m.err
}

func (m *mockCache) SetIfVersion(_ context.Context, _ string, cart *domain.Cart, version int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if version != m.version {
		return cache.ErrStaleFill
	}
	m.cart = cart
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	m.version++
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockFoodRepository struct {
	m     sync.Mutex
	foods map[string]*domain.Food
	err   error
	gets  int
}

func newMockFoodRepository(foods ...*domain.Food) *mockFoodRepository {
	repo := &mockFoodRepository{foods: map[string]*domain.Food{}}
	for _, f := range foods {
		repo.foods[f.ID] = f
	}
	return repo
}

func (m *mockFoodRepository) ListFoods(_ context.Context, category string) ([]*domain.Food, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Food{}
	for _, f := range m.foods {
		if category == "" || f.Category == category {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockFoodRepository) GetFood(_ context.Context, id string) (*domain.Food, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.foods[id]
	if !ok {
		return nil, repository.ErrFoodNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFoodRepository) CreateFood(_ context.Context, food *domain.Food) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.foods[food.ID] = food
	return nil
}

func (m *mockFoodRepository) UpdateFood(_ context.Context, food *domain.Food) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.foods[food.ID]
	if !ok {
		return repository.ErrFoodNotFound
	}
	food.CreatedAt = existing.CreatedAt
	m.foods[food.ID] = food
	return nil
}

func (m *mockFoodRepository) DeleteFood(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.foods[id]; !ok {
		return repository.ErrFoodNotFound
	}
	delete(m.foods, id)
	return nil
}

type mockFoodCache struct {
	m     sync.Mutex
	foods map[string]*domain.Food
}

func (m *mockFoodCache) GetFood(_ context.Context, id string) (*domain.Food, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if f, ok := m.foods[id]; ok {
		return f, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockFoodCache) SetFood(_ context.Context, food *domain.Food) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.foods == nil {
		m.foods = map[string]*domain.Food{}
	}
	m.foods[food.ID] = food
	return nil
}

func (m *mockFoodCache) DeleteFood(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.foods, id)
	return nil
}

type mockOrderRepository struct {
	m         sync.Mutex
	orders    map[string]*domain.Order
	createErr error
	getErr    error
	updateErr error
	creates   int
	outbox    []*repository.OutboxEvent
	// raceWith is stored under the incoming token right before CreateOrder reports a duplicate
	raceWith *domain.Order
}

func newMockOrderRepository(orders ...*domain.Order) *mockOrderRepository {
	repo := &mockOrderRepository{orders: map[string]*domain.Order{}}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (m *mockOrderRepository) CreateOrder(_ context.Context, order *domain.Order, event *repository.OutboxEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if m.raceWith != nil {
		m.raceWith.UserID = order.UserID
		m.raceWith.RequestToken = order.RequestToken
		m.orders[m.raceWith.ID] = m.raceWith
		return repository.ErrDuplicateOrder
	}
	for _, o := range m.orders {
		if o.UserID == order.UserID && o.RequestToken == order.RequestToken {
			return repository.ErrDuplicateOrder
		}
	}
	m.orders[order.ID] = order
	if event != nil {
		m.outbox = append(m.outbox, event)
	}
	return nil
}

func (m *mockOrderRepository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepository) GetOrderByRequestToken(_ context.Context, userID, token string) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, o := range m.orders {
		if o.UserID == userID && o.RequestToken == token {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	out := []*domain.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, m.getErr
}

func (m *mockOrderRepository) ListOrders(_ context.Context, limit int) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	out := []*domain.Order{}
	for _, o := range m.orders {
		if len(out) == limit {
			break
		}
		out = append(out, o)
	}
	return out, m.getErr
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, event *repository.OutboxEvent) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, repository.ErrStatusConflict
	}
	o.Status = to
	if event != nil {
		m.outbox = append(m.outbox, event)
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepository) outboxEvents() []*repository.OutboxEvent {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]*repository.OutboxEvent(nil), m.outbox...)
}

func (m *mockOrderRepository) count() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.orders)
}

type mockProfileRepository struct {
	profile *domain.UserProfile
	address *domain.ShippingAddress
	err     error
}

func (m *mockProfileRepository) GetProfile(context.Context, string) (*domain.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.profile == nil {
		return nil, repository.ErrProfileNotFound
	}
	return m.profile, nil
}

func (m *mockProfileRepository) SaveProfile(_ context.Context, p *domain.UserProfile) error {
	if m.err != nil {
		return m.err
	}
	m.profile = p
	return nil
}

func (m *mockProfileRepository) GetShippingAddress(context.Context, string) (*domain.ShippingAddress, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.address == nil {
		return nil, repository.ErrAddressNotFound
	}
	return m.address, nil
}

func (m *mockProfileRepository) SaveShippingAddress(_ context.Context, _ string, addr domain.ShippingAddress) error {
	if m.err != nil {
		return m.err
	}
	m.address = &addr
	return nil
}

type mockReviewRepository struct {
	reviews []*domain.Review
	err     error
}

func (m *mockReviewRepository) CreateReview(_ context.Context, r *domain.Review) error {
	if m.err != nil {
		return m.err
	}
	m.reviews = append(m.reviews, r)
	return nil
}

func (m *mockReviewRepository) ListReviewsByFood(_ context.Context, foodID string) ([]*domain.Review, error) {
	out := []*domain.Review{}
	for _, r := range m.reviews {
		if r.FoodID == foodID {
			out = append(out, r)
		}
	}
	return out, m.err
}

func (m *mockReviewRepository) AverageRating(_ context.Context, foodID string) (float64, int, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	sum, n := 0, 0
	for _, r := range m.reviews {
		if r.FoodID == foodID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

type mockFavoriteRepository struct {
	favs map[string]bool
	err  error
}

func (m *mockFavoriteRepository) AddFavorite(_ context.Context, _, foodID string) error {
	if m.err != nil {
		return m.err
	}
	if m.favs == nil {
		m.favs = map[string]bool{}
	}
	m.favs[foodID] = true
	return nil
}

func (m *mockFavoriteRepository) RemoveFavorite(_ context.Context, _, foodID string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.favs, foodID)
	return nil
}

func (m *mockFavoriteRepository) ListFavorites(_ context.Context, userID string) ([]*domain.Favorite, error) {
	out := []*domain.Favorite{}
	for id := range m.favs {
		out = append(out, &domain.Favorite{UserID: userID, FoodID: id})
	}
	return out, m.err
}

type mockNotificationRepository struct {
	items []*domain.Notification
	err   error
}

func (m *mockNotificationRepository) CreateNotification(_ context.Context, n *domain.Notification) error {
	m.items = append(m.items, n)
	return m.err
}

func (m *mockNotificationRepository) ListNotifications(_ context.Context, userID string) ([]*domain.Notification, error) {
	out := []*domain.Notification{}
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, m.err
}

func (m *mockNotificationRepository) MarkRead(_ context.Context, userID, id string) error {
	if m.err != nil {
		return m.err
	}
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}
