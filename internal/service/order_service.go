package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/events"
	"github.com/fjod/go_food/internal/metrics"
	"github.com/fjod/go_food/internal/repository"
)

type OrderService struct {
	orders  repository.OrderRepository
	metrics *metrics.ServerMetrics
	log     *slog.Logger
}

func NewOrderService(orders repository.OrderRepository, m *metrics.ServerMetrics, log *slog.Logger) *OrderService {
	return &OrderService{orders: orders, metrics: m, log: log}
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	orders, err := s.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Persistence("list orders", err)
	}
	return orders, nil
}

// GetOrder hides orders of other users behind the same not-found error as missing ones.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx, limit)
	if err != nil {
		return nil, domain.Persistence("list all orders", err)
	}
	return orders, nil
}

// Accept marks a preparing order as delivered.
func (s *OrderService) Accept(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.transition(ctx, orderID, domain.OrderStatusDelivered)
}

// Cancel cancels a preparing order.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.transition(ctx, orderID, domain.OrderStatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	current, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionTo(current.Status, to) {
		return nil, ErrIllegalTransition
	}

	next := *current
	next.Status = to
	outbox, err := events.NewStatusChanged(&next).Outbox()
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, current.Status, to, outbox)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, ErrIllegalTransition
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, err
		default:
			return nil, domain.Persistence("update order status", err)
		}
	}

	s.log.InfoContext(ctx, "order status changed",
		slog.String("order_id", orderID),
		slog.String("from", current.Status.String()),
		slog.String("to", to.String()))
	if s.metrics != nil {
		s.metrics.StatusChanges.WithLabelValues(to.String()).Inc()
	}
	return updated, nil
}

func (s *OrderService) load(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		return nil, domain.Persistence("load order", err)
	}
	return order, nil
}
