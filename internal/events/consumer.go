package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer turns order events into in-app notifications for the order's owner.
type Consumer struct {
	store  NotificationStore
	reader messageReader
	log    *slog.Logger
}

func NewConsumer(store NotificationStore, log *slog.Logger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  "notifier",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{store: store, reader: reader, log: log}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Error("error closing kafka reader", slog.Any("error", err))
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.ErrorContext(ctx, "error reading message", slog.Any("error", err))
		return
	}

	var event Event
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.log.ErrorContext(ctx, "error parsing message", slog.Any("error", err))
		return
	}

	n, ok := notificationFor(event)
	if !ok {
		c.log.DebugContext(ctx, "skipping event", slog.String("type", string(event.Type)))
		return
	}

	if err := c.store.CreateNotification(ctx, n); err != nil {
		c.log.ErrorContext(ctx, "failed to create notification",
			slog.String("order_id", event.OrderID), slog.Any("error", err))
		return
	}
	c.log.InfoContext(ctx, "notification created",
		slog.String("order_id", event.OrderID), slog.String("type", string(event.Type)))
}

func notificationFor(e Event) (*domain.Notification, bool) {
	if e.UserID == "" || e.OrderID == "" {
		return nil, false
	}

	var title, message string
	switch e.Type {
	case TypeOrderPlaced:
		title = "Order placed"
		message = fmt.Sprintf("Your order %s was placed. Total: $%.2f", e.OrderID, e.Total)
	case TypeOrderStatusChanged:
		title = "Order " + e.Status.String()
		message = fmt.Sprintf("Your order %s is now %s.", e.OrderID, e.Status)
	default:
		return nil, false
	}

	return &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    e.UserID,
		Title:     title,
		Message:   message,
		OrderID:   e.OrderID,
		CreatedAt: time.Now().UTC(),
	}, true
}
