package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
	"github.com/google/uuid"
)

const Topic = "order-events"

type Type string

const (
	TypeOrderPlaced        Type = "order.placed"
	TypeOrderStatusChanged Type = "order.status_changed"
)

// Event is the JSON payload written to Topic. Messages are keyed by OrderID so
// every event of one order lands on the same partition.
type Event struct {
	EventID    string             `json:"event_id"`
	Type       Type               `json:"type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	Status     domain.OrderStatus `json:"status"`
	Total      float64            `json:"total"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewOrderPlaced(o *domain.Order) Event {
	return newEvent(TypeOrderPlaced, o)
}

func NewStatusChanged(o *domain.Order) Event {
	return newEvent(TypeOrderStatusChanged, o)
}

func newEvent(t Type, o *domain.Order) Event {
	return Event{
		EventID:    uuid.NewString(),
		Type:       t,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		Total:      o.Total,
		OccurredAt: time.Now().UTC(),
	}
}

// Outbox serializes the event for the order outbox table.
func (e Event) Outbox() (*repository.OutboxEvent, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return &repository.OutboxEvent{
		AggregateID: e.OrderID,
		EventType:   string(e.Type),
		Payload:     payload,
		CreatedAt:   e.OccurredAt,
	}, nil
}
