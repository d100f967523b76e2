package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fjod/go_food/internal/metrics"
	"github.com/fjod/go_food/internal/repository"
)

const outboxBatchSize = 100

// OutboxRelay publishes order events recorded in the outbox table and marks them processed.
// Delivery is at-least-once: an event published but not marked is sent again on the next tick.
type OutboxRelay struct {
	store     repository.OutboxRepository
	publisher Publisher
	metrics   *metrics.ServerMetrics
	log       *slog.Logger
	tick      time.Duration
}

func NewOutboxRelay(store repository.OutboxRepository, publisher Publisher, m *metrics.ServerMetrics, log *slog.Logger) *OutboxRelay {
	return &OutboxRelay{
		store:     store,
		publisher: publisher,
		metrics:   m,
		log:       log,
		tick:      time.Second,
	}
}

func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// processUnpublishedEvents stops at the first publish failure so that events of one
// order never overtake each other.
func (r *OutboxRelay) processUnpublishedEvents(ctx context.Context) {
	pending, err := r.store.GetUnprocessedEvents(ctx, outboxBatchSize)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to fetch outbox events", slog.Any("error", err))
		return
	}

	for _, row := range pending {
		var e Event
		if err := json.Unmarshal(row.Payload, &e); err != nil {
			// never publishable; drop it instead of blocking the outbox
			r.log.ErrorContext(ctx, "discarding malformed outbox event",
				slog.Int("outbox_id", row.ID), slog.Any("error", err))
			r.markProcessed(ctx, row.ID)
			continue
		}

		if err := r.publisher.Publish(ctx, e); err != nil {
			r.log.WarnContext(ctx, "failed to publish outbox event",
				slog.Int("outbox_id", row.ID),
				slog.String("order_id", row.AggregateID),
				slog.Any("error", err))
			if r.metrics != nil {
				r.metrics.PublishFailures.WithLabelValues(row.EventType).Inc()
			}
			return
		}
		r.markProcessed(ctx, row.ID)
	}
}

func (r *OutboxRelay) markProcessed(ctx context.Context, id int) {
	if err := r.store.MarkEventAsProcessed(ctx, id); err != nil {
		r.log.ErrorContext(ctx, "failed to mark outbox event as processed",
			slog.Int("outbox_id", id), slog.Any("error", err))
	}
}
