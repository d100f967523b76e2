package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/logger"
	"github.com/fjod/go_food/internal/metrics"
	"github.com/fjod/go_food/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOutbox struct {
	events    []*repository.OutboxEvent
	processed []int
	getErr    error
}

func (m *mockOutbox) GetUnprocessedEvents(_ context.Context, limit int) ([]*repository.OutboxEvent, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*repository.OutboxEvent
	for _, e := range m.events {
		if !m.isProcessed(e.ID) && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockOutbox) MarkEventAsProcessed(_ context.Context, id int) error {
	m.processed = append(m.processed, id)
	return nil
}

func (m *mockOutbox) isProcessed(id int) bool {
	for _, p := range m.processed {
		if p == id {
			return true
		}
	}
	return false
}

type recordingPublisher struct {
	published []Event
	failOn    string
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	if e.OrderID == p.failOn {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, e)
	return nil
}

func outboxRow(t *testing.T, id int, e Event) *repository.OutboxEvent {
	t.Helper()
	row, err := e.Outbox()
	require.NoError(t, err)
	row.ID = id
	return row
}

func TestEvent_Outbox(t *testing.T) {
	e := NewOrderPlaced(testOrder())
	row, err := e.Outbox()
	require.NoError(t, err)

	assert.Equal(t, e.OrderID, row.AggregateID)
	assert.Equal(t, string(TypeOrderPlaced), row.EventType)

	var decoded Event
	require.NoError(t, json.Unmarshal(row.Payload, &decoded))
	assert.Equal(t, e.EventID, decoded.EventID)
	assert.Equal(t, domain.OrderStatusPreparing, decoded.Status)
}

func TestOutboxRelay_PublishesAndMarks(t *testing.T) {
	first := testOrder()
	second := testOrder()
	second.ID = "order-2"
	store := &mockOutbox{events: []*repository.OutboxEvent{
		outboxRow(t, 1, NewOrderPlaced(first)),
		outboxRow(t, 2, NewOrderPlaced(second)),
	}}
	pub := &recordingPublisher{}

	relay := NewOutboxRelay(store, pub, nil, logger.Discard())
	relay.processUnpublishedEvents(context.Background())

	require.Len(t, pub.published, 2)
	assert.Equal(t, first.ID, pub.published[0].OrderID)
	assert.Equal(t, []int{1, 2}, store.processed)

	// a second pass has nothing left to send
	relay.processUnpublishedEvents(context.Background())
	assert.Len(t, pub.published, 2)
}

func TestOutboxRelay_StopsAtFirstFailure(t *testing.T) {
	failing := testOrder()
	failing.ID = "order-down"
	later := testOrder()
	store := &mockOutbox{events: []*repository.OutboxEvent{
		outboxRow(t, 1, NewOrderPlaced(failing)),
		outboxRow(t, 2, NewStatusChanged(later)),
	}}
	pub := &recordingPublisher{failOn: "order-down"}
	m := metrics.NewServerMetrics("test", prometheus.NewRegistry())

	relay := NewOutboxRelay(store, pub, m, logger.Discard())
	relay.processUnpublishedEvents(context.Background())

	assert.Empty(t, pub.published)
	assert.Empty(t, store.processed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishFailures.WithLabelValues(string(TypeOrderPlaced))))

	// broker is back
	pub.failOn = ""
	relay.processUnpublishedEvents(context.Background())
	assert.Equal(t, []int{1, 2}, store.processed)
}

func TestOutboxRelay_DropsMalformedPayload(t *testing.T) {
	store := &mockOutbox{events: []*repository.OutboxEvent{
		{ID: 7, AggregateID: "x", EventType: "order.placed", Payload: json.RawMessage(`{broken`)},
	}}
	pub := &recordingPublisher{}

	NewOutboxRelay(store, pub, nil, logger.Discard()).processUnpublishedEvents(context.Background())

	assert.Empty(t, pub.published)
	assert.Equal(t, []int{7}, store.processed)
}

func TestOutboxRelay_FetchErrorIsLogged(t *testing.T) {
	store := &mockOutbox{getErr: errors.New("db down")}
	pub := &recordingPublisher{}

	NewOutboxRelay(store, pub, nil, logger.Discard()).processUnpublishedEvents(context.Background())

	assert.Empty(t, pub.published)
}
