package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPreparing, OrderStatusDelivered, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusPreparing, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusDelivered, false},
		{OrderStatusDelivered, OrderStatusPreparing, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPreparing.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}

func TestPersistenceError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("place order: %w", Persistence("insert order", cause))

	var pe *PersistenceError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "insert order", pe.Op)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Persistence("noop", nil))
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("phone", "invalid phone number")

	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone", ve.Field)
	assert.Equal(t, "phone: invalid phone number", err.Error())
}

func TestParsePaymentMethod(t *testing.T) {
	m, ok := ParsePaymentMethod("MoMo")
	assert.True(t, ok)
	assert.True(t, m.IsOnline())

	m, ok = ParsePaymentMethod("Cash on Delivery")
	assert.True(t, ok)
	assert.False(t, m.IsOnline())

	_, ok = ParsePaymentMethod("Bitcoin")
	assert.False(t, ok)
}
