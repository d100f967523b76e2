// Package checkout holds the state of one checkout: the cart being bought, the selected
// promotion and the delivery details. Every change recomputes the price breakdown, so a
// Snapshot always carries totals that match its lines.
package checkout

import (
	"sync"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/pricing"
)

type Snapshot struct {
	Lines           []domain.CartLine
	Promotion       pricing.Promotion
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	DeliveryDate    string
	DeliveryTime    string
	Breakdown       domain.PriceBreakdown
}

type Session struct {
	mu    sync.RWMutex
	state Snapshot
}

func NewSession(lines []domain.CartLine) *Session {
	s := &Session{state: Snapshot{Promotion: pricing.FreeShipping}}
	s.SetLines(lines)
	return s
}

func (s *Session) SetLines(lines []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Lines = cloneLines(lines)
	s.recompute()
}

func (s *Session) SetPromotion(p pricing.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Promotion = p
	s.recompute()
}

func (s *Session) SetShippingAddress(addr domain.ShippingAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShippingAddress = addr
}

func (s *Session) SetPaymentMethod(m domain.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PaymentMethod = m
}

func (s *Session) SetDeliverySlot(date, time string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DeliveryDate = date
	s.state.DeliveryTime = time
}

func (s *Session) Breakdown() domain.PriceBreakdown {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Breakdown
}

// Snapshot returns a copy that later mutations of the session do not affect.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.Lines = cloneLines(s.state.Lines)
	return snap
}

// recompute must be called with mu held.
func (s *Session) recompute() {
	s.state.Breakdown = pricing.Quote(s.state.Lines, s.state.Promotion)
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	if lines == nil {
		return nil
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
