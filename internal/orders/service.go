// Package orders owns the order registry: creation, pricing and the status log.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"atelier/internal/logging"
	"atelier/internal/types"
)

// ErrInvalidProduct is returned when a product cannot be ordered.
var ErrInvalidProduct = errors.New("orders: product needs a name and a non-negative price")

// Mirror receives a summary of every created order.
type Mirror interface {
	Append(ctx context.Context, s types.OrderSummary) error
}

// Clock returns the current time.
type Clock func() time.Time

// Service is the in-memory order registry. Orders are never removed.
type Service struct {
	mu     sync.RWMutex
	orders map[string]*types.Order

	ids    IDGenerator
	now    Clock
	mirror Mirror
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock.
func WithClock(c Clock) Option { return func(s *Service) { s.now = c } }

// WithIDs overrides the id generator.
func WithIDs(g IDGenerator) Option { return func(s *Service) { s.ids = g } }

// WithMirror attaches a durable mirror.
func WithMirror(m Mirror) Option { return func(s *Service) { s.mirror = m } }

// NewService creates an empty registry.
func NewService(opts ...Option) *Service {
	s := &Service{
		orders: make(map[string]*types.Order),
		ids:    NewCounterIDs(1000),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder snapshots the product, prices it and registers a pending order.
// A mirror failure is logged and does not fail the order.
func (s *Service) CreateOrder(ctx context.Context, product types.ProductCandidate, customer types.CustomerContext) (types.Order, error) {
	if strings.TrimSpace(product.Name) == "" || product.Price < 0 {
		return types.Order{}, fmt.Errorf("%w: name=%q price=%.2f", ErrInvalidProduct, product.Name, product.Price)
	}

	now := s.now()
	if customer.Timestamp.IsZero() {
		customer.Timestamp = now
	}
	order := &types.Order{
		ID:                s.ids.NextID(now),
		Product:           product,
		Customer:          customer,
		Status:            types.StatusPending,
		EstimatedDelivery: EstimateDelivery(product.Store, now),
		Total:             Quote(product.Price),
		Tracking:          types.Tracking{Updates: []types.TrackingUpdate{}},
		CreatedAt:         now,
	}
	// Detach from caller-owned maps.
	*order = order.Clone()

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	logging.Orders("Created order %s for %s %s (total $%.2f)", order.ID, product.Brand, product.Name, order.Total.Total)
	logging.Audit(logging.CategoryOrders).OrderCreated(order.ID, order.Total.Total)

	if s.mirror != nil {
		if err := s.mirror.Append(ctx, order.Summary()); err != nil {
			logging.OrdersWarn("Mirror append for %s failed: %v", order.ID, err)
		}
	}
	return order.Clone(), nil
}

// UpdateStatus appends a tracking entry and sets the current status.
// It reports false when the order does not exist.
func (s *Service) UpdateStatus(_ context.Context, id string, status types.OrderStatus, message string) (types.Order, bool) {
	s.mu.Lock()
	order, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		logging.OrdersWarn("Status update for unknown order %s", id)
		logging.Audit(logging.CategoryOrders).OrderStatus(id, string(status), false)
		return types.Order{}, false
	}
	order.Status = status
	order.Tracking.Updates = append(order.Tracking.Updates, types.TrackingUpdate{
		Status:    status,
		Message:   message,
		Timestamp: s.now(),
	})
	out := order.Clone()
	s.mu.Unlock()

	logging.Orders("Order %s -> %s: %s", id, status, message)
	logging.Audit(logging.CategoryOrders).OrderStatus(id, string(status), true)
	return out, true
}

// Get returns a copy of the order.
func (s *Service) Get(id string) (types.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return types.Order{}, false
	}
	return order.Clone(), true
}

// List returns copies of every order, newest first.
func (s *Service) List() []types.Order {
	s.mu.RLock()
	out := make([]types.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Clone())
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len reports the number of registered orders.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
