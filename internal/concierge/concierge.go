// Package concierge runs the "order this product" flow: create the order,
// compose the request, dispatch it and record the hand-off.
package concierge

import (
	"context"
	"fmt"

	"atelier/internal/logging"
	"atelier/internal/messaging"
	"atelier/internal/types"
)

// Orders is the subset of the order manager the flow needs.
type Orders interface {
	CreateOrder(ctx context.Context, product types.ProductCandidate, customer types.CustomerContext) (types.Order, error)
	UpdateStatus(ctx context.Context, id string, status types.OrderStatus, message string) (types.Order, bool)
}

// Dispatcher delivers composed messages.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg messaging.Message) messaging.Outcome
}

// Placement records what happened during a checkout.
type Placement struct {
	// Order is nil when the order could not be created.
	Order    *types.Order `json:"order,omitempty"`
	Message  string       `json:"message"`
	Channel  string       `json:"channel"`
	Fallback bool         `json:"fallback"`
	// FallbackURL is the click-to-chat link when the primary channel failed.
	FallbackURL string `json:"fallbackUrl,omitempty"`
	// Error describes the first problem encountered, if any.
	Error string `json:"error,omitempty"`
}

// Service wires orders to messaging.
type Service struct {
	orders     Orders
	dispatcher Dispatcher
}

// New creates the checkout flow.
func New(orders Orders, dispatcher Dispatcher) *Service {
	return &Service{orders: orders, dispatcher: dispatcher}
}

// Checkout orders product on behalf of the shopper. It never fails: when the
// order cannot be created the raw product request is still sent.
func (s *Service) Checkout(ctx context.Context, product types.ProductCandidate, customer types.CustomerContext) Placement {
	var p Placement

	order, err := s.orders.CreateOrder(ctx, product, customer)
	if err != nil {
		logging.OrdersWarn("Checkout for %q without an order: %v", product.Name, err)
		p.Error = err.Error()
		p.Message = messaging.ComposeProduct(product, customer)
	} else {
		p.Order = &order
		p.Message = messaging.ComposeOrder(order)
	}

	msg := messaging.Message{Text: p.Message, Order: p.Order}
	out := s.dispatcher.Dispatch(ctx, msg)
	p.Channel = out.Channel
	p.Fallback = out.Fallback
	p.FallbackURL = out.URL
	if out.Err != nil && p.Error == "" {
		p.Error = out.Err.Error()
	}

	if p.Order == nil {
		return p
	}

	note := "Sent to personal shopper via primary channel"
	if out.Fallback {
		note = fmt.Sprintf("Primary channel unavailable (%v); shared via fallback link", out.Err)
	}
	if updated, ok := s.orders.UpdateStatus(ctx, p.Order.ID, types.StatusSentToAgent, note); ok {
		p.Order = &updated
	}
	return p
}
