package types

import "time"

// =============================================================================
// ORDERS
// =============================================================================

// OrderStatus is the lifecycle state of an order. Statuses after SentToAgent
// are owned by the human fulfillment channel, so any non-empty value is accepted.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusSentToAgent    OrderStatus = "sent_to_agent"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusSourcing       OrderStatus = "sourcing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// PricingBreakdown is derived from the product price at order creation and never recomputed.
type PricingBreakdown struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	ServiceFee float64 `json:"serviceFee"`
	Tip        float64 `json:"tip"`
	Total      float64 `json:"total"`
}

// CustomerContext is the ambient context of an order request.
// It is not a customer identity.
type CustomerContext struct {
	Source    string            `json:"source"`
	Query     string            `json:"query"`
	Timestamp time.Time         `json:"timestamp"`
	Notes     string            `json:"notes,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// TrackingUpdate is one append-only status log entry.
type TrackingUpdate struct {
	Status    OrderStatus `json:"status"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// Tracking holds the ordered status log of an order.
type Tracking struct {
	Updates []TrackingUpdate `json:"updates"`
}

// Order is created once per "order this product" action.
// Product and Total are snapshots; only Status and Tracking change afterwards.
type Order struct {
	ID                string           `json:"id"`
	Product           ProductCandidate `json:"product"`
	Customer          CustomerContext  `json:"customer"`
	Status            OrderStatus      `json:"status"`
	EstimatedDelivery time.Time        `json:"estimatedDelivery"`
	Total             PricingBreakdown `json:"total"`
	Tracking          Tracking         `json:"tracking"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// Clone returns a deep copy so callers cannot reach registry-owned slices or maps.
func (o Order) Clone() Order {
	c := o
	c.Tracking.Updates = append([]TrackingUpdate(nil), o.Tracking.Updates...)
	if c.Tracking.Updates == nil {
		c.Tracking.Updates = []TrackingUpdate{}
	}
	if o.Customer.Extra != nil {
		c.Customer.Extra = make(map[string]string, len(o.Customer.Extra))
		for k, v := range o.Customer.Extra {
			c.Customer.Extra[k] = v
		}
	}
	return c
}

// Summary flattens the order for the durable mirror.
func (o Order) Summary() OrderSummary {
	return OrderSummary{
		ID:          o.ID,
		ProductName: o.Product.Name,
		Brand:       o.Product.Brand,
		Price:       o.Product.Price,
		Total:       o.Total.Total,
		Status:      o.Status,
		Timestamp:   o.CreatedAt,
	}
}

// OrderSummary is the flattened record kept across sessions.
type OrderSummary struct {
	ID          string      `json:"id"`
	ProductName string      `json:"productName"`
	Brand       string      `json:"brand"`
	Price       float64     `json:"price"`
	Total       float64     `json:"total"`
	Status      OrderStatus `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
}
