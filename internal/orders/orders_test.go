package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"atelier/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMirror struct {
	mu        sync.Mutex
	summaries []types.OrderSummary
	err       error
}

func (m *fakeMirror) Append(_ context.Context, s types.OrderSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.summaries = append(m.summaries, s)
	return nil
}

type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newClock() *steppingClock {
	return &steppingClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		want     types.PricingBreakdown
	}{
		{"Sweater", 1240, types.PricingBreakdown{Subtotal: 1240, Tax: 110.05, ServiceFee: 25, Tip: 186, Total: 1561.05}},
		{"Minimum Tip", 80, types.PricingBreakdown{Subtotal: 80, Tax: 7.1, ServiceFee: 25, Tip: 20, Total: 132.1}},
		{"Zero", 0, types.PricingBreakdown{Subtotal: 0, Tax: 0, ServiceFee: 25, Tip: 20, Total: 45}},
		{"Tip Threshold", 133.34, types.PricingBreakdown{Subtotal: 133.34, Tax: 11.83, ServiceFee: 25, Tip: 20, Total: 190.17}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Quote(tt.subtotal)); diff != "" {
				t.Errorf("Quote(%v) mismatch (-want +got):\n%s", tt.subtotal, diff)
			}
		})
	}
}

func TestQuote_TotalIsSumOfComponents(t *testing.T) {
	for _, price := range []float64{0, 19.99, 99.5, 133.33, 445, 1240, 4995, 12345.67} {
		b := Quote(price)
		assert.Equal(t, roundCents(b.Subtotal+b.Tax+b.ServiceFee+b.Tip), b.Total, "price %v", price)
		assert.GreaterOrEqual(t, b.Tip, MinimumTip)
		assert.Equal(t, ServiceFee, b.ServiceFee)
	}
}

func TestEstimateDelivery(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(4*time.Hour), EstimateDelivery("Net-a-Porter (Online)", now))
	assert.Equal(t, now.Add(4*time.Hour), EstimateDelivery("ONLINE boutique", now))
	assert.Equal(t, now.Add(90*time.Minute), EstimateDelivery("Bergdorf Goodman - 754 5th Avenue", now))
	assert.Equal(t, now.Add(90*time.Minute), EstimateDelivery("", now))
}

func TestCreateOrder(t *testing.T) {
	clock := newClock()
	mirror := &fakeMirror{}
	svc := NewService(WithClock(clock.Now), WithMirror(mirror))

	product := types.ProductCandidate{Name: "Cable-Knit Cashmere Fisherman Sweater", Brand: "Brunello Cucinelli", Price: 1240, Store: "Bergdorf Goodman - 754 5th Avenue"}
	order, err := svc.CreateOrder(context.Background(), product, types.CustomerContext{Source: "web", Query: "fisherman sweater"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.True(t, strings.HasSuffix(order.ID, "-1000"))
	assert.Equal(t, types.StatusPending, order.Status)
	assert.Equal(t, 1561.05, order.Total.Total)
	assert.Equal(t, order.CreatedAt.Add(90*time.Minute), order.EstimatedDelivery)
	assert.NotNil(t, order.Tracking.Updates)
	assert.Empty(t, order.Tracking.Updates)
	assert.Equal(t, order.CreatedAt, order.Customer.Timestamp)

	require.Len(t, mirror.summaries, 1)
	assert.Equal(t, order.Summary(), mirror.summaries[0])
}

func TestCreateOrder_Invalid(t *testing.T) {
	svc := NewService()
	_, err := svc.CreateOrder(context.Background(), types.ProductCandidate{Name: " ", Price: 10}, types.CustomerContext{})
	assert.True(t, errors.Is(err, ErrInvalidProduct))

	_, err = svc.CreateOrder(context.Background(), types.ProductCandidate{Name: "Bag", Price: -1}, types.CustomerContext{})
	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Zero(t, svc.Len())
}

func TestCreateOrder_MirrorFailureIsNotFatal(t *testing.T) {
	svc := NewService(WithMirror(&fakeMirror{err: errors.New("disk full")}))
	order, err := svc.CreateOrder(context.Background(), types.ProductCandidate{Name: "Scarf", Price: 450}, types.CustomerContext{})
	require.NoError(t, err)
	_, ok := svc.Get(order.ID)
	assert.True(t, ok)
}

func TestCreateOrder_SnapshotIsolation(t *testing.T) {
	svc := NewService()
	extra := map[string]string{"size": "M"}
	product := types.ProductCandidate{Name: "Coat", Price: 2000}

	order, err := svc.CreateOrder(context.Background(), product, types.CustomerContext{Extra: extra})
	require.NoError(t, err)

	extra["size"] = "XL"
	order.Customer.Extra["size"] = "S"
	order.Product.Price = 1

	stored, ok := svc.Get(order.ID)
	require.True(t, ok)
	assert.Equal(t, "M", stored.Customer.Extra["size"])
	assert.Equal(t, 2000.0, stored.Product.Price)
}

func TestUpdateStatus_AppendOnly(t *testing.T) {
	clock := newClock()
	svc := NewService(WithClock(clock.Now))
	order, err := svc.CreateOrder(context.Background(), types.ProductCandidate{Name: "Tote", Price: 1990}, types.CustomerContext{})
	require.NoError(t, err)

	first, ok := svc.UpdateStatus(context.Background(), order.ID, types.StatusSentToAgent, "sent via primary channel")
	require.True(t, ok)
	second, ok := svc.UpdateStatus(context.Background(), order.ID, types.StatusConfirmed, "shopper confirmed")
	require.True(t, ok)

	assert.Equal(t, types.StatusConfirmed, second.Status)
	require.Len(t, second.Tracking.Updates, 2)
	if diff := cmp.Diff(first.Tracking.Updates[0], second.Tracking.Updates[0]); diff != "" {
		t.Errorf("earlier tracking entry changed (-before +after):\n%s", diff)
	}
	assert.True(t, second.Tracking.Updates[1].Timestamp.After(second.Tracking.Updates[0].Timestamp))

	// Product and pricing never change after creation.
	assert.Equal(t, order.Total, second.Total)
	assert.Equal(t, order.Product, second.Product)

	// Returned copies do not alias the registry.
	second.Tracking.Updates[0].Message = "tampered"
	stored, _ := svc.Get(order.ID)
	assert.Equal(t, "sent via primary channel", stored.Tracking.Updates[0].Message)
}

func TestUpdateStatus_Miss(t *testing.T) {
	svc := NewService()
	_, ok := svc.UpdateStatus(context.Background(), "ORD-404", types.StatusConfirmed, "")
	assert.False(t, ok)
	_, ok = svc.Get("ORD-404")
	assert.False(t, ok)
}

func TestList_NewestFirst(t *testing.T) {
	svc := NewService(WithClock(newClock().Now))
	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(context.Background(), types.ProductCandidate{Name: fmt.Sprintf("Item %d", i), Price: 100}, types.CustomerContext{})
		require.NoError(t, err)
	}
	list := svc.List()
	require.Len(t, list, 3)
	assert.Equal(t, "Item 2", list[0].Product.Name)
	assert.Equal(t, "Item 0", list[2].Product.Name)
}

func TestIDs_UniqueUnderConcurrency(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(WithClock(func() time.Time { return fixed }))

	const n = 200
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := svc.CreateOrder(context.Background(), types.ProductCandidate{Name: "Ring", Price: 900}, types.CustomerContext{})
			if assert.NoError(t, err) {
				ids <- o.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, svc.Len())
}

func TestNewIDGenerator(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "ORD-1700000000123-1000", NewIDGenerator("counter", 1000).NextID(now))

	id := NewIDGenerator("uuid", 0).NextID(now)
	assert.True(t, strings.HasPrefix(id, "ORD-"))
	assert.Len(t, id, len("ORD-")+36)
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:         "$0.00",
		45:        "$45.00",
		999.99:    "$999.99",
		1561.05:   "$1,561.05",
		12345.67:  "$12,345.67",
		1e6:       "$1,000,000.00",
		-5.5:      "-$5.50",
		-0.001:    "$0.00",
		123456789: "$123,456,789.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(in), "FormatMoney(%v)", in)
	}
}
