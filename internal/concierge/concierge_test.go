package concierge

import (
	"context"
	"errors"
	"testing"
	"time"

	"atelier/internal/messaging"
	"atelier/internal/orders"
	"atelier/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	out  messaging.Outcome
	sent []messaging.Message
}

func (f *fakeDispatcher) Dispatch(_ context.Context, msg messaging.Message) messaging.Outcome {
	f.sent = append(f.sent, msg)
	return f.out
}

var sweater = types.ProductCandidate{
	Name:  "Baby Cashmere Fisherman Crewneck",
	Brand: "Loro Piana",
	Price: 1240,
	Store: "Madison Avenue Boutiques - Upper East Side",
}

func TestCheckout_Primary(t *testing.T) {
	svc := orders.NewService()
	d := &fakeDispatcher{out: messaging.Outcome{Channel: messaging.ChannelPrimary}}

	p := New(svc, d).Checkout(context.Background(), sweater, types.CustomerContext{Source: "web", Query: "fisherman sweater"})

	require.NotNil(t, p.Order)
	assert.Empty(t, p.Error)
	assert.False(t, p.Fallback)
	assert.Equal(t, messaging.ChannelPrimary, p.Channel)
	assert.Equal(t, types.StatusSentToAgent, p.Order.Status)
	require.Len(t, p.Order.Tracking.Updates, 1)
	assert.Contains(t, p.Order.Tracking.Updates[0].Message, "primary")
	assert.Equal(t, 1561.05, p.Order.Total.Total)

	require.Len(t, d.sent, 1)
	assert.Equal(t, p.Order.ID, d.sent[0].Order.ID)
	assert.Contains(t, d.sent[0].Text, p.Order.ID)

	stored, ok := svc.Get(p.Order.ID)
	require.True(t, ok)
	assert.Equal(t, types.StatusSentToAgent, stored.Status)
}

func TestCheckout_Fallback(t *testing.T) {
	svc := orders.NewService(orders.WithClock(func() time.Time { return time.Unix(1800000000, 0) }))
	d := &fakeDispatcher{out: messaging.Outcome{
		Channel: messaging.ChannelFallback, Fallback: true,
		URL: "https://wa.me/12125550147?text=x", Err: errors.New("HTTP 502"),
	}}

	p := New(svc, d).Checkout(context.Background(), sweater, types.CustomerContext{})

	require.NotNil(t, p.Order)
	assert.True(t, p.Fallback)
	assert.Equal(t, "https://wa.me/12125550147?text=x", p.FallbackURL)
	assert.Equal(t, "HTTP 502", p.Error)
	assert.Equal(t, types.StatusSentToAgent, p.Order.Status)
	assert.Contains(t, p.Order.Tracking.Updates[0].Message, "fallback")
}

func TestCheckout_InvalidProductStillDispatches(t *testing.T) {
	svc := orders.NewService()
	d := &fakeDispatcher{out: messaging.Outcome{Channel: messaging.ChannelPrimary}}

	bad := types.ProductCandidate{Name: "", Brand: "Mystery", Price: 10}
	p := New(svc, d).Checkout(context.Background(), bad, types.CustomerContext{Query: "mystery"})

	assert.Nil(t, p.Order)
	assert.Contains(t, p.Error, "non-negative price")
	require.Len(t, d.sent, 1)
	assert.Nil(t, d.sent[0].Order)
	assert.Contains(t, d.sent[0].Text, "PRODUCT REQUEST")
	assert.Zero(t, svc.Len())
}
