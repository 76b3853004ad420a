package orders

import (
	"fmt"
	"math"
	"strings"
	"time"

	"atelier/internal/types"
)

// Pricing constants.
const (
	TaxRate    = 0.08875
	ServiceFee = 25.00
	TipRate    = 0.15
	MinimumTip = 20.00
)

// Delivery lead times.
const (
	OnlineLeadTime   = 4 * time.Hour
	InPersonLeadTime = 90 * time.Minute
)

// roundCents rounds half away from zero to two decimals.
func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// Quote derives the breakdown for a subtotal. Every component is rounded to
// cents and Total is the exact sum of the rounded components.
func Quote(subtotal float64) types.PricingBreakdown {
	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * TaxRate)
	tip := roundCents(math.Max(MinimumTip, subtotal*TipRate))
	return types.PricingBreakdown{
		Subtotal:   subtotal,
		Tax:        tax,
		ServiceFee: ServiceFee,
		Tip:        tip,
		Total:      roundCents(subtotal + tax + ServiceFee + tip),
	}
}

// EstimateDelivery returns when an order from store is expected to arrive.
// Online retailers ship; everything else is sourced in person.
func EstimateDelivery(store string, now time.Time) time.Time {
	if strings.Contains(strings.ToLower(store), "online") {
		return now.Add(OnlineLeadTime)
	}
	return now.Add(InPersonLeadTime)
}

// FormatMoney formats dollars with thousands separators: 1561.05 -> "$1,561.05".
func FormatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", math.Abs(v))
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	if v < 0 && s != "0.00" {
		return "-" + b.String()
	}
	return b.String()
}
