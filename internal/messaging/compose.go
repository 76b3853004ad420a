// Package messaging composes human-readable order requests and delivers them
// to the personal-shopper channel.
package messaging

import (
	"fmt"
	"strings"
	"time"

	"atelier/internal/orders"
	"atelier/internal/types"
)

const timeLayout = "Mon Jan 2, 3:04 PM MST"

// ComposeOrder renders an order for the shopper.
func ComposeOrder(o types.Order) string {
	var sb strings.Builder
	sb.WriteString("NEW ORDER REQUEST\n")
	fmt.Fprintf(&sb, "Order ID: %s\n", o.ID)
	sb.WriteString("\n")
	writeProduct(&sb, o.Product)
	sb.WriteString("\nPricing\n")
	fmt.Fprintf(&sb, "  Subtotal:    %s\n", orders.FormatMoney(o.Total.Subtotal))
	fmt.Fprintf(&sb, "  Tax:         %s\n", orders.FormatMoney(o.Total.Tax))
	fmt.Fprintf(&sb, "  Service fee: %s\n", orders.FormatMoney(o.Total.ServiceFee))
	fmt.Fprintf(&sb, "  Tip:         %s\n", orders.FormatMoney(o.Total.Tip))
	fmt.Fprintf(&sb, "  Total:       %s\n", orders.FormatMoney(o.Total.Total))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Estimated delivery: %s\n", o.EstimatedDelivery.Format(timeLayout))
	writeCustomer(&sb, o.Customer)
	return strings.TrimRight(sb.String(), "\n")
}

// ComposeProduct renders a raw product request when no order could be created.
func ComposeProduct(p types.ProductCandidate, c types.CustomerContext) string {
	var sb strings.Builder
	sb.WriteString("PRODUCT REQUEST\n\n")
	writeProduct(&sb, p)
	writeCustomer(&sb, c)
	return strings.TrimRight(sb.String(), "\n")
}

func writeProduct(sb *strings.Builder, p types.ProductCandidate) {
	fmt.Fprintf(sb, "Product: %s\n", p.Name)
	fmt.Fprintf(sb, "Brand: %s\n", p.Brand)
	fmt.Fprintf(sb, "Price: %s\n", orders.FormatMoney(p.Price))
	if p.SKU != "" {
		fmt.Fprintf(sb, "SKU: %s\n", p.SKU)
	}
	if p.Store != "" {
		fmt.Fprintf(sb, "Store: %s\n", p.Store)
	}
	if p.Availability != "" {
		fmt.Fprintf(sb, "Availability: %s\n", p.Availability)
	}
	if p.ProductURL != "" {
		fmt.Fprintf(sb, "Link: %s\n", p.ProductURL)
	} else if p.StoreWebsite != "" {
		fmt.Fprintf(sb, "Store website: %s\n", p.StoreWebsite)
	}
}

func writeCustomer(sb *strings.Builder, c types.CustomerContext) {
	if c.Query != "" {
		fmt.Fprintf(sb, "Original search: %q\n", c.Query)
	}
	if c.Source != "" {
		fmt.Fprintf(sb, "Requested via: %s\n", c.Source)
	}
	if c.Notes != "" {
		fmt.Fprintf(sb, "Notes: %s\n", c.Notes)
	}
	if !c.Timestamp.IsZero() {
		fmt.Fprintf(sb, "Requested at: %s\n", c.Timestamp.Format(time.RFC3339))
	}
}
