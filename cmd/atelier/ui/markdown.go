package ui

import (
	"fmt"
	"strings"
	"time"

	"atelier/internal/orders"
	"atelier/internal/types"

	"github.com/charmbracelet/glamour"
)

// Renderer turns order documents into terminal markdown.
type Renderer struct {
	md *glamour.TermRenderer
}

// NewRenderer creates a markdown renderer for the theme.
// Plain output falls back to the raw markdown.
func NewRenderer(theme Theme, width int) *Renderer {
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if theme.IsDark {
		opts = append(opts, glamour.WithStylePath("dark"))
	} else {
		opts = append(opts, glamour.WithStylePath("light"))
	}
	md, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{md: md}
}

// Render renders markdown, returning the source unchanged on failure.
func (r *Renderer) Render(src string) string {
	if r == nil || r.md == nil {
		return src
	}
	out, err := r.md.Render(src)
	if err != nil {
		return src
	}
	return out
}

// QuoteMarkdown documents a price breakdown.
func QuoteMarkdown(b types.PricingBreakdown, online, inPerson time.Time) string {
	var sb strings.Builder
	sb.WriteString("## Quote\n\n")
	writeBreakdown(&sb, b)
	fmt.Fprintf(&sb, "\n- Online retailer delivery: **%s**\n", online.Local().Format(time.Kitchen))
	fmt.Fprintf(&sb, "- In-person sourcing delivery: **%s**\n", inPerson.Local().Format(time.Kitchen))
	return sb.String()
}

// OrderMarkdown documents a placed order and how it reached the shopper.
func OrderMarkdown(o types.Order, channel, fallbackURL string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Order %s\n\n", o.ID)
	fmt.Fprintf(&sb, "**%s** by %s  \n", o.Product.Name, o.Product.Brand)
	fmt.Fprintf(&sb, "%s\n\n", o.Product.Store)
	writeBreakdown(&sb, o.Total)
	fmt.Fprintf(&sb, "\nEstimated delivery: **%s**\n\n", o.EstimatedDelivery.Local().Format("Mon Jan 2 15:04"))

	if len(o.Tracking.Updates) > 0 {
		sb.WriteString("### Tracking\n\n")
		for _, u := range o.Tracking.Updates {
			fmt.Fprintf(&sb, "- `%s` %s (%s)\n", u.Status, u.Message, u.Timestamp.Local().Format("15:04:05"))
		}
		sb.WriteString("\n")
	}

	if fallbackURL != "" {
		fmt.Fprintf(&sb, "Sent via **%s**: <%s>\n", channel, fallbackURL)
	} else if channel != "" {
		fmt.Fprintf(&sb, "Sent via **%s**.\n", channel)
	}
	return sb.String()
}

func writeBreakdown(sb *strings.Builder, b types.PricingBreakdown) {
	sb.WriteString("| Item | Amount |\n|---|---:|\n")
	fmt.Fprintf(sb, "| Subtotal | %s |\n", orders.FormatMoney(b.Subtotal))
	fmt.Fprintf(sb, "| Tax | %s |\n", orders.FormatMoney(b.Tax))
	fmt.Fprintf(sb, "| Service fee | %s |\n", orders.FormatMoney(b.ServiceFee))
	fmt.Fprintf(sb, "| Tip | %s |\n", orders.FormatMoney(b.Tip))
	fmt.Fprintf(sb, "| **Total** | **%s** |\n", orders.FormatMoney(b.Total))
}
