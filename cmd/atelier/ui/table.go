package ui

import (
	"fmt"
	"strings"

	"atelier/internal/orders"
	"atelier/internal/types"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows with a header and divider.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates a table.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// View renders the table; an empty table renders "".
func (t *Table) View(s Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(s.Title.Render(t.Title) + "\n")
	}

	header := s.Bold.Padding(0, 1)
	cell := s.Body.Padding(0, 1)
	sep := s.Muted.Render("|")

	writeRow := func(style lipgloss.Style, cells []string) {
		for i := range widths {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			sb.WriteString(style.Width(widths[i] + 2).Render(v))
			if i < len(widths)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	writeRow(header, t.Headers)
	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(s.Muted.Render(strings.Repeat("-", total)) + "\n")
	for _, row := range t.Rows {
		writeRow(cell, row)
	}
	return sb.String()
}

// CandidateTable renders search results.
func CandidateTable(title string, candidates []types.ProductCandidate, s Styles) string {
	t := NewTable(title, "#", "Brand", "Product", "Price", "Store", "Rating", "Availability")
	for i, p := range candidates {
		t.AddRow(fmt.Sprint(i+1), p.Brand, truncate(p.Name, 40), orders.FormatMoney(p.Price), truncate(p.Store, 34), fmt.Sprintf("%.1f", p.Rating), string(p.Availability))
	}
	return t.View(s)
}

// SummaryTable renders mirrored orders.
func SummaryTable(summaries []types.OrderSummary, s Styles) string {
	t := NewTable("Orders", "ID", "Product", "Brand", "Total", "Status", "Placed")
	for _, o := range summaries {
		t.AddRow(o.ID, truncate(o.ProductName, 36), o.Brand, orders.FormatMoney(o.Total), string(o.Status), o.Timestamp.Local().Format("Jan 2 15:04"))
	}
	return t.View(s)
}

// StoreTable renders the retailer directory.
func StoreTable(stores []types.StoreInfo, s Styles) string {
	t := NewTable("Stores", "Key", "Store", "Specialty", "Website")
	for _, st := range stores {
		t.AddRow(st.Key, st.DisplayName(), st.Specialty, st.Website)
	}
	return t.View(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
