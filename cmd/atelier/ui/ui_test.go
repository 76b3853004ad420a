package ui

import (
	"strings"
	"testing"
	"time"

	"atelier/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates() []types.ProductCandidate {
	return []types.ProductCandidate{
		{ID: "a", Name: "Cable Knit Fisherman Sweater", Brand: "Loro Piana", Price: 1890, Rating: 4.8, Availability: types.AvailabilityInStock, Store: "Bergdorf Goodman - Fifth Avenue"},
		{ID: "b", Name: "Chunky Wool Pullover", Brand: "Vince", Price: 445, Rating: 4.4, Availability: types.AvailabilityLimited, Store: "Net-a-Porter (Online)"},
	}
}

func TestTable(t *testing.T) {
	table := NewTable("Results", "Col1", "Col2")
	assert.Empty(t, table.View(DefaultStyles()))

	table.AddRow("Row1Col1", "Row1Col2")
	view := table.View(DefaultStyles())
	assert.Contains(t, view, "Results")
	assert.Contains(t, view, "Row1Col1")
	assert.Contains(t, view, "|")
}

func TestCandidateTable(t *testing.T) {
	view := CandidateTable("fisherman sweater", candidates(), DefaultStyles())
	assert.Contains(t, view, "Loro Piana")
	assert.Contains(t, view, "$1,890.00")
	assert.Contains(t, view, "Limited")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme().IsDark)

	t.Setenv("COLORFGBG", "0;15")
	assert.False(t, DetectTheme().IsDark)

	t.Setenv("COLORFGBG", "")
	assert.False(t, DetectTheme().IsDark)
}

func TestOrderMarkdown(t *testing.T) {
	o := types.Order{
		ID:      "ORD-1-1000",
		Product: candidates()[0],
		Total:   types.PricingBreakdown{Subtotal: 1240, Tax: 110.05, ServiceFee: 25, Tip: 186, Total: 1561.05},
		Tracking: types.Tracking{Updates: []types.TrackingUpdate{
			{Status: types.StatusPending, Message: "Order created", Timestamp: time.Now()},
		}},
	}
	md := OrderMarkdown(o, "fallback", "https://wa.me/1?text=x")
	assert.Contains(t, md, "## Order ORD-1-1000")
	assert.Contains(t, md, "$1,561.05")
	assert.Contains(t, md, "`pending` Order created")
	assert.Contains(t, md, "<https://wa.me/1?text=x>")

	rendered := NewRenderer(LightTheme(), 80).Render(md)
	assert.Contains(t, rendered, "ORD-1-1000")
}

func TestRendererNilSafe(t *testing.T) {
	var r *Renderer
	assert.Equal(t, "# x", r.Render("# x"))
}

func TestPicker_Enter(t *testing.T) {
	var m tea.Model = NewPicker("Pick", candidates(), DefaultStyles())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	p, ok := m.(PickerModel).Chosen()
	require.True(t, ok)
	assert.Equal(t, "b", p.ID)
	assert.Empty(t, m.View())
}

func TestPicker_Esc(t *testing.T) {
	var m tea.Model = NewPicker("Pick", candidates(), DefaultStyles())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, strings.Contains(m.View(), "Pick"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := m.(PickerModel).Chosen()
	assert.False(t, ok)
}
