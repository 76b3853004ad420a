package ui

import (
	"fmt"

	"atelier/internal/orders"
	"atelier/internal/types"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// candidateItem adapts types.ProductCandidate to list.Item.
type candidateItem struct {
	p types.ProductCandidate
}

func (i candidateItem) Title() string { return i.p.Brand + " · " + i.p.Name }
func (i candidateItem) Description() string {
	return fmt.Sprintf("%s  %.1f★  %s  %s", orders.FormatMoney(i.p.Price), i.p.Rating, i.p.Availability, i.p.Store)
}
func (i candidateItem) FilterValue() string { return i.p.Brand + " " + i.p.Name + " " + i.p.Category }

// PickerModel lets the user choose one candidate to order.
type PickerModel struct {
	list     list.Model
	chosen   *types.ProductCandidate
	quitting bool
}

// NewPicker creates a picker over the candidates.
func NewPicker(title string, candidates []types.ProductCandidate, styles Styles) PickerModel {
	items := make([]list.Item, len(candidates))
	for i, p := range candidates {
		items[i] = candidateItem{p: p}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = styles.Title

	return PickerModel{list: l}
}

// Init initializes the model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(candidateItem); ok {
				p := it.p
				m.chosen = &p
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m PickerModel) View() string {
	if m.quitting || m.chosen != nil {
		return ""
	}
	return m.list.View()
}

// Chosen returns the selected candidate, if any.
func (m PickerModel) Chosen() (types.ProductCandidate, bool) {
	if m.chosen == nil {
		return types.ProductCandidate{}, false
	}
	return *m.chosen, true
}

// Pick runs the picker program and returns the selection.
func Pick(title string, candidates []types.ProductCandidate, opts ...tea.ProgramOption) (types.ProductCandidate, bool, error) {
	final, err := tea.NewProgram(NewPicker(title, candidates, DefaultStyles()), opts...).Run()
	if err != nil {
		return types.ProductCandidate{}, false, err
	}
	p, ok := final.(PickerModel).Chosen()
	return p, ok, nil
}
