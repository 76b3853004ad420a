// Package ui renders atelier results in the terminal.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Ink       = lipgloss.Color("#1b1b1f")
	Ivory     = lipgloss.Color("#f6f1e7")
	Gold      = lipgloss.Color("#b8924a")
	Champagne = lipgloss.Color("#e8d9b5")
	Slate     = lipgloss.Color("#6b7280")
	Rose      = lipgloss.Color("#c0392b")
	Sage      = lipgloss.Color("#5f8d6b")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light terminal theme.
func LightTheme() Theme {
	return Theme{Foreground: Ink, Accent: Gold, Muted: Slate}
}

// DarkTheme returns the dark terminal theme.
func DarkTheme() Theme {
	return Theme{Foreground: Ivory, Accent: Champagne, Muted: Slate, IsDark: true}
}

// DetectTheme guesses the terminal background from COLORFGBG.
func DetectTheme() Theme {
	parts := strings.Split(os.Getenv("COLORFGBG"), ";")
	if len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && (bg <= 6 || bg == 8) {
			return DarkTheme()
		}
	}
	return LightTheme()
}

// Styles are the rendered text styles.
type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Body    lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Price   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds styles for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme:   theme,
		Title:   lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		Body:    lipgloss.NewStyle().Foreground(theme.Foreground),
		Bold:    lipgloss.NewStyle().Foreground(theme.Foreground).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Price:   lipgloss.NewStyle().Foreground(theme.Accent),
		Success: lipgloss.NewStyle().Foreground(Sage).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Gold),
		Error:   lipgloss.NewStyle().Foreground(Rose).Bold(true),
	}
}

// DefaultStyles uses the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
