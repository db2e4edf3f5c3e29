// Package ui provides the bubbletea pages and styling for clinicterm.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, same in both modes.
var (
	colorDestructive = lipgloss.Color("#e53935")
	colorSuccess     = lipgloss.Color("#43a047")
	colorWarning     = lipgloss.Color("#FFC107")
	colorInfo        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#1b2733"),
		Primary:    lipgloss.Color("#00695c"),
		Accent:     lipgloss.Color("#00897b"),
		Muted:      lipgloss.Color("#8a959e"),
		Border:     lipgloss.Color("#d0d7de"),
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#e6edf3"),
		Primary:    lipgloss.Color("#4db6ac"),
		Accent:     lipgloss.Color("#80cbc4"),
		Muted:      lipgloss.Color("#6e7781"),
		Border:     lipgloss.Color("#30363d"),
		IsDark:     true,
	}
}

// ResolveTheme maps the config theme name to a Theme. "auto" (or anything
// unknown) falls back to terminal detection.
func ResolveTheme(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses light/dark from COLORFGBG, defaulting to dark.
func DetectTheme() Theme {
	if fgbg := os.Getenv("COLORFGBG"); fgbg != "" {
		parts := strings.Split(fgbg, ";")
		if len(parts) >= 2 {
			if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil && bg >= 7 && bg != 8 {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// Styles holds the styled components shared by all pages.
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FieldLabel   lipgloss.Style
	FieldFocused lipgloss.Style
	Dialog       lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorDestructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colorWarning),

		Info: lipgloss.NewStyle().
			Foreground(colorInfo),

		FieldLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Width(14),

		FieldFocused: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 2),
	}
}

// DefaultStyles returns styles with the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
