// Package ui renders result lists for the terminal using the configured theme.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ayusman/tuicher/internal/config"
)

// Styles contains the style definitions derived from a theme.
type Styles struct {
	Index     lipgloss.Style
	Text      lipgloss.Style
	Secondary lipgloss.Style
	Badge     lipgloss.Style
	Selected  lipgloss.Style
	Disabled  lipgloss.Style
	Dim       lipgloss.Style
	Warning   lipgloss.Style
	Frame     lipgloss.Style
}

// NewStyles builds styles from the theme colors.
func NewStyles(t config.Theme) *Styles {
	return &Styles{
		Index:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.TextTertiary)).Width(4).Align(lipgloss.Right),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color(t.TextSecondary)).Faint(true),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.OnText)).
			Background(lipgloss.Color(t.TextTertiary)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Background(lipgloss.Color(t.Tertiary)).
			Bold(true),
		Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Disabled)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.TextTertiary)).Italic(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)).Bold(true),
		Frame: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Secondary)).
			Padding(0, 1),
	}
}
