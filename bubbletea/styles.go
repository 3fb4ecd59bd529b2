package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/parleyhq/parley"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg   lipgloss.Style
	Assistant lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Selected  lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t parley.Theme) Styles {
	return Styles{
		UserMsg:   lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(ansiColor(t.Assistant)),
		Error:     lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:     lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:    lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Reverse(true),
	}
}

func ansiColor(n int) lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(n))
}
