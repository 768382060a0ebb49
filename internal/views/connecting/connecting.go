// Package connecting renders the "waiting for the server" screen.
package connecting

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/netpong/tui/internal/theme"
)

// Model holds the screen state.
type Model struct {
	Spinner  spinner.Model
	Addr     string
	Attempts int
	LastErr  string
}

// New creates the screen.
func New() Model {
	return Model{
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ColorAccent)),
		),
	}
}

// Reset clears the attempt counter for a new connection run.
func (m *Model) Reset(addr string) {
	m.Addr = addr
	m.Attempts = 0
	m.LastErr = ""
}

// View renders the screen.
func (m Model) View(width, height int) string {
	rows := []string{
		theme.StyleTitle.Render(m.Spinner.View() + " Connecting..."),
		"",
		lipgloss.NewStyle().Foreground(theme.ColorButtonText).Render("Waiting for a connection to " + m.Addr),
		theme.StyleDimmed.Render("Make sure the server is running"),
	}
	if m.Attempts > 0 {
		rows = append(rows, "", theme.StyleDimmed.Render(fmt.Sprintf("attempt %d", m.Attempts)))
	}
	if m.LastErr != "" {
		rows = append(rows, theme.StyleError.Render(m.LastErr))
	}
	rows = append(rows, "", theme.StyleButtonActive.Render("Back (esc)"))

	body := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
