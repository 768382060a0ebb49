package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/netpong/tui/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	State        string
	Addr         string
	Connected    bool
	PlayerID     int
	Frames       uint64
	DecodeErrors uint64
	Sound        bool
	Width        int
}

// New creates a status bar model.
func New() Model {
	return Model{PlayerID: -1}
}

// SetStats updates the receive counters.
func (m *Model) SetStats(frames, decodeErrors uint64) {
	m.Frames = frames
	m.DecodeErrors = decodeErrors
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if m.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● " + m.Addr)
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDimmed).Render("○ " + m.Addr)
	}

	parts := []string{
		theme.StyleHeader.Render(m.State),
		connStr,
	}
	if m.Connected && m.PlayerID >= 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.PaddleColor(m.PlayerID)).
			Render(fmt.Sprintf("player %d (%s)", m.PlayerID, theme.SideName(m.PlayerID))))
		counts := fmt.Sprintf("%d frames", m.Frames)
		if m.DecodeErrors > 0 {
			counts += lipgloss.NewStyle().Foreground(theme.ColorWarning).
				Render(fmt.Sprintf("  %d bad", m.DecodeErrors))
		}
		parts = append(parts, counts)
	}
	if m.Sound {
		parts = append(parts, "♪ on")
	} else {
		parts = append(parts, theme.StyleDimmed.Render("♪ off"))
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := parts[0]
	for _, p := range parts[1:] {
		content += sep + p
	}

	bar := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)

	return bar
}
