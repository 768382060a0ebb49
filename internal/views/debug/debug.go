// Package debug keeps a bounded log of session events and draws it as an
// overlay, toggled with F2. It mirrors what goes to the log file so a player
// can see why a connection failed without leaving the TUI.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/netpong/tui/internal/theme"
)

const maxEntries = 200

// Event kinds.
const (
	KindNet   = "net"
	KindErr   = "err"
	KindUI    = "ui"
	KindSound = "snd"
)

// Entry is one logged event.
type Entry struct {
	Time    time.Time
	Kind    string
	Message string
}

// Model is the event log. Offset counts lines scrolled up from the newest.
type Model struct {
	Entries []Entry
	Offset  int
}

func New() Model {
	return Model{}
}

// Add records an event now.
func (m *Model) Add(kind, message string) {
	m.AddAt(time.Now(), kind, message)
}

// AddAt records an event at a given time. The view snaps back to the newest
// entry and the oldest entries fall off past maxEntries.
func (m *Model) AddAt(at time.Time, kind, message string) {
	m.Entries = append(m.Entries, Entry{Time: at, Kind: kind, Message: message})
	if over := len(m.Entries) - maxEntries; over > 0 {
		m.Entries = m.Entries[over:]
	}
	m.Offset = 0
}

func (m *Model) ScrollUp(n int) {
	m.Offset = min(m.Offset+n, max(len(m.Entries)-1, 0))
}

func (m *Model) ScrollDown(n int) {
	m.Offset = max(m.Offset-n, 0)
}

// View draws the log in a double-bordered panel.
func (m Model) View(width, height int) string {
	inner := max(width-4, 20)
	rows := max(height-6, 3)

	panel := lipgloss.NewStyle().
		Width(inner).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)

	title := theme.StyleHeader.Render(" EVENT LOG ")
	hint := theme.StyleDimmed.Render(fmt.Sprintf("pgup/pgdn:scroll  f2:close  %d entries", len(m.Entries)))

	if len(m.Entries) == 0 {
		empty := theme.StyleDimmed.Render("  No events recorded yet.")
		return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", empty, "", hint))
	}

	end := max(len(m.Entries)-m.Offset, 0)
	start := max(end-rows, 0)
	msgWidth := max(inner-24, 10)

	lines := make([]string, 0, end-start)
	for _, e := range m.Entries[start:end] {
		ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
		kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(4).Render(e.Kind)
		lines = append(lines, ts+" "+kind+" "+ansi.Truncate(e.Message, msgWidth, "..."))
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), more, hint))
}

func kindColor(kind string) lipgloss.Color {
	switch kind {
	case KindNet:
		return theme.ColorInfo
	case KindErr:
		return theme.ColorDanger
	case KindUI:
		return theme.ColorAccent
	case KindSound:
		return theme.ColorWarning
	default:
		return theme.ColorDimmed
	}
}
