// Package menu renders the main menu.
package menu

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/netpong/tui/internal/theme"
)

// Item is a main menu entry.
type Item int

const (
	ItemPlay Item = iota
	ItemSettings
	ItemHelp
	ItemQuit
)

var labels = []string{"Play", "Settings", "Controls", "Quit"}

func (i Item) String() string {
	if int(i) < len(labels) {
		return labels[i]
	}
	return "?"
}

// Model holds the cursor position.
type Model struct {
	Selected Item
	Notice   string // one-line message from the last state change
}

// New creates a menu with Play selected.
func New() Model {
	return Model{}
}

// Next moves the cursor down, wrapping.
func (m *Model) Next() {
	m.Selected = (m.Selected + 1) % Item(len(labels))
}

// Prev moves the cursor up, wrapping.
func (m *Model) Prev() {
	m.Selected = (m.Selected - 1 + Item(len(labels))) % Item(len(labels))
}

// View renders the menu centered in width x height.
func (m Model) View(width, height int) string {
	title := theme.StyleTitle.Render("N E T P O N G")
	subtitle := theme.StyleDimmed.Render("Online game for two players")

	rows := []string{title, subtitle, ""}
	for i, label := range labels {
		style := theme.StyleButton
		if Item(i) == m.Selected {
			style = theme.StyleButtonActive
		}
		rows = append(rows, style.Render(label))
	}
	if m.Notice != "" {
		rows = append(rows, "", theme.StyleNotice.Render(m.Notice))
	}

	body := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
