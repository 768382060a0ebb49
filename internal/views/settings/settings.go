// Package settings renders and edits the connection settings. Edits are held
// in the form until Apply copies them into the live config.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/netpong/tui/internal/config"
	"github.com/netpong/tui/internal/theme"
)

// Field indexes the form rows.
type Field int

const (
	FieldHost Field = iota
	FieldPort
	FieldName
	FieldSound
	fieldCount
)

// Model is the settings form.
type Model struct {
	inputs [3]textinput.Model
	sound  bool
	focus  Field
	Err    string
}

// New creates a form populated from cfg.
func New(cfg *config.Config) Model {
	var m Model
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 64
		ti.Width = 24
		m.inputs[i] = ti
	}
	m.inputs[FieldPort].CharLimit = 5
	m.Load(cfg)
	return m
}

// Load discards edits and copies cfg into the form.
func (m *Model) Load(cfg *config.Config) {
	m.inputs[FieldHost].SetValue(cfg.Server.Host)
	m.inputs[FieldPort].SetValue(strconv.Itoa(cfg.Server.Port))
	m.inputs[FieldName].SetValue(cfg.Player.Name)
	m.sound = cfg.Sound.Enabled
	m.Err = ""
	m.setFocus(FieldHost)
}

// Focused returns the row with the cursor.
func (m Model) Focused() Field { return m.focus }

// Sound returns the sound toggle as edited.
func (m Model) Sound() bool { return m.sound }

// Next moves focus down a row.
func (m *Model) Next() { m.setFocus((m.focus + 1) % fieldCount) }

// Prev moves focus up a row.
func (m *Model) Prev() { m.setFocus((m.focus - 1 + fieldCount) % fieldCount) }

// ToggleSound flips the sound switch.
func (m *Model) ToggleSound() { m.sound = !m.sound }

func (m *Model) setFocus(f Field) {
	m.focus = f
	for i := range m.inputs {
		if Field(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// Update forwards key input to the focused text field.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.focus >= FieldSound {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// Apply validates the form and copies it into cfg. cfg is untouched on error.
func (m *Model) Apply(cfg *config.Config) error {
	host := strings.TrimSpace(m.inputs[FieldHost].Value())
	if host == "" {
		return m.fail(errors.New("server address is empty"))
	}
	port, err := strconv.Atoi(strings.TrimSpace(m.inputs[FieldPort].Value()))
	if err != nil || port < 1 || port > 65535 {
		return m.fail(fmt.Errorf("port %q is not a valid port", m.inputs[FieldPort].Value()))
	}
	name := strings.TrimSpace(m.inputs[FieldName].Value())
	if name == "" {
		name = cfg.Player.Name
	}

	cfg.Server.Host = host
	cfg.Server.Port = port
	cfg.Player.Name = name
	cfg.Sound.Enabled = m.sound
	m.Err = ""
	return nil
}

func (m *Model) fail(err error) error {
	m.Err = err.Error()
	return err
}

// View renders the form.
func (m Model) View(width, height int) string {
	label := lipgloss.NewStyle().Width(14).Foreground(theme.ColorBright)
	row := func(f Field, name, value string) string {
		cursor := "  "
		if f == m.focus {
			cursor = theme.StyleSelected.Render("> ")
		}
		return cursor + label.Render(name) + value
	}

	soundText := lipgloss.NewStyle().Foreground(theme.ColorValue).Render("On")
	if !m.sound {
		soundText = lipgloss.NewStyle().Foreground(theme.ColorValueOff).Render("Off")
	}

	rows := []string{
		theme.StyleTitle.Render("SETTINGS"),
		"",
		row(FieldHost, "Server", m.inputs[FieldHost].View()),
		row(FieldPort, "Port", m.inputs[FieldPort].View()),
		row(FieldName, "Player name", m.inputs[FieldName].View()),
		row(FieldSound, "Sound", soundText),
		"",
		theme.StyleDimmed.Render("enter: apply   esc: back   space: toggle sound"),
	}
	if m.Err != "" {
		rows = append(rows, "", theme.StyleError.Render(m.Err))
	}

	body := theme.StyleBorder.Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
