package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Menu   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Sound  key.Binding
	Debug  key.Binding
	PgUp   key.Binding
	PgDown key.Binding
	Quit   key.Binding
	Exit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up", "k"),
			key.WithHelp("w/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down", "j"),
			key.WithHelp("s/↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Menu: key.NewBinding(
			key.WithKeys("enter", "m", "esc"),
			key.WithHelp("enter", "main menu"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Sound: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "sound"),
		),
		Debug: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "event log"),
		),
		PgUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PgDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Exit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// footer is the per-state binding list shown by the help bar.
type footer []key.Binding

func (f footer) ShortHelp() []key.Binding  { return f }
func (f footer) FullHelp() [][]key.Binding { return [][]key.Binding{f} }

var _ help.KeyMap = footer(nil)

// footerFor returns the bindings worth advertising in state s.
func (k KeyMap) footerFor(s State, finished bool) footer {
	switch s {
	case StateMenu:
		return footer{k.Up, k.Down, k.Select, k.Sound, k.Quit}
	case StateSettings:
		return footer{k.Next, k.Toggle, withHelp(k.Select, "enter", "apply"), k.Back}
	case StateConnecting:
		return footer{withHelp(k.Back, "esc", "cancel"), k.Debug}
	case StatePlaying:
		if finished {
			return footer{k.Menu}
		}
		return footer{k.Up, k.Down, withHelp(k.Back, "esc", "leave"), k.Sound, k.Debug}
	default:
		return footer{k.Back}
	}
}

func withHelp(b key.Binding, keys, desc string) key.Binding {
	b.SetHelp(keys, desc)
	return b
}
