package settings

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/netpong/tui/internal/config"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func clearField(m Model) Model {
	for i := 0; i < 64; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	return m
}

func TestApplyCopiesIntoConfig(t *testing.T) {
	cfg := config.Default()
	m := New(cfg)

	m = typeText(clearField(m), "192.168.1.20")
	m.Next()
	m = typeText(clearField(m), "9090")
	m.Next()
	m.Next()
	if m.Focused() != FieldSound {
		t.Fatalf("focus = %v, want sound row", m.Focused())
	}
	m.ToggleSound()

	if err := m.Apply(cfg); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if cfg.Server.Host != "192.168.1.20" || cfg.Server.Port != 9090 {
		t.Errorf("config addr = %s, want 192.168.1.20:9090", cfg.Addr())
	}
	if cfg.Sound.Enabled {
		t.Error("sound should be off after toggle + apply")
	}
	if cfg.Player.Name != "Player" {
		t.Errorf("Player.Name = %q, want unchanged", cfg.Player.Name)
	}
}

func TestApplyRejectsBadPort(t *testing.T) {
	cfg := config.Default()
	m := New(cfg)
	m.Next()
	m = typeText(clearField(m), "99999")

	if err := m.Apply(cfg); err == nil {
		t.Fatal("Apply() should reject port 99999")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("config changed on failed apply: port %d", cfg.Server.Port)
	}
	if !strings.Contains(m.View(80, 24), "not a valid port") {
		t.Error("view should show the validation error")
	}
}

func TestLoadDiscardsEdits(t *testing.T) {
	cfg := config.Default()
	m := New(cfg)
	m = typeText(clearField(m), "elsewhere")
	m.ToggleSound()

	m.Load(cfg)
	if err := m.Apply(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "localhost" || !cfg.Sound.Enabled {
		t.Errorf("edits survived Load: %+v", cfg.Server)
	}
}

func TestFocusWraps(t *testing.T) {
	m := New(config.Default())
	m.Prev()
	if m.Focused() != FieldSound {
		t.Errorf("Prev from first row = %v, want sound row", m.Focused())
	}
	m.Next()
	if m.Focused() != FieldHost {
		t.Errorf("Next from last row = %v, want host row", m.Focused())
	}
}
