package status

import (
	"strings"
	"testing"
)

func TestViewDisconnected(t *testing.T) {
	m := New()
	m.State = "MENU"
	m.Addr = "localhost:8080"
	v := m.View()
	if !strings.Contains(v, "MENU") || !strings.Contains(v, "localhost:8080") {
		t.Errorf("view missing state or addr:\n%s", v)
	}
	if strings.Contains(v, "player") {
		t.Error("player id should be hidden while disconnected")
	}
}

func TestViewConnected(t *testing.T) {
	m := New()
	m.State = "PLAYING"
	m.Connected = true
	m.PlayerID = 1
	m.Sound = true
	m.SetStats(120, 2)
	m.Width = 100
	v := m.View()
	for _, want := range []string{"player 1 (right)", "120 frames", "2 bad", "♪ on"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}
