package debug

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/netpong/tui/internal/theme"
)

// retries logs n refused connect attempts, numbered from 1.
func retries(m *Model, n int) {
	for i := 1; i <= n; i++ {
		m.Add(KindErr, fmt.Sprintf("attempt %03d: connection refused", i))
	}
}

func TestLogDropsOldestAttempts(t *testing.T) {
	m := New()
	retries(&m, maxEntries+30)

	if len(m.Entries) != maxEntries {
		t.Fatalf("len(Entries) = %d, want %d", len(m.Entries), maxEntries)
	}
	if got := m.Entries[0].Message; !strings.HasPrefix(got, "attempt 031") {
		t.Errorf("oldest entry = %q, want attempt 031", got)
	}
	if got := m.Entries[len(m.Entries)-1].Message; !strings.HasPrefix(got, "attempt 230") {
		t.Errorf("newest entry = %q, want attempt 230", got)
	}
}

func TestScroll(t *testing.T) {
	tests := []struct {
		name    string
		entries int
		up      int
		down    int
		want    int
	}{
		{"up", 20, 5, 0, 5},
		{"up then down", 20, 5, 3, 2},
		{"down past newest", 20, 5, 10, 0},
		{"up past oldest", 5, 100, 0, 4},
		{"empty log", 0, 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			retries(&m, tt.entries)
			m.ScrollUp(tt.up)
			m.ScrollDown(tt.down)
			if m.Offset != tt.want {
				t.Errorf("Offset = %d, want %d", m.Offset, tt.want)
			}
		})
	}
}

func TestViewWindowFollowsOffset(t *testing.T) {
	m := New()
	retries(&m, 30)

	// height 12 leaves six rows.
	v := m.View(80, 12)
	if !strings.Contains(v, "attempt 030") || !strings.Contains(v, "attempt 025") {
		t.Errorf("view should end at the newest attempts:\n%s", v)
	}
	if strings.Contains(v, "attempt 024") || strings.Contains(v, "more") {
		t.Errorf("view at the bottom should not show older rows:\n%s", v)
	}

	m.ScrollUp(10)
	v = m.View(80, 12)
	if !strings.Contains(v, "attempt 020") || strings.Contains(v, "attempt 021") {
		t.Errorf("scrolled view should end at attempt 020:\n%s", v)
	}
	if !strings.Contains(v, "10 more") {
		t.Errorf("scrolled view should count hidden rows:\n%s", v)
	}
}

func TestSoundEventSnapsToNewest(t *testing.T) {
	m := New()
	retries(&m, 10)
	m.Add(KindNet, "connected to 127.0.0.1:5000 as player 0")
	m.ScrollUp(6)

	m.Add(KindSound, "paddle_hit")
	if m.Offset != 0 {
		t.Errorf("Offset = %d after a new event, want 0", m.Offset)
	}
	last := m.Entries[len(m.Entries)-1]
	if last.Kind != KindSound || last.Message != "paddle_hit" {
		t.Errorf("last entry = %+v, want the paddle_hit sound", last)
	}
	if !strings.Contains(m.View(80, 20), "paddle_hit") {
		t.Error("view should show the sound event")
	}
}

func TestViewEmpty(t *testing.T) {
	m := New()
	if v := m.View(80, 20); !strings.Contains(v, "No events") {
		t.Errorf("empty log view = %q", v)
	}
}

func TestKindColor(t *testing.T) {
	tests := []struct {
		kind string
		want lipgloss.Color
	}{
		{KindNet, theme.ColorInfo},
		{KindErr, theme.ColorDanger},
		{KindUI, theme.ColorAccent},
		{KindSound, theme.ColorWarning},
		{"other", theme.ColorDimmed},
	}
	for _, tt := range tests {
		if got := kindColor(tt.kind); got != tt.want {
			t.Errorf("kindColor(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestAddAtKeepsTimestamp(t *testing.T) {
	m := New()
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	m.AddAt(at, KindSound, "wall_hit")
	if !m.Entries[0].Time.Equal(at) {
		t.Errorf("Time = %v, want %v", m.Entries[0].Time, at)
	}
	if !strings.Contains(m.View(80, 20), "12:30:00.000") {
		t.Error("view should format the entry timestamp")
	}
}

func TestViewTruncatesLongMessages(t *testing.T) {
	m := New()
	m.Add(KindErr, strings.Repeat("é", 300))
	v := m.View(60, 20)
	if !strings.Contains(v, "...") {
		t.Error("long message should be truncated with an ellipsis")
	}
	if strings.Contains(v, strings.Repeat("é", 100)) {
		t.Error("message should be cut to the panel width")
	}
}
