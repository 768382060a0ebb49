// Package sound plays the client's one-shot effects. Real audio output is
// left to the host; the terminal backend rings the bell.
package sound

import (
	"io"
	"sync"

	"github.com/netpong/tui/internal/protocol"
)

// Effect is a sound the client can play.
type Effect int

const (
	EffectWallHit Effect = iota + 1
	EffectPaddleHit
	EffectWin
	EffectLose
	EffectClick
)

func (e Effect) String() string {
	switch e {
	case EffectWallHit:
		return "wall_hit"
	case EffectPaddleHit:
		return "paddle_hit"
	case EffectWin:
		return "win"
	case EffectLose:
		return "lose"
	case EffectClick:
		return "click"
	default:
		return "unknown"
	}
}

// ForEvent maps a server sound event to an effect.
func ForEvent(ev protocol.SoundEvent) (Effect, bool) {
	switch ev {
	case protocol.SoundWallHit:
		return EffectWallHit, true
	case protocol.SoundPaddleHit:
		return EffectPaddleHit, true
	default:
		return 0, false
	}
}

// Player plays effects. Implementations must not block.
type Player interface {
	Play(e Effect)
}

// Nop discards every effect.
type Nop struct{}

func (Nop) Play(Effect) {}

// Bell rings the terminal bell for the effects worth hearing.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell writes BEL characters to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play(e Effect) {
	switch e {
	case EffectPaddleHit, EffectWin, EffectLose:
	default:
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.w.Write([]byte{'\a'})
}

// Toggle gates a Player behind an on/off switch.
type Toggle struct {
	Player  Player
	Enabled func() bool
}

func (t Toggle) Play(e Effect) {
	if t.Player == nil || (t.Enabled != nil && !t.Enabled()) {
		return
	}
	t.Player.Play(e)
}
