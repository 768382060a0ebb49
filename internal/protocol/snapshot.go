// Package protocol defines the netpong wire format: the newline-delimited
// JSON snapshots the server streams to each player and the raw commands the
// client sends back. Types mirror the server protocol without importing it.
package protocol

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Phase identifies which variant a Snapshot carries.
type Phase int

const (
	PhaseCountdown Phase = iota + 1
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// WinnerDisconnected is the reserved winner value meaning the match ended
// because the connection was lost, not because somebody won.
const WinnerDisconnected = -1

// Snapshot is one complete description of the game at an instant. Exactly one
// of Countdown, Active or Finished implements it.
type Snapshot interface {
	Phase() Phase
	sealed()
}

// Countdown is sent while the match is about to start.
type Countdown struct {
	Remaining int
}

// Ball is the ball centre in server coordinates.
type Ball struct {
	X float64
	Y float64
}

// SoundEvent names a one-shot effect the server wants played.
type SoundEvent string

const (
	SoundNone      SoundEvent = ""
	SoundWallHit   SoundEvent = "wall_hit"
	SoundPaddleHit SoundEvent = "platform_hit"
)

// Active is a running match.
type Active struct {
	Paddles [2]float64 // top edge of each player's paddle, indexed by slot
	Ball    Ball
	Scores  [2]int
	Sound   SoundEvent
}

// Finished ends the match. Winner is a player slot or WinnerDisconnected.
type Finished struct {
	Winner int
}

// Disconnected reports whether the match ended through connection loss.
func (f Finished) Disconnected() bool { return f.Winner == WinnerDisconnected }

func (Countdown) Phase() Phase { return PhaseCountdown }
func (Active) Phase() Phase    { return PhaseActive }
func (Finished) Phase() Phase  { return PhaseFinished }

func (Countdown) sealed() {}
func (Active) sealed()    {}
func (Finished) sealed()  {}

// wireRecord is the JSON object as sent by the server. Pointers distinguish
// absent fields from zero values.
type wireRecord struct {
	Countdown  *int               `json:"countdown"`
	Winner     *int               `json:"winner"`
	Paddles    map[string]float64 `json:"paddles"`
	Ball       *wireBall          `json:"ball"`
	Scores     []int              `json:"scores"`
	SoundEvent *string            `json:"sound_event"`
}

type wireBall struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecodeError reports a record that could not be turned into a Snapshot.
type DecodeError struct {
	Record string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	rec := e.Record
	if len(rec) > 64 {
		rec = rec[:61] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("decode %q: %s: %v", rec, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %q: %s", rec, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseSnapshot decodes a single record (without its delimiter).
//
// A positive countdown wins over everything else, then a non-null winner.
// Otherwise the record is Active if it carries any match field; fields it
// omits keep their zero value. A record with none of these is rejected.
func ParseSnapshot(record []byte) (Snapshot, error) {
	var w wireRecord
	if err := json.Unmarshal(record, &w); err != nil {
		return nil, &DecodeError{Record: string(record), Reason: "invalid json", Err: err}
	}
	fail := func(reason string) (Snapshot, error) {
		return nil, &DecodeError{Record: string(record), Reason: reason}
	}

	if w.Countdown != nil && *w.Countdown > 0 {
		return Countdown{Remaining: *w.Countdown}, nil
	}

	if w.Winner != nil {
		switch *w.Winner {
		case 0, 1, WinnerDisconnected:
			return Finished{Winner: *w.Winner}, nil
		default:
			return fail(fmt.Sprintf("winner %d out of range", *w.Winner))
		}
	}

	if w.Paddles == nil && w.Ball == nil && w.Scores == nil && w.SoundEvent == nil {
		return fail("no phase fields")
	}

	var a Active
	for k, y := range w.Paddles {
		switch k {
		case "0":
			a.Paddles[0] = y
		case "1":
			a.Paddles[1] = y
		default:
			return fail(fmt.Sprintf("unknown paddle slot %q", k))
		}
	}
	if w.Ball != nil {
		a.Ball = Ball{X: w.Ball.X, Y: w.Ball.Y}
	}
	if w.Scores != nil {
		if len(w.Scores) != 2 {
			return fail(fmt.Sprintf("scores has %d entries", len(w.Scores)))
		}
		a.Scores = [2]int{w.Scores[0], w.Scores[1]}
	}
	if w.SoundEvent != nil {
		a.Sound = parseSound(*w.SoundEvent)
	}
	return a, nil
}

func parseSound(s string) SoundEvent {
	switch s {
	case string(SoundWallHit):
		return SoundWallHit
	case string(SoundPaddleHit), "paddle_hit":
		return SoundPaddleHit
	default:
		return SoundNone
	}
}
