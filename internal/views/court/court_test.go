package court

import (
	"math"
	"strings"
	"testing"

	"github.com/netpong/tui/internal/protocol"
)

func TestFirstTargetIsNotEased(t *testing.T) {
	m := New(60)
	a := protocol.Active{Paddles: [2]float64{100, 300}, Ball: protocol.Ball{X: 400, Y: 250}}
	m.SetTarget(a)

	paddles, ball := m.Positions()
	if paddles != a.Paddles || ball != a.Ball {
		t.Errorf("Positions() = %v %v, want %v %v", paddles, ball, a.Paddles, a.Ball)
	}
}

func TestStepConvergesOnTarget(t *testing.T) {
	m := New(60)
	m.SetTarget(protocol.Active{})
	m.SetTarget(protocol.Active{Paddles: [2]float64{500, 0}, Ball: protocol.Ball{X: 800, Y: 600}})

	paddles, _ := m.Positions()
	if paddles[0] != 0 {
		t.Fatalf("position jumped before Step: %v", paddles)
	}

	m.Step()
	paddles, _ = m.Positions()
	if paddles[0] <= 0 || paddles[0] >= 500 {
		t.Errorf("after one step paddle = %v, want between 0 and 500", paddles[0])
	}

	for i := 0; i < 120; i++ {
		m.Step()
	}
	paddles, ball := m.Positions()
	if math.Abs(paddles[0]-500) > 1 || math.Abs(ball.X-800) > 1 {
		t.Errorf("after 2s positions = %v %v, want ~target", paddles, ball)
	}
}

func TestResetForgetsPositions(t *testing.T) {
	m := New(60)
	m.SetTarget(protocol.Active{Paddles: [2]float64{200, 200}})
	m.Reset()
	m.SetTarget(protocol.Active{Paddles: [2]float64{10, 20}})
	paddles, _ := m.Positions()
	if paddles != [2]float64{10, 20} {
		t.Errorf("Positions() after Reset = %v, want snap to new target", paddles)
	}
}

func TestViewShowsScoreAndBall(t *testing.T) {
	m := New(60)
	m.SetTarget(protocol.Active{Paddles: [2]float64{250, 250}, Ball: protocol.Ball{X: 400, Y: 300}, Scores: [2]int{3, 7}})
	v := m.View(82, 28, 1)
	if !strings.Contains(v, "3 : 7") {
		t.Error("view should contain the score")
	}
	if !strings.Contains(v, "●") {
		t.Error("view should draw the ball")
	}
	if !strings.Contains(v, "you play right") {
		t.Error("view should name the local side")
	}
}

func TestScreens(t *testing.T) {
	if !strings.Contains(Countdown(3, 40, 12), "3") {
		t.Error("countdown should show the number")
	}
	if !strings.Contains(Waiting(40, 12), "Waiting for players") {
		t.Error("waiting screen text missing")
	}
	if !strings.Contains(EndScreen("You won!", "", 40, 12), "You won!") {
		t.Error("end screen text missing")
	}
}
