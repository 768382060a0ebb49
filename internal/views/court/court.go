// Package court draws the playing field. Positions arrive in server
// coordinates at the snapshot rate and are eased toward with a critically
// damped spring so motion stays smooth on a coarse terminal grid.
package court

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/netpong/tui/internal/protocol"
	"github.com/netpong/tui/internal/theme"
)

// Server field geometry.
const (
	FieldWidth   = 800.0
	FieldHeight  = 600.0
	PaddleHeight = 100.0
	PaddleInset  = 20.0
	PaddleWidth  = 20.0
)

const (
	idxPaddle0 = iota
	idxPaddle1
	idxBallX
	idxBallY
	numAxes
)

// Model holds eased positions for the paddles and ball.
type Model struct {
	spring harmonica.Spring
	pos    [numAxes]float64
	vel    [numAxes]float64
	target [numAxes]float64
	primed bool
	scores [2]int
}

// New creates a court animated at fps frames per second.
func New(fps int) Model {
	return Model{spring: harmonica.NewSpring(harmonica.FPS(fps), 18.0, 1.0)}
}

// Reset forgets positions; the next snapshot is drawn without easing.
func (m *Model) Reset() {
	m.pos = [numAxes]float64{}
	m.vel = [numAxes]float64{}
	m.target = [numAxes]float64{}
	m.scores = [2]int{}
	m.primed = false
}

// SetTarget records the latest active snapshot.
func (m *Model) SetTarget(a protocol.Active) {
	m.target = [numAxes]float64{a.Paddles[0], a.Paddles[1], a.Ball.X, a.Ball.Y}
	m.scores = a.Scores
	if !m.primed {
		m.pos = m.target
		m.primed = true
	}
}

// Step advances the easing by one frame.
func (m *Model) Step() {
	if !m.primed {
		return
	}
	for i := range m.pos {
		m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], m.target[i])
	}
}

// Positions returns the eased paddle tops and ball centre.
func (m Model) Positions() (paddles [2]float64, ball protocol.Ball) {
	return [2]float64{m.pos[idxPaddle0], m.pos[idxPaddle1]}, protocol.Ball{X: m.pos[idxBallX], Y: m.pos[idxBallY]}
}

// View draws the field in width x height cells. self is the local slot.
func (m Model) View(width, height, self int) string {
	cols := max(width-2, 20)
	rows := max(height-4, 8)

	toCol := func(x float64) int { return clamp(int(x/FieldWidth*float64(cols)), 0, cols-1) }
	toRow := func(y float64) int { return clamp(int(y/FieldHeight*float64(rows)), 0, rows-1) }

	paddles, ball := m.Positions()
	leftCol := toCol(PaddleInset)
	rightCol := toCol(FieldWidth - PaddleInset - PaddleWidth)
	ballCol, ballRow := toCol(ball.X), toRow(ball.Y)
	netCol := cols / 2

	paddleRows := func(top float64) (int, int) {
		return toRow(top), toRow(top + PaddleHeight - 1)
	}
	l0, l1 := paddleRows(paddles[0])
	r0, r1 := paddleRows(paddles[1])

	leftStyle := lipgloss.NewStyle().Foreground(theme.PaddleColor(0))
	rightStyle := lipgloss.NewStyle().Foreground(theme.PaddleColor(1))
	ballStyle := lipgloss.NewStyle().Foreground(theme.ColorBall).Bold(true)
	netStyle := lipgloss.NewStyle().Foreground(theme.ColorNet)

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			switch {
			case r == ballRow && c == ballCol:
				b.WriteString(ballStyle.Render("●"))
			case c == leftCol && r >= l0 && r <= l1:
				b.WriteString(leftStyle.Render("█"))
			case c == rightCol && r >= r0 && r <= r1:
				b.WriteString(rightStyle.Render("█"))
			case c == netCol && r%2 == 0:
				b.WriteString(netStyle.Render("┆"))
			default:
				b.WriteByte(' ')
			}
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}

	score := lipgloss.NewStyle().Foreground(theme.ColorScore).Bold(true).
		Render(fmt.Sprintf("%d : %d", m.scores[0], m.scores[1]))
	side := theme.StyleDimmed.Render("you play " + theme.SideName(self))
	header := lipgloss.PlaceHorizontal(cols, lipgloss.Center, score+"   "+side)

	field := theme.StyleBorder.Render(b.String())
	return lipgloss.JoinVertical(lipgloss.Left, header, field)
}

// Countdown renders the pre-match countdown.
func Countdown(n, width, height int) string {
	num := lipgloss.NewStyle().Foreground(theme.ColorCountdown).Bold(true).Padding(1, 4).
		BorderStyle(lipgloss.ThickBorder()).BorderForeground(theme.ColorCountdown).
		Render(fmt.Sprintf("%d", n))
	body := lipgloss.JoinVertical(lipgloss.Center, num, "", theme.StyleDimmed.Render("get ready"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// Waiting renders the screen shown before the first snapshot arrives.
func Waiting(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.StyleHeader.Render("Waiting for players..."))
}

// EndScreen renders the result of a match.
func EndScreen(title, detail string, width, height int) string {
	t := lipgloss.NewStyle().Foreground(theme.ColorWin).Bold(true).Render(title)
	rows := []string{t}
	if detail != "" {
		rows = append(rows, theme.StyleDimmed.Render(detail))
	}
	rows = append(rows, "", theme.StyleButtonActive.Render("Main menu (enter)"))
	body := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
