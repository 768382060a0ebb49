// Package app is the root Bubble Tea model: the menu, settings, connecting and
// playing states and the fixed-rate tick that drives the network session.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/netpong/tui/internal/client"
	"github.com/netpong/tui/internal/config"
	"github.com/netpong/tui/internal/logging"
	"github.com/netpong/tui/internal/metrics"
	"github.com/netpong/tui/internal/protocol"
	"github.com/netpong/tui/internal/sound"
	"github.com/netpong/tui/internal/theme"
	"github.com/netpong/tui/internal/views/connecting"
	"github.com/netpong/tui/internal/views/court"
	"github.com/netpong/tui/internal/views/debug"
	"github.com/netpong/tui/internal/views/helpview"
	"github.com/netpong/tui/internal/views/menu"
	"github.com/netpong/tui/internal/views/settings"
	"github.com/netpong/tui/internal/views/status"
)

// State is a top-level screen.
type State int

const (
	StateMenu State = iota
	StateSettings
	StateConnecting
	StatePlaying
	StateHelp
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "MENU"
	case StateSettings:
		return "SETTINGS"
	case StateConnecting:
		return "CONNECTING"
	case StatePlaying:
		return "PLAYING"
	case StateHelp:
		return "CONTROLS"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the local player's result, fixed the first time a Finished
// snapshot is seen.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

// Connector opens game sessions. *client.Manager implements it.
type Connector interface {
	Connect(ctx context.Context, host string, port int) (*client.Session, error)
}

// Options wires the model's collaborators.
type Options struct {
	Config    *config.Config
	Connector Connector
	Sound     sound.Player
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

type tickMsg time.Time

type connectResultMsg struct {
	gen     uint64
	session *client.Session
	err     error
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	conn    Connector
	sound   sound.Player
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc

	keys   KeyMap
	help   help.Model
	width  int
	height int
	state  State

	// Connecting.
	gen           uint64
	inFlight      bool
	pacer         client.Pacer
	attemptCtx    context.Context
	attemptCancel context.CancelFunc

	// Playing.
	session   *client.Session
	sender    *client.InputSender
	lastSeq   uint64
	snap      protocol.Snapshot
	outcome   Outcome
	upUntil   time.Time
	downUntil time.Time

	// Sub-views.
	menu       menu.Model
	settings   settings.Model
	connecting connecting.Model
	court      court.Model
	helpPage   *helpview.Model
	statusBar  status.Model
	debug      *debug.Model
	showDebug  bool
}

// New creates the root model in the Menu state.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	var player sound.Player = sound.Nop{}
	if opts.Sound != nil {
		player = sound.Toggle{Player: opts.Sound, Enabled: func() bool { return cfg.Sound.Enabled }}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	hp := helpview.New()
	dbg := debug.New()
	return Model{
		cfg:        cfg,
		conn:       opts.Connector,
		sound:      player,
		log:        logging.OrNop(opts.Logger),
		metrics:    opts.Metrics,
		now:        now,
		ctx:        ctx,
		cancel:     cancel,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		menu:       menu.New(),
		settings:   settings.New(cfg),
		connecting: connecting.New(),
		court:      court.New(cfg.UI.TickRate),
		helpPage:   &hp,
		statusBar:  status.New(),
		debug:      &dbg,
	}
}

// State returns the current screen.
func (m Model) State() State { return m.state }

// Outcome returns the decided result of the current match, if any.
func (m Model) Outcome() Outcome { return m.outcome }

// Session returns the live session while Playing.
func (m Model) Session() *client.Session { return m.session }

// Init starts the render tick.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.statusBar.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		cmd := m.onTick(time.Time(msg))
		return m, tea.Batch(cmd, m.tickCmd())

	case connectResultMsg:
		m.onConnectResult(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state != StateConnecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.connecting.Spinner, cmd = m.connecting.Spinner.Update(msg)
		return m, cmd
	}

	if m.state == StateSettings {
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	}
	return m, nil
}

// onTick runs one fixed-rate step: a paced connect attempt while Connecting,
// snapshot observation and input while Playing.
func (m *Model) onTick(now time.Time) tea.Cmd {
	switch m.state {
	case StateConnecting:
		return m.tickConnecting()
	case StatePlaying:
		m.tickPlaying(now)
	}
	return nil
}

func (m *Model) tickConnecting() tea.Cmd {
	if m.inFlight {
		return nil
	}
	if m.pacer.Exhausted() {
		m.event(debug.KindNet, "giving up after %d attempts", m.pacer.Attempts())
		m.leaveConnecting(fmt.Sprintf("Could not reach %s after %d attempts", m.cfg.Addr(), m.pacer.Attempts()))
		return nil
	}
	if !m.pacer.Tick() {
		return nil
	}
	m.inFlight = true
	m.connecting.Attempts = m.pacer.Attempts()
	return m.connectCmd()
}

func (m *Model) connectCmd() tea.Cmd {
	var (
		gen  = m.gen
		ctx  = m.attemptCtx
		conn = m.conn
		host = m.cfg.Server.Host
		port = m.cfg.Server.Port
	)
	return func() tea.Msg {
		if conn == nil {
			return connectResultMsg{gen: gen, err: errors.New("no connector configured")}
		}
		s, err := conn.Connect(ctx, host, port)
		return connectResultMsg{gen: gen, session: s, err: err}
	}
}

func (m *Model) onConnectResult(msg connectResultMsg) {
	if msg.gen != m.gen || m.state != StateConnecting {
		if msg.session != nil {
			m.event(debug.KindNet, "discarding stale connection to %s", msg.session.Addr())
			msg.session.Close()
		}
		return
	}
	m.inFlight = false
	if msg.err != nil {
		m.connecting.LastErr = msg.err.Error()
		m.event(debug.KindErr, "attempt %d: %v", m.pacer.Attempts(), msg.err)
		return
	}
	m.beginSession(msg.session)
}

// beginSession makes s the one live session and starts its receive loop.
func (m *Model) beginSession(s *client.Session) {
	m.teardown()
	m.stopAttempts()
	m.session = s
	m.sender = client.NewInputSender(s, m.log, m.metrics)
	m.lastSeq = 0
	m.snap = nil
	m.outcome = OutcomeNone
	m.upUntil, m.downUntil = time.Time{}, time.Time{}
	m.court.Reset()
	s.Start()
	m.state = StatePlaying
	m.log.Info("session started", zap.String("addr", s.Addr()), zap.Int("player", s.PlayerID()))
	m.event(debug.KindNet, "connected to %s as player %d", s.Addr(), s.PlayerID())
}

func (m *Model) tickPlaying(now time.Time) {
	if m.session == nil {
		return
	}
	m.court.Step()

	snap, seq, ok := m.session.Store().Read()
	if ok && seq != m.lastSeq {
		m.lastSeq = seq
		m.snap = snap
		m.observe(snap)
	}

	if _, active := m.snap.(protocol.Active); !active || m.sender == nil {
		return
	}
	keys := client.Keys{Up: now.Before(m.upUntil), Down: now.Before(m.downUntil)}
	if _, err := m.sender.Send(keys); err != nil {
		m.event(debug.KindErr, "%v", err)
		m.teardown()
		m.toMenu("Connection lost")
	}
}

// observe reacts to a snapshot the first time it is seen.
func (m *Model) observe(snap protocol.Snapshot) {
	switch s := snap.(type) {
	case protocol.Active:
		m.court.SetTarget(s)
		if fx, ok := sound.ForEvent(s.Sound); ok {
			m.sound.Play(fx)
			m.event(debug.KindSound, "%s", fx)
		}
	case protocol.Finished:
		if m.outcome != OutcomeNone {
			return
		}
		if s.Winner == m.session.PlayerID() {
			m.outcome = OutcomeWon
			m.sound.Play(sound.EffectWin)
		} else {
			m.outcome = OutcomeLost
			m.sound.Play(sound.EffectLose)
		}
		m.log.Info("match finished", zap.Int("winner", s.Winner), zap.Int("player", m.session.PlayerID()))
		m.event(debug.KindNet, "finished: winner %d", s.Winner)
	}
}

// startConnecting enters Connecting with a fresh retry schedule.
func (m *Model) startConnecting() tea.Cmd {
	m.teardown()
	m.stopAttempts()
	m.gen++
	m.inFlight = false
	m.pacer = client.NewPacer(m.cfg.Network.RetryEveryTicks, m.cfg.Network.MaxAttempts)
	m.attemptCtx, m.attemptCancel = context.WithCancel(m.ctx)
	m.connecting.Reset(m.cfg.Addr())
	m.menu.Notice = ""
	m.state = StateConnecting
	m.event(debug.KindUI, "connecting to %s", m.cfg.Addr())
	return m.connecting.Spinner.Tick
}

// leaveConnecting abandons the current attempt generation. A result still in
// flight is closed when it arrives.
func (m *Model) leaveConnecting(notice string) {
	m.stopAttempts()
	m.gen++
	m.inFlight = false
	m.toMenu(notice)
}

func (m *Model) stopAttempts() {
	if m.attemptCancel != nil {
		m.attemptCancel()
		m.attemptCtx, m.attemptCancel = nil, nil
	}
}

// teardown closes the live session and waits for its receive loop.
func (m *Model) teardown() {
	if m.session == nil {
		return
	}
	m.session.Close()
	m.log.Info("session closed", zap.String("addr", m.session.Addr()))
	m.session = nil
	m.sender = nil
	m.snap = nil
}

func (m *Model) toMenu(notice string) {
	m.state = StateMenu
	m.menu.Notice = notice
}

func (m *Model) event(kind, format string, args ...any) {
	m.debug.Add(kind, fmt.Sprintf(format, args...))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		return m.quit()
	case key.Matches(msg, m.keys.Debug):
		m.showDebug = !m.showDebug
		return m, nil
	case key.Matches(msg, m.keys.Sound) && m.state != StateSettings:
		m.cfg.Sound.Enabled = !m.cfg.Sound.Enabled
		m.event(debug.KindUI, "sound %v", m.cfg.Sound.Enabled)
		return m, nil
	}

	if m.showDebug {
		switch {
		case key.Matches(msg, m.keys.PgUp):
			m.debug.ScrollUp(5)
			return m, nil
		case key.Matches(msg, m.keys.PgDown):
			m.debug.ScrollDown(5)
			return m, nil
		}
	}

	switch m.state {
	case StateMenu:
		return m.handleMenuKey(msg)
	case StateSettings:
		return m.handleSettingsKey(msg)
	case StateConnecting:
		if key.Matches(msg, m.keys.Back) {
			m.event(debug.KindUI, "connect cancelled")
			m.leaveConnecting("")
		}
		return m, nil
	case StatePlaying:
		return m.handlePlayingKey(msg)
	case StateHelp:
		if key.Matches(msg, m.keys.Back, m.keys.Select, m.keys.Quit) {
			m.state = StateMenu
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.menu.Prev()
	case key.Matches(msg, m.keys.Down):
		m.menu.Next()
	case key.Matches(msg, m.keys.Select, m.keys.Toggle):
		m.sound.Play(sound.EffectClick)
		switch m.menu.Selected {
		case menu.ItemPlay:
			return m, m.startConnecting()
		case menu.ItemSettings:
			m.settings.Load(m.cfg)
			m.menu.Notice = ""
			m.state = StateSettings
		case menu.ItemHelp:
			m.state = StateHelp
		case menu.ItemQuit:
			return m.quit()
		}
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.settings.Load(m.cfg)
		m.state = StateMenu
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if err := m.settings.Apply(m.cfg); err != nil {
			m.event(debug.KindErr, "settings: %v", err)
			return m, nil
		}
		m.event(debug.KindUI, "settings applied: %s", m.cfg.Addr())
		m.state = StateMenu
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.settings.Next()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.settings.Prev()
		return m, nil
	case m.settings.Focused() == settings.FieldSound && key.Matches(msg, m.keys.Toggle, m.keys.Sound):
		m.settings.ToggleSound()
		return m, nil
	}
	var cmd tea.Cmd
	m.settings, cmd = m.settings.Update(msg)
	return m, cmd
}

func (m Model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, done := m.snap.(protocol.Finished); done {
		if key.Matches(msg, m.keys.Menu) {
			m.teardown()
			m.toMenu("")
		}
		return m, nil
	}

	now := m.now()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.event(debug.KindUI, "left the match")
		m.teardown()
		m.toMenu("")
	case key.Matches(msg, m.keys.Up):
		m.upUntil = now.Add(m.cfg.UI.KeyHold)
	case key.Matches(msg, m.keys.Down):
		m.downUntil = now.Add(m.cfg.UI.KeyHold)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.teardown()
	m.stopAttempts()
	m.cancel()
	return m, tea.Quit
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	sb := m.statusBar
	sb.State = m.state.String()
	sb.Addr = m.cfg.Addr()
	sb.Sound = m.cfg.Sound.Enabled
	if m.session != nil {
		sb.Connected = true
		sb.Addr = m.session.Addr()
		sb.PlayerID = m.session.PlayerID()
		sb.SetStats(m.session.Stats())
	}

	_, finished := m.snap.(protocol.Finished)
	foot := m.help.View(m.keys.footerFor(m.state, finished))

	bodyH := max(m.height-lipgloss.Height(sb.View())-lipgloss.Height(foot), 6)
	body := m.viewBody(bodyH)
	if m.showDebug {
		body = m.debug.View(m.width, bodyH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sb.View(), body, " "+foot)
}

func (m Model) viewBody(height int) string {
	switch m.state {
	case StateSettings:
		return m.settings.View(m.width, height)
	case StateConnecting:
		return m.connecting.View(m.width, height)
	case StatePlaying:
		return m.viewPlaying(height)
	case StateHelp:
		return m.helpPage.View(m.width, height)
	default:
		return m.menu.View(m.width, height)
	}
}

func (m Model) viewPlaying(height int) string {
	switch s := m.snap.(type) {
	case protocol.Countdown:
		return court.Countdown(s.Remaining, m.width, height)
	case protocol.Active:
		return m.court.View(m.width, height, m.session.PlayerID())
	case protocol.Finished:
		title := "You lost"
		if m.outcome == OutcomeWon {
			title = "You won!"
		}
		detail := ""
		if s.Disconnected() {
			detail = "connection lost"
		} else if m.outcome == OutcomeLost {
			detail = fmt.Sprintf("the %s player wins", theme.SideName(s.Winner))
		}
		return court.EndScreen(title, detail, m.width, height)
	default:
		return court.Waiting(m.width, height)
	}
}
