// Package client implements the netpong network layer: connecting to the
// game server, reading the snapshot stream on a background goroutine and
// writing paddle commands back.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/netpong/tui/internal/config"
	"github.com/netpong/tui/internal/logging"
	"github.com/netpong/tui/internal/metrics"
)

// handshakeSize is the fixed read the server's player id must fit in.
const handshakeSize = 24

// ConnectErrorKind classifies why a connection attempt failed.
type ConnectErrorKind int

const (
	Refused ConnectErrorKind = iota + 1
	Timeout
	HandshakeMalformed
)

func (k ConnectErrorKind) String() string {
	switch k {
	case Refused:
		return "refused"
	case Timeout:
		return "timeout"
	case HandshakeMalformed:
		return "handshake malformed"
	default:
		return "unknown"
	}
}

// ConnectError is returned by Connect. All kinds are retryable.
type ConnectError struct {
	Kind ConnectErrorKind
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %s: %v", e.Addr, e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Options configures a Manager.
type Options struct {
	Dial             DialFunc
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration // 0 disables the per-read deadline
	WriteTimeout     time.Duration
	MaxFrameBytes    int
	Logger           *zap.Logger
	Metrics          *metrics.Metrics
}

// Manager opens sessions against the game server.
type Manager struct {
	opts Options
	log  *zap.Logger
}

// NewManager creates a manager. A nil Dial uses plain TCP.
func NewManager(opts Options) *Manager {
	if opts.Dial == nil {
		opts.Dial = TCPDialer(time.Second)
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 2 * time.Second
	}
	return &Manager{opts: opts, log: logging.OrNop(opts.Logger)}
}

// NewManagerFromConfig selects the transport and timeouts from cfg.
func NewManagerFromConfig(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *Manager {
	dial := TCPDialer(cfg.Network.DialTimeout)
	if cfg.Server.Transport == config.TransportWS {
		dial = WSDialer(cfg.Server.WSPath, cfg.Network.DialTimeout)
	}
	return NewManager(Options{
		Dial:             dial,
		HandshakeTimeout: cfg.Network.HandshakeTimeout,
		ReadTimeout:      cfg.Network.ReadTimeout,
		WriteTimeout:     cfg.Network.WriteTimeout,
		MaxFrameBytes:    cfg.Network.MaxFrameBytes,
		Logger:           log,
		Metrics:          m,
	})
}

// Connect dials host:port and reads the player id the server assigns. The
// returned session has not been started.
func (m *Manager) Connect(ctx context.Context, host string, port int) (*Session, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := m.opts.Dial(ctx, addr)
	if err != nil {
		return nil, m.fail(addr, classify(err, Refused), err)
	}

	conn.SetReadDeadline(time.Now().Add(m.opts.HandshakeTimeout))
	buf := make([]byte, handshakeSize)
	n, err := conn.Read(buf)
	conn.SetReadDeadline(time.Time{})
	if n == 0 && err != nil {
		conn.Close()
		return nil, m.fail(addr, classify(err, Refused), fmt.Errorf("handshake read: %w", err))
	}

	id, rest, err := parseHandshake(buf[:n])
	if err != nil {
		conn.Close()
		return nil, m.fail(addr, HandshakeMalformed, err)
	}

	m.opts.Metrics.ConnectAttempt(metrics.ResultOK)
	m.log.Info("connected", zap.String("addr", addr), zap.Int("player", id))
	return newSession(conn, id, addr, m.opts, m.log, rest), nil
}

// ConnectBlocking retries Connect back to back until it succeeds or ctx is
// done. There is no backoff and no attempt limit; it exists for headless
// runs and tests, the interactive client paces attempts with a Pacer.
func (m *Manager) ConnectBlocking(ctx context.Context, host string, port int) (*Session, error) {
	for attempt := 1; ; attempt++ {
		s, err := m.Connect(ctx, host, port)
		if err == nil {
			return s, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.log.Debug("connect retry", zap.Int("attempt", attempt), zap.Error(err))
	}
}

func (m *Manager) fail(addr string, kind ConnectErrorKind, err error) error {
	switch kind {
	case Timeout:
		m.opts.Metrics.ConnectAttempt(metrics.ResultTimeout)
	case HandshakeMalformed:
		m.opts.Metrics.ConnectAttempt(metrics.ResultHandshakeMalformed)
	default:
		m.opts.Metrics.ConnectAttempt(metrics.ResultRefused)
	}
	return &ConnectError{Kind: kind, Addr: addr, Err: err}
}

func classify(err error, fallback ConnectErrorKind) ConnectErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return Timeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Timeout
	}
	if errors.Is(err, io.EOF) {
		return Refused
	}
	return fallback
}

// parseHandshake extracts the ASCII player id from the first read. Anything
// after the digits is the start of the snapshot stream and is returned so the
// caller can hand it to the decoder.
func parseHandshake(b []byte) (id int, rest []byte, err error) {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	start := i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == start {
		return 0, nil, fmt.Errorf("handshake %q: no player id", b)
	}
	id, err = strconv.Atoi(string(b[start:i]))
	if err != nil {
		return 0, nil, fmt.Errorf("handshake %q: %w", b, err)
	}
	if id != 0 && id != 1 {
		return 0, nil, fmt.Errorf("handshake: player id %d out of range", id)
	}
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	if i < len(b) {
		rest = append([]byte(nil), b[i:]...)
	}
	return id, rest, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Pacer spreads connect attempts over render ticks: the first attempt is due
// on the first tick, then one every `every` ticks. A max of 0 never runs out.
type Pacer struct {
	every    int
	max      int
	wait     int
	attempts int
}

// NewPacer creates a pacer. every < 1 is treated as 1.
func NewPacer(every, max int) Pacer {
	if every < 1 {
		every = 1
	}
	return Pacer{every: every, max: max}
}

// Tick advances one render tick and reports whether an attempt is due now.
func (p *Pacer) Tick() bool {
	if p.Exhausted() {
		return false
	}
	if p.wait > 0 {
		p.wait--
		return false
	}
	p.attempts++
	p.wait = p.every - 1
	return true
}

// Attempts returns how many attempts have been made since the last Reset.
func (p *Pacer) Attempts() int { return p.attempts }

// Exhausted reports whether a bounded pacer has used all its attempts.
func (p *Pacer) Exhausted() bool { return p.max > 0 && p.attempts >= p.max }

// Reset starts a fresh schedule.
func (p *Pacer) Reset() {
	p.wait = 0
	p.attempts = 0
}
