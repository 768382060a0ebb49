package client

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/netpong/tui/internal/logging"
	"github.com/netpong/tui/internal/metrics"
	"github.com/netpong/tui/internal/protocol"
)

// Keys is the movement key state sampled on one tick.
type Keys struct {
	Up   bool
	Down bool
}

// Command picks at most one command for k. Up wins when both are held.
func (k Keys) Command() (protocol.Command, bool) {
	switch {
	case k.Up:
		return protocol.CmdUp, true
	case k.Down:
		return protocol.CmdDown, true
	default:
		return "", false
	}
}

// CommandWriter is the part of a Session the sender needs.
type CommandWriter interface {
	Send(cmd protocol.Command) error
}

// SendError reports a failed command write. The session should be abandoned.
type SendError struct {
	Command protocol.Command
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %s: %v", e.Command, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// InputSender turns sampled keys into fire-and-forget commands.
type InputSender struct {
	w       CommandWriter
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewInputSender creates a sender writing to w.
func NewInputSender(w CommandWriter, log *zap.Logger, m *metrics.Metrics) *InputSender {
	return &InputSender{w: w, log: logging.OrNop(log), metrics: m}
}

// Send writes the command for k, if any. It returns the command written and
// a *SendError when the write fails.
func (s *InputSender) Send(k Keys) (protocol.Command, error) {
	cmd, ok := k.Command()
	if !ok {
		return "", nil
	}
	if err := s.w.Send(cmd); err != nil {
		s.metrics.SendError()
		s.log.Warn("send failed", zap.String("command", string(cmd)), zap.Error(err))
		return cmd, &SendError{Command: cmd, Err: err}
	}
	s.metrics.CommandSent(string(cmd))
	return cmd, nil
}
