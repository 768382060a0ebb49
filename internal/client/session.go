package client

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/netpong/tui/internal/protocol"
)

const readBufferSize = 1024

// Session is one live connection to the server. It owns the transport, the
// frame decoder and the store the receive loop publishes into.
type Session struct {
	conn     Conn
	playerID int
	addr     string
	opts     Options
	log      *zap.Logger

	store   *Store
	decoder *protocol.Decoder
	pending []byte // stream bytes that arrived with the handshake

	writeMu   sync.Mutex
	startOnce sync.Once
	closeOnce sync.Once
	cancelled atomic.Bool
	done      chan struct{}

	frames       atomic.Uint64
	decodeErrors atomic.Uint64
}

func newSession(conn Conn, playerID int, addr string, opts Options, log *zap.Logger, pending []byte) *Session {
	return &Session{
		conn:     conn,
		playerID: playerID,
		addr:     addr,
		opts:     opts,
		log:      log.With(zap.String("addr", addr), zap.Int("player", playerID)),
		store:    NewStore(),
		decoder:  protocol.NewDecoder(opts.MaxFrameBytes),
		pending:  pending,
		done:     make(chan struct{}),
	}
}

// PlayerID is the slot the server assigned in the handshake.
func (s *Session) PlayerID() int { return s.playerID }

// Addr is the server address this session is connected to.
func (s *Session) Addr() string { return s.addr }

// Store returns the latest-snapshot slot fed by the receive loop.
func (s *Session) Store() *Store { return s.store }

// Stats returns the number of snapshots decoded and records dropped so far.
func (s *Session) Stats() (frames, decodeErrors uint64) {
	return s.frames.Load(), s.decodeErrors.Load()
}

// Start launches the receive loop. Only the first call has an effect.
func (s *Session) Start() {
	s.startOnce.Do(func() { go s.receive() })
}

// Done is closed when the receive loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close tears the session down on the client's initiative: the receive loop
// exits without publishing a disconnect marker. It waits for the loop to
// finish, so a new session never overlaps an old one.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancelled.Store(true)
		err = s.conn.Close()
		// If the loop never started, claim the start so a late Start
		// cannot spawn one.
		s.startOnce.Do(func() { close(s.done) })
	})
	<-s.done
	return err
}

// Cancelled reports whether Close has been called.
func (s *Session) Cancelled() bool { return s.cancelled.Load() }

// Send writes one command. Writes are serialised and bounded by the write
// timeout so the render loop is never stuck behind a dead peer.
func (s *Session) Send(cmd protocol.Command) error {
	if s.cancelled.Load() {
		return errors.New("session closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.opts.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	_, err := s.conn.Write(cmd.Bytes())
	return err
}

func (s *Session) receive() {
	defer close(s.done)

	if len(s.pending) > 0 {
		s.publish(s.pending)
		s.pending = nil
	}

	buf := make([]byte, readBufferSize)
	for {
		if s.opts.ReadTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		}
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.opts.Metrics.BytesReceived(n)
			s.publish(buf[:n])
		}
		if err != nil {
			if s.cancelled.Load() {
				s.log.Debug("receive loop stopped")
				return
			}
			s.conn.Close()
			// A hang-up after the final result is the normal end of a
			// match; the real winner stays in the store.
			if snap, _, _ := s.store.Read(); isFinished(snap) {
				s.log.Debug("server closed after match end", zap.Error(err))
				return
			}
			s.log.Warn("stream lost", zap.Error(err))
			s.opts.Metrics.Disconnect()
			s.store.Write(protocol.Finished{Winner: protocol.WinnerDisconnected})
			return
		}
	}
}

func (s *Session) publish(p []byte) {
	for snap, err := range s.decoder.Feed(p) {
		if err != nil {
			s.decodeErrors.Add(1)
			s.opts.Metrics.DecodeError()
			s.log.Warn("dropping record", zap.Error(err))
			continue
		}
		s.frames.Add(1)
		s.opts.Metrics.Snapshot(snap.Phase().String())
		if s.cancelled.Load() {
			return
		}
		s.store.Write(snap)
	}
}

func isFinished(snap protocol.Snapshot) bool {
	_, ok := snap.(protocol.Finished)
	return ok
}
