// Package servertest runs a scriptable netpong game server on a loopback
// port for tests. It speaks the same wire format as the real server over
// plain TCP or WebSocket.
package servertest

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Peer is the server end of one client connection.
type Peer struct {
	ID int

	tcp net.Conn
	ws  *websocket.Conn
	mu  sync.Mutex
}

// Write sends raw bytes to the client.
func (p *Peer) Write(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ws != nil {
		return p.ws.WriteMessage(websocket.BinaryMessage, []byte(s))
	}
	_, err := p.tcp.Write([]byte(s))
	return err
}

// Read returns the next chunk the client sent, waiting at most timeout.
func (p *Peer) Read(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	if p.ws != nil {
		p.ws.SetReadDeadline(deadline)
		_, data, err := p.ws.ReadMessage()
		return string(data), err
	}
	p.tcp.SetReadDeadline(deadline)
	buf := make([]byte, 256)
	n, err := p.tcp.Read(buf)
	return string(buf[:n]), err
}

// ReadCommands collects everything the client sends until timeout passes
// with nothing new.
func (p *Peer) ReadCommands(timeout time.Duration) string {
	var sb strings.Builder
	for {
		s, err := p.Read(timeout)
		sb.WriteString(s)
		if err != nil {
			return sb.String()
		}
	}
}

// Close hangs up on the client.
func (p *Peer) Close() error {
	if p.ws != nil {
		return p.ws.Close()
	}
	return p.tcp.Close()
}

// Server accepts clients and hands each one to the test as a Peer.
type Server struct {
	Host string
	Port int

	handshake func(p *Peer) string

	peers  chan *Peer
	mu     sync.Mutex
	nextID int
	closed bool
	close  func()
}

// Option configures a Server before it starts accepting.
type Option func(*Server)

// WithHandshake replaces the greeting sent right after accept. By default
// the server sends the peer's id in ASCII.
func WithHandshake(fn func(p *Peer) string) Option {
	return func(s *Server) { s.handshake = fn }
}

func newServer(opts []Option) *Server {
	s := &Server{peers: make(chan *Peer, 16)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewTCP starts a TCP server. It is shut down when the test ends.
func NewTCP(t testing.TB, opts ...Option) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := newServer(opts)
	s.setAddr(t, ln.Addr().String())
	s.close = func() { ln.Close() }

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.admit(&Peer{tcp: conn})
		}
	}()
	t.Cleanup(s.Close)
	return s
}

// NewWS starts a WebSocket server serving path.
func NewWS(t testing.TB, path string, opts ...Option) *Server {
	t.Helper()
	s := newServer(opts)
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.admit(&Peer{ws: conn})
	})
	hs := httptest.NewServer(mux)
	s.setAddr(t, hs.Listener.Addr().String())
	s.close = hs.Close
	t.Cleanup(s.Close)
	return s
}

func (s *Server) setAddr(t testing.TB, addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split %q: %v", addr, err)
	}
	s.Host = host
	s.Port, _ = strconv.Atoi(port)
}

func (s *Server) admit(p *Peer) {
	s.mu.Lock()
	p.ID = s.nextID % 2
	s.nextID++
	closed := s.closed
	s.mu.Unlock()
	if closed {
		p.Close()
		return
	}

	greeting := strconv.Itoa(p.ID)
	if s.handshake != nil {
		greeting = s.handshake(p)
	}
	if greeting != "" {
		p.Write(greeting)
	}
	s.peers <- p
}

// Accept waits for the next client.
func (s *Server) Accept(t testing.TB) *Peer {
	t.Helper()
	select {
	case p := <-s.peers:
		t.Cleanup(func() { p.Close() })
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no client connected within 5s")
		return nil
	}
}

// Close stops accepting clients.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.close()
}
