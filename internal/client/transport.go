package client

import (
	"context"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the bidirectional byte stream a session runs over. *net.TCPConn
// satisfies it directly; WebSocket connections are adapted by wsConn.
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// DialFunc opens a transport to addr ("host:port").
type DialFunc func(ctx context.Context, addr string) (Conn, error)

// TCPDialer dials a plain TCP stream.
func TCPDialer(timeout time.Duration) DialFunc {
	return func(ctx context.Context, addr string) (Conn, error) {
		d := net.Dialer{Timeout: timeout}
		return d.DialContext(ctx, "tcp", addr)
	}
}

// WSDialer dials ws://addr/path and carries the stream in binary messages.
func WSDialer(path string, timeout time.Duration) DialFunc {
	return func(ctx context.Context, addr string) (Conn, error) {
		u := url.URL{Scheme: "ws", Host: addr, Path: path}
		d := websocket.Dialer{
			HandshakeTimeout: timeout,
			NetDialContext:   (&net.Dialer{Timeout: timeout}).DialContext,
		}
		conn, _, err := d.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, err
		}
		return NewWSConn(conn), nil
	}
}

// wsConn presents a WebSocket as a byte stream. Message boundaries carry no
// meaning; framing is still done by the newline delimiter.
type wsConn struct {
	conn *websocket.Conn
	r    io.Reader
}

// NewWSConn adapts an established WebSocket connection.
func NewWSConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			_, r, err := c.conn.NextReader()
			if err != nil {
				return 0, err
			}
			c.r = r
		}
		n, err := c.r.Read(p)
		if err == io.EOF {
			c.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *wsConn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}
