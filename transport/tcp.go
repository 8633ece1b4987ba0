package transport

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// TCP is the connection-oriented transport. Every accepted socket is one unit
// of work; bytes are read directly off the connection.
type TCP struct {
	addr      string
	l         listener
	interrupt time.Duration
}

func NewTCP(addr string, interrupt time.Duration) *TCP {
	return &TCP{
		addr:      addr,
		interrupt: interrupt,
	}
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind() (err error) {
	t.l, err = bindTCP(t.addr)
	return err
}

// Accept blocks until a connection arrives. The underlying accept is
// interrupted periodically, so cancellation is noticed within the interrupt
// period at worst.
func (t *TCP) Accept(ctx context.Context) (Conn, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := t.l.SetDeadline(time.Now().Add(t.interrupt)); err != nil {
			return nil, err
		}

		conn, err := t.l.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return nil, err
		}

		return &streamConn{conn: conn}, nil
	}
}

// Close releases the endpoint. Closing a transport that never got bound is
// a no-op.
func (t *TCP) Close() error {
	if t.l == nil {
		return nil
	}

	return t.l.Close()
}

// Addr returns the actually bound address, which differs from the configured
// one when the port was left for the system to choose.
func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

type streamConn struct {
	conn   net.Conn
	closed atomic.Bool
}

func (s *streamConn) Read(b []byte) (int, error) {
	return s.conn.Read(b)
}

func (s *streamConn) Write(b []byte) (int, error) {
	return s.conn.Write(b)
}

func (s *streamConn) Remote() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *streamConn) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

// Close releases the socket. Repeated calls, as well as closing an already
// dead transport, are swallowed.
func (s *streamConn) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	_ = s.conn.Close()
	return nil
}
