package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"
)

// UDP is the connectionless transport used by the session-signaling dialect.
// One inbound datagram is one unit of work; the reply is sent back to the
// datagram's actual source address.
type UDP struct {
	addr      string
	sock      *net.UDPConn
	interrupt time.Duration
	buffSize  int
}

func NewUDP(addr string, interrupt time.Duration, buffSize int) *UDP {
	return &UDP{
		addr:      addr,
		interrupt: interrupt,
		buffSize:  buffSize,
	}
}

func (u *UDP) Bind() error {
	udpaddr, err := net.ResolveUDPAddr("udp", u.addr)
	if err != nil {
		return err
	}

	u.sock, err = net.ListenUDP("udp", udpaddr)
	return err
}

// Accept blocks until a datagram arrives and returns it as a Conn, whose
// reads serve the datagram's payload and whose writes form the short-lived
// outbound association back to the peer.
func (u *UDP) Accept(ctx context.Context) (Conn, error) {
	// the buffer is per-datagram: several workers pull from the same socket
	// concurrently, and the payload must survive until the reply is flushed
	buff := make([]byte, u.buffSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := u.sock.SetReadDeadline(time.Now().Add(u.interrupt)); err != nil {
			return nil, err
		}

		n, peer, err := u.sock.ReadFromUDP(buff)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return nil, err
		}

		return &datagramConn{
			data: buff[:n],
			peer: peer,
			sock: u.sock,
		}, nil
	}
}

func (u *UDP) Close() error {
	if u.sock == nil {
		return nil
	}

	return u.sock.Close()
}

func (u *UDP) Addr() net.Addr {
	return u.sock.LocalAddr()
}

type datagramConn struct {
	data   []byte
	pos    int
	peer   *net.UDPAddr
	sock   *net.UDPConn
	closed atomic.Bool
}

func (d *datagramConn) Read(b []byte) (int, error) {
	if d.pos >= len(d.data) {
		return 0, io.EOF
	}

	n := copy(b, d.data[d.pos:])
	d.pos += n

	return n, nil
}

func (d *datagramConn) Write(b []byte) (int, error) {
	if d.closed.Load() {
		return 0, net.ErrClosed
	}

	return d.sock.WriteToUDP(b, d.peer)
}

func (d *datagramConn) Remote() net.Addr {
	return d.peer
}

// Close releases the association. The underlying socket is shared by all
// datagrams, so there's nothing to free; further writes through this conn
// are refused, and repeated calls are tolerated.
func (d *datagramConn) Close() error {
	d.closed.Store(true)
	return nil
}
