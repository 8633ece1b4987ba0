package transport

import (
	"net"
	"time"
)

// Client is a buffered byte-stream view over a Conn, which the parser
// consumes. Pushback preserves an unconsumed tail for the next read.
type Client interface {
	Read() ([]byte, error)
	Pushback(b []byte)
	Write(b []byte) (int, error)
	Remote() net.Addr
	Close() error
}

type client struct {
	conn    Conn
	buff    []byte
	pending []byte
	timeout time.Duration
}

func NewClient(conn Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		conn:    conn,
		buff:    buff,
		timeout: timeout,
	}
}

type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// Read reads data into the internal buffer and returns a piece of it back.
// Timeouts are armed automatically on transports that support them.
func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if d, ok := c.conn.(deadlineReader); ok {
		if err := d.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

// Pushback preserves a chunk of data from the previous read for the next one.
func (c *client) Pushback(b []byte) {
	c.pending = b
}

func (c *client) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

func (c *client) Remote() net.Addr {
	return c.conn.Remote()
}

func (c *client) Close() error {
	return c.conn.Close()
}
