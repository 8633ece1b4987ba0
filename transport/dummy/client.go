package dummy

import (
	"io"
	"net"

	"github.com/wireline-dev/wireline/transport"
)

var _ transport.Client = new(Client)

// Client feeds pre-cooked chunks of data on every read and journals all the
// written data, making it a universal mock suitable for most of the tests.
type Client struct {
	closed  bool
	pointer int
	tmp     []byte
	written []byte
	data    [][]byte
	remote  net.Addr
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data: data,
		remote: &net.TCPAddr{
			IP:   net.IPv4(192, 0, 2, 1),
			Port: 443,
		},
	}
}

// WithRemote overrides the mocked remote endpoint.
func (c *Client) WithRemote(addr net.Addr) *Client {
	c.remote = addr
	return c
}

func (c *Client) Read() ([]byte, error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.tmp) > 0 {
		data := c.tmp
		c.tmp = nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		return nil, io.EOF
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(p []byte) (int, error) {
	c.written = append(c.written, p...)
	return len(p), nil
}

// Written returns everything the server has flushed so far.
func (c *Client) Written() []byte {
	return c.written
}

func (c *Client) Remote() net.Addr {
	return c.remote
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}
