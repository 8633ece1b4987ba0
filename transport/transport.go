package transport

import (
	"context"
	"net"
)

// Conn is one unit of inbound work: a whole stream connection, or a single
// datagram. Close is idempotent and never propagates transport errors: by the
// time a connection is being released there's nobody left to care.
type Conn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Remote() net.Addr
	Close() error
}

// Transport owns a bound endpoint and hands out Conns one at a time.
//
// Bind failures are fatal for the process, so they propagate as-is. Accept
// suspends the caller until a unit of work arrives; on cancellation it
// returns the context's error promptly without leaking the endpoint. Multiple
// goroutines may call Accept concurrently.
type Transport interface {
	Bind() error
	Accept(ctx context.Context) (Conn, error)
	Addr() net.Addr
	Close() error
}
