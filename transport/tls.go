package transport

import (
	"crypto/tls"
	"net"
	"time"
)

// TLS is the stream transport wrapped into an encryption layer. Everything
// past the handshake behaves exactly as TCP.
type TLS struct {
	certs []tls.Certificate
	TCP
}

func NewTLS(addr string, interrupt time.Duration, certs []tls.Certificate) *TLS {
	return &TLS{
		certs: certs,
		TCP:   *NewTCP(addr, interrupt),
	}
}

func (t *TLS) Bind() error {
	tcp, err := bindTCP(t.addr)
	if err != nil {
		return err
	}

	l := tls.NewListener(tcp, &tls.Config{
		Certificates: t.certs,
	})
	t.l = tlsAdapter{tcp, l}

	return nil
}

type tlsAdapter struct {
	*net.TCPListener
	tls net.Listener
}

func (t tlsAdapter) Accept() (net.Conn, error) {
	return t.tls.Accept()
}
