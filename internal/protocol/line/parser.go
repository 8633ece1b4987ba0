package line

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/wireline-dev/wireline/config"
	"github.com/wireline-dev/wireline/internal/buffer"
	"github.com/wireline-dev/wireline/internal/qparams"
	"github.com/wireline-dev/wireline/transport"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/cookie"
	"github.com/wireline-dev/wireline/wire/dialect"
	"github.com/wireline-dev/wireline/wire/status"
	"github.com/wireline-dev/wireline/wire/verb"
)

// Parser pulls one request off a client stream into a request instance. All
// tokens are read through bounded buffers, so the memory a peer can occupy is
// finite no matter what it sends.
type Parser struct {
	cfg         *config.Config
	client      transport.Client
	request     *wire.Request
	requestLine *buffer.Buffer
	headers     *buffer.Buffer
	headerCount int
}

func NewParser(cfg *config.Config, client transport.Client, request *wire.Request) *Parser {
	return &Parser{
		cfg:         cfg,
		client:      client,
		request:     request,
		requestLine: buffer.New(cfg.Wire.RequestLineSize.Default, cfg.Wire.RequestLineSize.Maximal),
		headers:     buffer.New(cfg.Wire.HeadersSpace.Default, cfg.Wire.HeadersSpace.Maximal),
	}
}

// Parse populates the request from the stream, or fails with an error whose
// class the caller can distinguish: wire status errors are peer's fault and
// may warrant a response, everything else is a transport failure.
func (p *Parser) Parse() error {
	if err := p.requestLineStep(); err != nil {
		var statusErr status.Error
		if errors.As(err, &statusErr) {
			// the most common way to land here is talking the wrong protocol
			// to this port, e.g. TLS against a plaintext listener.
			return fmt.Errorf("%w (is the expected dialect spoken against this port?)", err)
		}

		return err
	}

	if err := p.headersStep(); err != nil {
		return err
	}

	if p.request.Host == "" {
		p.request.Host = p.cfg.Wire.DefaultHost
	}

	if err := p.forwardedStep(); err != nil {
		return err
	}

	p.locatorStep()

	return p.bodyStep()
}

// requestLineStep reads the three request-line tokens and maps them onto the
// dialect and verb vocabularies. The version is mapped first: an unrecognized
// version must stay distinguishable from a merely malformed line.
func (p *Parser) requestLineStep() error {
	verbToken, err := p.token(p.requestLine, ' ', status.ErrTooLongRequestLine)
	if err != nil {
		return err
	}

	target, err := p.token(p.requestLine, ' ', status.ErrTooLongRequestLine)
	if err != nil {
		return err
	}

	version, err := p.token(p.requestLine, '\r', status.ErrTooLongRequestLine)
	if err != nil {
		return err
	}

	lf, err := p.readByte()
	if err != nil {
		return err
	}

	if lf != '\n' || len(verbToken) == 0 || len(target) == 0 {
		return status.ErrMalformedLine
	}

	p.request.Dialect = dialect.FromBytes(version)
	if p.request.Dialect == dialect.Unknown {
		return status.ErrUnsupportedVersion
	}

	p.request.Verb = verb.Parse(uf.B2S(verbToken))
	if p.request.Verb == verb.Invalid {
		return status.ErrInvalidVerb
	}

	path, query, _ := strings.Cut(uf.B2S(target), "?")
	if len(path) == 0 {
		return status.ErrMalformedLine
	}

	p.request.Path = path
	qparams.Parse(p.request.Params, query)

	return nil
}

// headersStep consumes `Name: Value` lines until the blank one, appending
// duplicates instead of replacing. Interesting headers are peeled off on the
// fly.
func (p *Parser) headersStep() error {
	for {
		raw, err := p.token(p.headers, '\n', status.ErrHeaderFieldsTooLarge)
		if err != nil {
			return err
		}

		if len(raw) > 0 && raw[len(raw)-1] == '\r' {
			raw = raw[:len(raw)-1]
		}

		if len(raw) == 0 {
			return nil
		}

		if p.headerCount++; p.headerCount > p.cfg.Wire.MaxHeaders {
			return status.ErrTooManyHeaders
		}

		colon := bytes.IndexByte(raw, ':')
		if colon < 1 {
			return status.ErrBadRequest
		}

		key := uf.B2S(raw[:colon])
		value := uf.B2S(bytes.TrimSpace(raw[colon+1:]))
		p.request.Headers.Add(key, value)

		switch {
		case strcomp.EqualFold(key, "Content-Length"):
			length, err := strconv.Atoi(value)
			if err != nil || length < 0 {
				return status.ErrBadRequest
			}

			// rejected before a single body byte is read: the declared value
			// must never drive an allocation
			if length > p.cfg.Wire.MaxBodySize {
				return status.ErrBodyTooLarge
			}

			p.request.ContentLength = length
		case strcomp.EqualFold(key, "Content-Type"):
			p.request.ContentType = value
		case strcomp.EqualFold(key, "Host"):
			p.request.Host = value
		case strcomp.EqualFold(key, "Cookie"):
			cookie.Parse(p.request.Cookies, value)
		}
	}
}

// forwardedStep rewrites the effective remote endpoint from the forwarding
// header when the deployment explicitly trusts it. An unparsable address is
// a hard failure: silently falling back to the observed peer would leave the
// attribution ambiguous, which is exactly what spoofers rely on.
func (p *Parser) forwardedStep() error {
	if !p.cfg.Proxy.TrustForwarded {
		return nil
	}

	forwarded, found := p.request.Headers.Get(p.cfg.Proxy.ForwardHeader)
	if !found {
		return nil
	}

	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if strings.IndexByte(first, ':') != -1 {
		// colons mean an IPv6 literal; bracket it so the port can follow
		first = "[" + first + "]"
	}

	_, port, err := net.SplitHostPort(p.request.Remote.String())
	if err != nil {
		return status.ErrBadForwardedAddress
	}

	addr, err := netip.ParseAddrPort(first + ":" + port)
	if err != nil {
		return status.ErrBadForwardedAddress
	}

	if _, ok := p.request.Remote.(*net.UDPAddr); ok {
		p.request.Effective = net.UDPAddrFromAddrPort(addr)
	} else {
		p.request.Effective = net.TCPAddrFromAddrPort(addr)
	}

	return nil
}

// locatorStep assembles the absolute resource locator out of the host, the
// configured default port and the path token.
func (p *Parser) locatorStep() {
	scheme := "http"
	if p.request.Dialect.Signaling() {
		scheme = "sip"
	}

	host := p.request.Host
	if strings.IndexByte(host, ':') == -1 {
		host += ":" + strconv.Itoa(int(p.cfg.Wire.DefaultPort))
	}

	p.request.Locator = scheme + "://" + host + p.request.Path
}

// bodyStep reads exactly Content-Length bytes. Not bounded by a deadline of
// its own: a slow peer can stall the worker for as long as the read timeout
// of the transport permits.
func (p *Parser) bodyStep() error {
	length := p.request.ContentLength
	if length == 0 {
		p.request.Body.Reset(nil)
		return nil
	}

	// the length is already capped by MaxBodySize; still, start from the
	// read buffer size and let append grow towards it
	content := make([]byte, 0, min(length, p.cfg.NET.ReadBufferSize))
	for len(content) < length {
		data, err := p.fetch()
		if err != nil {
			return err
		}

		if need := length - len(content); len(data) > need {
			p.client.Pushback(data[need:])
			data = data[:need]
		}

		content = append(content, data...)
	}

	p.request.Body.Reset(content)

	return nil
}

// token reads bytes into buff until delim, returning the completed segment
// without the delimiter. Whatever followed the delimiter is pushed back for
// the next read. Exceeding the buffer bound fails with overflow.
func (p *Parser) token(buff *buffer.Buffer, delim byte, overflow error) ([]byte, error) {
	for {
		data, err := p.fetch()
		if err != nil {
			return nil, err
		}

		if i := bytes.IndexByte(data, delim); i != -1 {
			if !buff.Append(data[:i]) {
				return nil, overflow
			}

			p.client.Pushback(data[i+1:])

			return buff.Finish(), nil
		}

		if !buff.Append(data) {
			return nil, overflow
		}
	}
}

func (p *Parser) readByte() (byte, error) {
	data, err := p.fetch()
	if err != nil {
		return 0, err
	}

	p.client.Pushback(data[1:])

	return data[0], nil
}

// fetch pulls the next non-empty chunk off the client.
func (p *Parser) fetch() ([]byte, error) {
	for {
		data, err := p.client.Read()
		if len(data) > 0 {
			return data, nil
		}

		if err != nil {
			return nil, err
		}
	}
}
