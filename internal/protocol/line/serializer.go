package line

import (
	"strconv"

	"github.com/indigo-web/utils/strcomp"
	"github.com/wireline-dev/wireline/transport"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/dialect"
	"github.com/wireline-dev/wireline/wire/status"
)

// Serializer renders outbound fields into wire bytes and flushes them in a
// single write, which matters for the datagram transport: one response, one
// datagram.
type Serializer struct {
	client         transport.Client
	buff           []byte
	defaultHeaders map[string]string
}

func NewSerializer(client transport.Client, buffSize int, defaultHeaders map[string]string) *Serializer {
	return &Serializer{
		client:         client,
		buff:           make([]byte, 0, buffSize),
		defaultHeaders: defaultHeaders,
	}
}

// Write serializes the response using the passed dialect's version token and
// flushes it to the client. The response freezes afterwards no matter whether
// the flush succeeded.
func (s *Serializer) Write(d dialect.Dialect, resp *wire.Response) error {
	if d == dialect.Unknown {
		// the response line needs some version token even when negotiation
		// never finished
		d = dialect.HTTP11
	}

	fields := resp.Expose()

	s.buff = append(s.buff, d.String()...)
	s.buff = append(s.buff, ' ')
	s.buff = strconv.AppendUint(s.buff, uint64(fields.Code), 10)
	s.buff = append(s.buff, ' ')
	s.appendStatus(fields)
	s.crlf()

	for _, pair := range fields.Headers {
		s.appendHeader(pair.Key, pair.Value)
	}

	for key, value := range s.defaultHeaders {
		if !overridden(fields, key) {
			s.appendHeader(key, value)
		}
	}

	s.appendHeader("Content-Type", fields.ContentType)
	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendInt(s.buff, int64(len(fields.Body)), 10)
	s.crlf()
	s.crlf()
	s.buff = append(s.buff, fields.Body...)

	_, err := s.client.Write(s.buff)
	s.buff = s.buff[:0]
	resp.Freeze()

	return err
}

func (s *Serializer) appendStatus(fields *wire.Fields) {
	text := fields.Status
	if len(text) == 0 {
		text = status.Text(fields.Code)
	}

	s.buff = append(s.buff, text...)
}

func (s *Serializer) appendHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, ": "...)
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, '\r', '\n')
}

// overridden reports whether a default header was explicitly set on the
// response, in which case the explicit value wins alone.
func overridden(fields *wire.Fields, key string) bool {
	if strcomp.EqualFold(key, "Content-Type") || strcomp.EqualFold(key, "Content-Length") {
		return true
	}

	for _, pair := range fields.Headers {
		if strcomp.EqualFold(pair.Key, key) {
			return true
		}
	}

	return false
}
