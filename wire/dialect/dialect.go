package dialect

import "github.com/indigo-web/utils/uf"

// Dialect is the negotiated wire dialect of a request. The grammar of both
// dialects is identical; what differs is the version token on the wire and
// the transport it conventionally arrives over.
type Dialect uint8

const (
	Unknown Dialect = iota
	HTTP10
	HTTP11
	SIP20
)

func (d Dialect) String() string {
	switch d {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	case SIP20:
		return "SIP/2.0"
	}

	return "unknown"
}

// FromBytes maps a version token to the closed set of recognized dialects.
// The match is exact: version tokens are case-sensitive on the wire.
func FromBytes(raw []byte) Dialect {
	switch uf.B2S(raw) {
	case "HTTP/1.0":
		return HTTP10
	case "HTTP/1.1":
		return HTTP11
	case "SIP/2.0":
		return SIP20
	}

	return Unknown
}

// Signaling reports whether the dialect is the session-signaling one.
func (d Dialect) Signaling() bool {
	return d == SIP20
}
