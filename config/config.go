package config

import "time"

type (
	// Bound is a pair of an initial allocation and a hard ceiling for a
	// growable buffer.
	Bound struct {
		Default, Maximal int
	}

	NET struct {
		// ReadBufferSize is the size of the buffer in bytes used to read from
		// a socket.
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of idle connections. If no
		// data was received in this period of time, the connection is dropped.
		ReadTimeout time.Duration
		// AcceptInterruptPeriod controls how often a blocked accept or receive
		// is interrupted in order to check whether it's time to stop.
		AcceptInterruptPeriod time.Duration
		// Workers is the number of execution contexts independently pulling
		// units of work from each bound transport.
		Workers int
	}

	Wire struct {
		// RequestLineSize bounds the shared buffer storing the verb, target
		// and version tokens. Overrunning the maximal boundary fails the parse,
		// which is what keeps memory finite on malicious input.
		RequestLineSize Bound
		// HeadersSpace limits the amount of memory occupied by request headers.
		HeadersSpace Bound
		// MaxHeaders is the maximal number of header lines allowed in a single
		// request.
		MaxHeaders int
		// MaxBodySize caps the declared body length. A request declaring more
		// is rejected before a single body byte is read, which keeps the body
		// allocation off attacker-controlled input.
		MaxBodySize int
		// HeadersPrealloc is the initial seat count of the headers multimap.
		HeadersPrealloc int
		// DefaultHost substitutes a missing Host header instead of failing the
		// request. Permissive by design.
		DefaultHost string
		// DefaultPort participates in building the absolute resource locator.
		DefaultPort uint16
	}

	Proxy struct {
		// TrustForwarded enables rewriting the effective remote endpoint from
		// the forwarding header. Disabled by default: honoring the header from
		// untrusted peers is an address-spoofing vector.
		TrustForwarded bool
		// ForwardHeader is the header carrying the original client address.
		ForwardHeader string
	}

	Response struct {
		// BuffSize is the initial size of the serialization buffer.
		BuffSize int
		// DefaultHeaders are included into every response implicitly, unless
		// explicitly overridden.
		DefaultHeaders map[string]string `test:"nullable"`
	}

	// Quota describes a sliding-window admission rule: at most Max requests
	// within Window, violation locking the identity out for Penalty.
	Quota struct {
		Max     int
		Window  time.Duration
		Penalty time.Duration
	}

	RateLimit struct {
		// Default applies to every route not tagged with a named bucket.
		Default Quota
		// Buckets maps named route groups onto their own quotas.
		Buckets map[string]Quota `test:"nullable"`
	}

	Log struct {
		// Level is one of debug, info, warn, error.
		Level string
		// Development echoes internal error details into response bodies.
		// Never enable it in production-visibility modes: that's how internals
		// leak.
		Development bool
	}
)

// Config holds settings used across the server: mainly restrictions,
// limitations and pre-allocations.
//
// Always modify defaults returned via Default() instead of constructing the
// struct manually, otherwise zero-valued limits will reject everything.
type Config struct {
	NET       NET
	Wire      Wire
	Proxy     Proxy
	Response  Response
	RateLimit RateLimit
	Log       Log
}

// Default returns a well-balanced default config. Maximal boundaries are
// fairly permitting.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize:        2 * 1024,
			ReadTimeout:           90 * time.Second,
			AcceptInterruptPeriod: 5 * time.Second,
			Workers:               8,
		},
		Wire: Wire{
			RequestLineSize: Bound{
				Default: 1024,
				// most web entities limit the request line to 4-8kb; leave
				// some headroom on top of that.
				Maximal: 16 * 1024,
			},
			HeadersSpace: Bound{
				Default: 1 * 1024,
				Maximal: 16 * 1024, // there might be extremely long cookies
			},
			MaxHeaders:      50,
			MaxBodySize:     512 * 1024 * 1024,
			HeadersPrealloc: 10,
			DefaultHost:     "localhost",
			DefaultPort:     8080,
		},
		Proxy: Proxy{
			TrustForwarded: false,
			ForwardHeader:  "X-Forwarded-For",
		},
		Response: Response{
			BuffSize:       2 * 1024,
			DefaultHeaders: make(map[string]string),
		},
		RateLimit: RateLimit{
			Default: Quota{
				Max:     100,
				Window:  time.Minute,
				Penalty: time.Minute,
			},
			Buckets: make(map[string]Quota),
		},
		Log: Log{
			Level:       "info",
			Development: false,
		},
	}
}
