package wire

import (
	"net"

	"github.com/wireline-dev/wireline/kv"
	"github.com/wireline-dev/wireline/wire/dialect"
	"github.com/wireline-dev/wireline/wire/verb"
)

type (
	Headers = *kv.Storage
	Params  = *kv.Storage
)

// Request is the mutable unit of state shared across the pipeline for one
// inbound request. The pipeline owns it exclusively for the request's
// lifetime; once the response is flushed the instance is dead.
type Request struct {
	// Dialect is the negotiated wire dialect. A request with an Unknown
	// dialect never reaches the pipeline: parsing fails first.
	Dialect dialect.Dialect
	// Verb is the request verb. The Invalid sentinel likewise never survives
	// parsing.
	Verb verb.Verb
	// Path is the target path token as it appeared on the wire, query
	// component stripped.
	Path string
	// Locator is the absolute resource locator, assembled from the host
	// header, the configured default port and the path token.
	Locator string
	// Params are the query parameters: an ordered sequence of key/value where
	// keys may repeat.
	Params Params
	// Headers holds non-normalized header pairs. Lookup is case-insensitive;
	// insertion order is preserved for re-emission.
	Headers Headers
	// Cookies holds the parsed Cookie header pairs. Keys are unique.
	Cookies map[string]string
	// ContentLength is the declared body length. Zero if the header was absent.
	ContentLength int
	// ContentType is the inbound Content-Type header value, used by route
	// matching.
	ContentType string
	// Host is the Host header value, or the configured placeholder if the
	// header was missing.
	Host string
	// Remote is the address the transport actually observed.
	Remote net.Addr
	// Effective is the address attributed to the client after trusted-proxy
	// rewriting. Equals Remote unless a forwarding header was honored.
	Effective net.Addr
	// Body provides access to the message body.
	Body *Body
	// Principal is the authenticated principal attached by an auth stage, if
	// any. Nil means anonymous.
	Principal any
	// ID is a per-request identifier attached by the request-id stage.
	ID string
	// Env contains a fixed set of contextual values passed between pipeline
	// stages.
	Env Environment

	response *Response
}

// Environment is a fixed set of values which pipeline stages use to talk to
// each other without allocating a context.
type Environment struct {
	// Error holds the error a stage failed with, if any. Consumed by the
	// request log line.
	Error error
	// AllowedVerbs is non-empty only when a method-not-allowed response is
	// being formed.
	AllowedVerbs string
	// Bucket is the rate-limit bucket of the matched route. Empty means the
	// default bucket.
	Bucket string
}

func NewRequest(remote net.Addr, headersPrealloc int) *Request {
	return &Request{
		Dialect:   dialect.Unknown,
		Verb:      verb.Invalid,
		Params:    kv.New(),
		Headers:   kv.NewPrealloc(headersPrealloc),
		Cookies:   make(map[string]string),
		Remote:    remote,
		Effective: remote,
		Body:      new(Body),
		response:  NewResponse(),
	}
}

// Respond returns the response builder bound to this request.
func (r *Request) Respond() *Response {
	return r.response
}

// Reset prepares the request for reuse on the same connection.
func (r *Request) Reset() {
	r.Dialect = dialect.Unknown
	r.Verb = verb.Invalid
	r.Path = ""
	r.Locator = ""
	r.Params.Clear()
	r.Headers.Clear()
	clear(r.Cookies)
	r.ContentLength = 0
	r.ContentType = ""
	r.Host = ""
	r.Effective = r.Remote
	r.Body.Reset(nil)
	r.Principal = nil
	r.ID = ""
	r.Env = Environment{}
	r.response.Clear()
}
