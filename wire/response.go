package wire

import (
	"errors"

	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
	"github.com/wireline-dev/wireline/kv"
	"github.com/wireline-dev/wireline/wire/status"
)

// why 7? Inherited gut feeling: responses rarely carry more headers than that.
const preallocRespHeaders = 7

const DefaultContentType = "text/plain"

// Fields is the raw outbound state of a response, exposed to the serializer.
type Fields struct {
	Code        status.Code
	Status      status.Status
	Headers     []kv.Pair
	ContentType string
	Body        []byte
}

// Response is a builder over the outbound fields. All of them stay mutable
// until the response is flushed, at which point the instance freezes and
// further mutations are silently discarded.
type Response struct {
	fields Fields
	frozen bool
}

func NewResponse() *Response {
	return &Response{
		fields: Fields{
			Code:        status.OK,
			Headers:     make([]kv.Pair, 0, preallocRespHeaders),
			ContentType: DefaultContentType,
		},
	}
}

// Code sets the response code. The corresponding reason phrase is derived at
// serialization time unless overridden via Status.
func (r *Response) Code(code status.Code) *Response {
	if r.frozen {
		return r
	}

	r.fields.Code = code
	return r
}

// Status overrides the reason phrase. Clients generally ignore it, so there's
// rarely a reason to call this.
func (r *Response) Status(s status.Status) *Response {
	if r.frozen {
		return r
	}

	r.fields.Status = s
	return r
}

// ContentType sets the content-type tag of the payload.
func (r *Response) ContentType(value string) *Response {
	if r.frozen {
		return r
	}

	r.fields.ContentType = value
	return r
}

// Header adds header values to a key. Repeated keys append rather than
// replace, and the emission order follows the calls.
func (r *Response) Header(key string, values ...string) *Response {
	if r.frozen {
		return r
	}

	for i := range values {
		r.fields.Headers = append(r.fields.Headers, kv.Pair{
			Key:   key,
			Value: values[i],
		})
	}

	return r
}

// String sets the response's body to the passed string.
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to the passed slice WITHOUT COPYING.
// Changing the slice afterwards will affect the response.
func (r *Response) Bytes(body []byte) *Response {
	if r.frozen {
		return r
	}

	r.fields.Body = body
	return r
}

// JSON serializes the model into the body and tags it as application/json.
func (r *Response) JSON(model any) *Response {
	data, err := json.Marshal(model)
	if err != nil {
		return r.Error(err)
	}

	return r.ContentType("application/json").Bytes(data)
}

// Error renders an error as a response: wire status errors carry their own
// code, everything else is a generic internal server error with no detail
// leaked.
func (r *Response) Error(err error) *Response {
	var statusErr status.Error
	if errors.As(err, &statusErr) && statusErr.Code != status.CloseConnection {
		return r.Code(statusErr.Code).String(statusErr.Message)
	}

	return r.Code(status.InternalServerError).
		String(string(status.Text(status.InternalServerError)))
}

// StatusCode returns the currently set code.
func (r *Response) StatusCode() status.Code {
	return r.fields.Code
}

// Expose exposes the raw outbound fields for serialization.
func (r *Response) Expose() *Fields {
	return &r.fields
}

// Freeze seals the response. Called by the serializer after the flush; any
// later mutation attempt is a no-op.
func (r *Response) Freeze() {
	r.frozen = true
}

// Clear resets the builder to its initial state, unfreezing it.
func (r *Response) Clear() *Response {
	r.fields = Fields{
		Code:        status.OK,
		Headers:     r.fields.Headers[:0],
		ContentType: DefaultContentType,
	}
	r.frozen = false

	return r
}
