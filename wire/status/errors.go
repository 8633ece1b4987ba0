package status

// Error carries a status code together with a short human-readable cause.
// Values are comparable, so wrapped instances stay matchable via errors.Is.
type Error struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return Error{
		Code:    code,
		Message: message,
	}
}

func (e Error) Error() string {
	return e.Message
}

var (
	// ErrCloseConnection isn't an error per se, but an instruction to drop the
	// connection without attempting a response.
	ErrCloseConnection = NewError(CloseConnection, "actively closing the connection")

	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrMalformedLine        = NewError(BadRequest, "malformed request line")
	ErrInvalidVerb          = NewError(BadRequest, "unrecognized request verb")
	ErrBadForwardedAddress  = NewError(BadRequest, "unparsable forwarded address")
	ErrTooLongRequestLine   = NewError(RequestURITooLong, "request line is too long")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "body is too large")
	ErrHeaderFieldsTooLarge = NewError(HeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders       = NewError(HeaderFieldsTooLarge, "too many headers")
	ErrUnsupportedVersion   = NewError(VersionNotSupported, "unsupported protocol version")
	ErrUnauthorized         = NewError(Unauthorized, "unauthorized")
	ErrForbidden            = NewError(Forbidden, "forbidden")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrMethodNotAllowed     = NewError(MethodNotAllowed, "method not allowed")
	ErrUnsupportedMediaType = NewError(UnsupportedMediaType, "unsupported media type")
	ErrTooManyRequests      = NewError(TooManyRequests, "too many requests")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
	ErrNotImplemented       = NewError(NotImplemented, "not implemented")
)

// CloseConnection is a sentinel for ErrCloseConnection and deliberately
// collides with no registered wire status.
const CloseConnection Code = 0
