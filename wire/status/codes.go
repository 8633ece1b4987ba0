package status

type (
	Code   uint16
	Status string
)

// Status codes shared by both wire dialects. The response line carries the
// numeric code plus the canonical reason phrase from Text.
const (
	Trying   Code = 100
	Ringing  Code = 180
	OK       Code = 200
	Accepted Code = 202

	MovedPermanently Code = 301
	Found            Code = 302

	BadRequest            Code = 400
	Unauthorized          Code = 401
	Forbidden             Code = 403
	NotFound              Code = 404
	MethodNotAllowed      Code = 405
	RequestTimeout        Code = 408
	LengthRequired        Code = 411
	RequestEntityTooLarge Code = 413
	RequestURITooLong     Code = 414
	UnsupportedMediaType  Code = 415
	HeaderFieldsTooLarge  Code = 431
	TooManyRequests       Code = 429

	InternalServerError Code = 500
	NotImplemented      Code = 501
	BadGateway          Code = 502
	ServiceUnavailable  Code = 503
	VersionNotSupported Code = 505
)

// Text returns the canonical reason phrase of the code. Unknown codes map to
// a fixed placeholder instead of an empty string, so the response line never
// loses its third token.
func Text(code Code) Status {
	switch code {
	case Trying:
		return "Trying"
	case Ringing:
		return "Ringing"
	case OK:
		return "OK"
	case Accepted:
		return "Accepted"
	case MovedPermanently:
		return "Moved Permanently"
	case Found:
		return "Found"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case LengthRequired:
		return "Length Required"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case RequestURITooLong:
		return "Request URI Too Long"
	case UnsupportedMediaType:
		return "Unsupported Media Type"
	case HeaderFieldsTooLarge:
		return "Request Header Fields Too Large"
	case TooManyRequests:
		return "Too Many Requests"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case BadGateway:
		return "Bad Gateway"
	case ServiceUnavailable:
		return "Service Unavailable"
	case VersionNotSupported:
		return "Version Not Supported"
	}

	return "Unknown Status Code"
}
