package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wireline-dev/wireline/pipeline"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/status"
)

// Principal is the identity an authenticated bearer token resolves to.
type Principal struct {
	Subject string
}

// RateLimitKey keys the rate limiter by the authenticated subject instead of
// the network address.
func (p Principal) RateLimitKey() string {
	return "principal:" + p.Subject
}

// Auth validates a Bearer token from the Authorization header and attaches
// the resolved principal to the request. A request without the header passes
// through anonymously; a present but invalid token halts the chain with an
// unauthorized response.
func Auth(secret []byte) pipeline.Interceptor {
	keyfunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}

		return secret, nil
	}

	return func(request *wire.Request, chain *pipeline.Chain) *wire.Response {
		header := request.Headers.Value("Authorization")
		if header == "" {
			return chain.Next(request)
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return unauthorized(request, fmt.Errorf("authorization scheme is not Bearer"))
		}

		token, err := jwt.Parse(raw, keyfunc)
		if err != nil {
			return unauthorized(request, err)
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			return unauthorized(request, fmt.Errorf("token carries no subject"))
		}

		request.Principal = Principal{Subject: subject}

		return chain.Next(request)
	}
}

func unauthorized(request *wire.Request, cause error) *wire.Response {
	request.Env.Error = fmt.Errorf("%w: %w", status.ErrUnauthorized, cause)
	return request.Respond().Error(status.ErrUnauthorized)
}
