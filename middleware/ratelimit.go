package middleware

import (
	"github.com/wireline-dev/wireline/pipeline"
	"github.com/wireline-dev/wireline/ratelimit"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/status"
)

// RateLimit halts the chain with a too-many-requests response whenever the
// limiter rejects the request's identity for the matched route's bucket. A
// violation is a first-class outcome, not an error, but it still lands in the
// request log line via the environment.
func RateLimit(limiter *ratelimit.Limiter) pipeline.Interceptor {
	return func(request *wire.Request, chain *pipeline.Chain) *wire.Response {
		if limiter.Violates(request.Env.Bucket, ratelimit.Identity(request)) {
			request.Env.Error = status.ErrTooManyRequests
			return request.Respond().Error(status.ErrTooManyRequests)
		}

		return chain.Next(request)
	}
}
