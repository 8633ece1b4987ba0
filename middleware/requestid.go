package middleware

import (
	"github.com/dchest/uniuri"
	"github.com/wireline-dev/wireline/pipeline"
	"github.com/wireline-dev/wireline/wire"
)

const idLength = 12

// RequestID tags every request with a short random identifier and echoes it
// back in the X-Request-ID response header. Register it first, so the id is
// present for every stage behind it.
func RequestID() pipeline.Interceptor {
	return func(request *wire.Request, chain *pipeline.Chain) *wire.Response {
		request.ID = uniuri.NewLen(idLength)

		resp := chain.Next(request)
		if resp == nil {
			resp = request.Respond()
		}

		return resp.Header("X-Request-ID", request.ID)
	}
}
