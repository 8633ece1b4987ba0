package pipeline

import "github.com/wireline-dev/wireline/wire"

// Handler processes a fully parsed request and produces a response.
type Handler func(*wire.Request) *wire.Response

// Interceptor is one stage of the pipeline. It may call chain.Next to pass
// control down, decline to call it (halting the chain, which is how auth and
// rate-limit failures short-circuit), or mutate the request before and after
// the call.
type Interceptor func(*wire.Request, *Chain) *wire.Response

// Chain threads an explicit index through the interceptor list. An earlier
// incarnation built the chain out of mutable closures wrapping each other,
// which made the composition order depend on capture semantics; the index
// form has no such trap. The first registered interceptor is the outermost:
// it runs first and regains control last.
type Chain struct {
	interceptors []Interceptor
	terminal     Handler
	index        int
}

func NewChain(interceptors []Interceptor, terminal Handler) *Chain {
	return &Chain{
		interceptors: interceptors,
		terminal:     terminal,
	}
}

// Wrap binds interceptors to a single handler, producing a handler running
// them in order before it. This is how a route carries stages of its own on
// top of the pipeline-wide ones.
func Wrap(handler Handler, interceptors ...Interceptor) Handler {
	return func(request *wire.Request) *wire.Response {
		return NewChain(interceptors, handler).Next(request)
	}
}

// Next invokes the rest of the chain: the following interceptor if any are
// left, the terminal stage otherwise.
func (c *Chain) Next(request *wire.Request) *wire.Response {
	if c.index < len(c.interceptors) {
		interceptor := c.interceptors[c.index]
		c.index++

		return interceptor(request, c)
	}

	return c.terminal(request)
}
