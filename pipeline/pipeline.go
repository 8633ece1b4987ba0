package pipeline

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/wireline-dev/wireline/config"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/status"
)

// Pipeline owns the interceptor list and the route table. Dispatching is
// read-only with respect to both, so concurrent workers share a single
// instance; Reload swaps the route table under a write lock.
type Pipeline struct {
	mu           sync.RWMutex
	routes       routeTable
	interceptors []Interceptor
	dev          bool
	log          *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	return &Pipeline{
		routes: make(routeTable),
		dev:    cfg.Log.Development,
		log:    log,
	}
}

// Use appends an interceptor to the chain. Ordering is registration order:
// the first interceptor registered is the first to see every request. Must
// not be called once dispatching has started.
func (p *Pipeline) Use(interceptor Interceptor) *Pipeline {
	p.interceptors = append(p.interceptors, interceptor)
	return p
}

// Install atomically replaces the route table with the contents of the set.
// In-flight dispatches finish against the table they started with; new ones
// see the replacement. The same call serves initial registration and live
// reloads.
func (p *Pipeline) Install(set *RouteSet) {
	p.mu.Lock()
	p.routes = set.routes
	p.mu.Unlock()
}

// Dispatch runs the request through the interceptor chain and the terminal
// route stage, returning a response in all cases. A panicking handler is
// translated into an internal server error instead of taking the worker down.
func (p *Pipeline) Dispatch(request *wire.Request) (resp *wire.Response) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler panic: %v", r)
			request.Env.Error = err
			p.log.Error("recovered handler panic",
				slog.String("path", request.Path),
				slog.Any("panic", r),
			)
			resp = p.fail(request, err)
		}
	}()

	p.mu.RLock()
	routes := p.routes
	p.mu.RUnlock()

	// The bucket must be known before the chain runs, otherwise the
	// rate-limit stage cannot see past the terminal stage it sits in front
	// of. A miss leaves the default bucket in place; the 404 is produced by
	// the terminal stage after the chain has had its say.
	if methods, found := routes.lookup(request.Path); found {
		if route, found := methods[request.Verb]; found {
			request.Env.Bucket = route.Bucket
		}
	}

	chain := NewChain(p.interceptors, func(request *wire.Request) *wire.Response {
		return p.dispatch(routes, request)
	})

	resp = chain.Next(request)
	if resp == nil {
		// A stage returning nil means "whatever is on the request already".
		resp = request.Respond()
	}

	return resp
}

// dispatch is the terminal stage: route lookup plus the not-found,
// method-not-allowed and media-type refusals.
func (p *Pipeline) dispatch(routes routeTable, request *wire.Request) *wire.Response {
	methods, found := routes.lookup(request.Path)
	if !found {
		request.Env.Error = status.ErrNotFound
		return request.Respond().Error(status.ErrNotFound)
	}

	route, found := methods[request.Verb]
	if !found {
		allowed := allowString(methods)
		request.Env.Error = status.ErrMethodNotAllowed
		request.Env.AllowedVerbs = allowed

		return request.Respond().
			Header("Allow", allowed).
			Error(status.ErrMethodNotAllowed)
	}

	if len(route.ContentType) > 0 && !sameMediaType(route.ContentType, request.ContentType) {
		request.Env.Error = status.ErrUnsupportedMediaType
		return request.Respond().Error(status.ErrUnsupportedMediaType)
	}

	return route.Handler(request)
}

// fail renders a post-panic response. Detail is echoed back only in
// development mode.
func (p *Pipeline) fail(request *wire.Request, err error) *wire.Response {
	resp := request.Respond().Clear().Code(status.InternalServerError)

	if p.dev {
		return resp.String(err.Error())
	}

	return resp.String(string(status.Text(status.InternalServerError)))
}
