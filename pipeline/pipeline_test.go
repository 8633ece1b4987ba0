package pipeline

import (
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wireline-dev/wireline/config"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/status"
	"github.com/wireline-dev/wireline/wire/verb"
)

func newPipeline(dev bool) *Pipeline {
	cfg := config.Default()
	cfg.Log.Development = dev

	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newRequest(v verb.Verb, path string) *wire.Request {
	request := wire.NewRequest(&net.TCPAddr{
		IP:   net.IPv4(192, 0, 2, 1),
		Port: 54321,
	}, 10)
	request.Verb = v
	request.Path = path

	return request
}

func body(resp *wire.Response) string {
	return string(resp.Expose().Body)
}

func TestDispatch(t *testing.T) {
	t.Run("matched route", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Install(NewRouteSet().Add(verb.GET, "/hello", "", func(request *wire.Request) *wire.Response {
			return request.Respond().String("hi")
		}))

		resp := pipe.Dispatch(newRequest(verb.GET, "/hello"))
		require.Equal(t, status.OK, resp.StatusCode())
		require.Equal(t, "hi", body(resp))
	})

	t.Run("trailing slash is insignificant", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Install(NewRouteSet().Add(verb.GET, "/hello", "", func(request *wire.Request) *wire.Response {
			return request.Respond().String("hi")
		}))

		resp := pipe.Dispatch(newRequest(verb.GET, "/hello/"))
		require.Equal(t, status.OK, resp.StatusCode())
	})

	t.Run("unknown path", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Install(NewRouteSet())

		request := newRequest(verb.GET, "/nowhere")
		resp := pipe.Dispatch(request)
		require.Equal(t, status.NotFound, resp.StatusCode())
		require.ErrorIs(t, request.Env.Error, status.ErrNotFound)
	})

	t.Run("known path wrong verb", func(t *testing.T) {
		pipe := newPipeline(false)
		set := NewRouteSet().
			Add(verb.GET, "/hello", "", func(request *wire.Request) *wire.Response {
				return request.Respond()
			}).
			Add(verb.POST, "/hello", "", func(request *wire.Request) *wire.Response {
				return request.Respond()
			})
		pipe.Install(set)

		request := newRequest(verb.DELETE, "/hello")
		resp := pipe.Dispatch(request)
		require.Equal(t, status.MethodNotAllowed, resp.StatusCode())
		require.Equal(t, "GET,POST", request.Env.AllowedVerbs)

		var allow string
		for _, pair := range resp.Expose().Headers {
			if pair.Key == "Allow" {
				allow = pair.Value
			}
		}
		require.Equal(t, "GET,POST", allow)
	})

	t.Run("media type mismatch", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Install(NewRouteSet().Add(verb.POST, "/ingest", "application/json", func(request *wire.Request) *wire.Response {
			return request.Respond()
		}))

		request := newRequest(verb.POST, "/ingest")
		request.ContentType = "text/html"
		resp := pipe.Dispatch(request)
		require.Equal(t, status.UnsupportedMediaType, resp.StatusCode())
	})

	t.Run("media type parameters ignored", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Install(NewRouteSet().Add(verb.POST, "/ingest", "application/json", func(request *wire.Request) *wire.Response {
			return request.Respond().String("ok")
		}))

		request := newRequest(verb.POST, "/ingest")
		request.ContentType = "Application/JSON; charset=utf-8"
		resp := pipe.Dispatch(request)
		require.Equal(t, status.OK, resp.StatusCode())
	})

	t.Run("bucket pre-filled for tagged route", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Install(NewRouteSet().AddLimited(verb.POST, "/login", "", "auth", func(request *wire.Request) *wire.Response {
			return request.Respond()
		}))

		var seen string
		pipe.Use(func(request *wire.Request, chain *Chain) *wire.Response {
			seen = request.Env.Bucket
			return chain.Next(request)
		})

		pipe.Dispatch(newRequest(verb.POST, "/login"))
		require.Equal(t, "auth", seen)
	})
}

func TestInterceptors(t *testing.T) {
	t.Run("registration order is execution order", func(t *testing.T) {
		pipe := newPipeline(false)
		var trace []string

		pipe.Use(func(request *wire.Request, chain *Chain) *wire.Response {
			trace = append(trace, "first-pre")
			resp := chain.Next(request)
			trace = append(trace, "first-post")
			return resp
		})
		pipe.Use(func(request *wire.Request, chain *Chain) *wire.Response {
			trace = append(trace, "second-pre")
			resp := chain.Next(request)
			trace = append(trace, "second-post")
			return resp
		})
		pipe.Install(NewRouteSet().Add(verb.GET, "/", "", func(request *wire.Request) *wire.Response {
			trace = append(trace, "terminal")
			return request.Respond()
		}))

		pipe.Dispatch(newRequest(verb.GET, "/"))
		require.Equal(t,
			[]string{"first-pre", "second-pre", "terminal", "second-post", "first-post"},
			trace,
		)
	})

	t.Run("halting skips the rest of the chain", func(t *testing.T) {
		pipe := newPipeline(false)
		reached := false

		pipe.Use(func(request *wire.Request, chain *Chain) *wire.Response {
			return request.Respond().Error(status.ErrUnauthorized)
		})
		pipe.Install(NewRouteSet().Add(verb.GET, "/", "", func(request *wire.Request) *wire.Response {
			reached = true
			return request.Respond()
		}))

		resp := pipe.Dispatch(newRequest(verb.GET, "/"))
		require.Equal(t, status.Unauthorized, resp.StatusCode())
		require.False(t, reached)
	})

	t.Run("wrapped handler runs its own stages", func(t *testing.T) {
		pipe := newPipeline(false)
		var trace []string

		handler := Wrap(
			func(request *wire.Request) *wire.Response {
				trace = append(trace, "handler")
				return request.Respond()
			},
			func(request *wire.Request, chain *Chain) *wire.Response {
				trace = append(trace, "own-stage")
				return chain.Next(request)
			},
		)
		pipe.Install(NewRouteSet().Add(verb.GET, "/", "", handler))

		pipe.Dispatch(newRequest(verb.GET, "/"))
		require.Equal(t, []string{"own-stage", "handler"}, trace)
	})

	t.Run("nil response falls back to the request's builder", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Use(func(request *wire.Request, chain *Chain) *wire.Response {
			request.Respond().Code(status.Accepted)
			return nil
		})
		pipe.Install(NewRouteSet())

		resp := pipe.Dispatch(newRequest(verb.GET, "/"))
		require.Equal(t, status.Accepted, resp.StatusCode())
	})
}

func TestPanicRecovery(t *testing.T) {
	install := func(pipe *Pipeline) {
		pipe.Install(NewRouteSet().Add(verb.GET, "/boom", "", func(request *wire.Request) *wire.Response {
			panic("it went off")
		}))
	}

	t.Run("production hides detail", func(t *testing.T) {
		pipe := newPipeline(false)
		install(pipe)

		request := newRequest(verb.GET, "/boom")
		resp := pipe.Dispatch(request)
		require.Equal(t, status.InternalServerError, resp.StatusCode())
		require.Equal(t, "Internal Server Error", body(resp))
		require.Error(t, request.Env.Error)
	})

	t.Run("development echoes detail", func(t *testing.T) {
		pipe := newPipeline(true)
		install(pipe)

		resp := pipe.Dispatch(newRequest(verb.GET, "/boom"))
		require.Equal(t, status.InternalServerError, resp.StatusCode())
		require.Contains(t, body(resp), "it went off")
	})
}

func TestInstall(t *testing.T) {
	t.Run("replaces the table atomically", func(t *testing.T) {
		pipe := newPipeline(false)
		pipe.Install(NewRouteSet().Add(verb.GET, "/old", "", func(request *wire.Request) *wire.Response {
			return request.Respond().String("old")
		}))

		pipe.Install(NewRouteSet().Add(verb.GET, "/new", "", func(request *wire.Request) *wire.Response {
			return request.Respond().String("new")
		}))

		require.Equal(t, status.NotFound, pipe.Dispatch(newRequest(verb.GET, "/old")).StatusCode())
		require.Equal(t, "new", body(pipe.Dispatch(newRequest(verb.GET, "/new"))))
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		set := NewRouteSet().Add(verb.GET, "/twice", "", func(request *wire.Request) *wire.Response {
			return request.Respond()
		})

		require.Panics(t, func() {
			set.Add(verb.GET, "/twice/", "", func(request *wire.Request) *wire.Response {
				return request.Respond()
			})
		})
	})
}
