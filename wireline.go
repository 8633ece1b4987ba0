package wireline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/wireline-dev/wireline/config"
	"github.com/wireline-dev/wireline/internal/protocol/line"
	"github.com/wireline-dev/wireline/pipeline"
	"github.com/wireline-dev/wireline/transport"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/verb"
)

// App assembles transports, the pipeline and the configuration into a
// runnable server. Registration methods are not safe to call once Serve has
// started.
type App struct {
	cfg        *config.Config
	log        *slog.Logger
	pipe       *pipeline.Pipeline
	routes     *pipeline.RouteSet
	transports []transport.Transport
	installed  sync.Once

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	log := newLogger(cfg.Log)

	return &App{
		cfg:    cfg,
		log:    log,
		pipe:   pipeline.New(cfg, log),
		routes: pipeline.NewRouteSet(),
	}
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (a *App) Logger() *slog.Logger {
	return a.log
}

// Use appends an interceptor to the pipeline. Registration order is
// execution order.
func (a *App) Use(interceptor pipeline.Interceptor) *App {
	a.pipe.Use(interceptor)
	return a
}

// Route registers a handler for the verb and path, optionally restricted to
// a content type.
func (a *App) Route(v verb.Verb, path, contentType string, handler pipeline.Handler) *App {
	a.routes.Add(v, path, contentType, handler)
	return a
}

// RouteLimited registers a handler whose requests count against the named
// rate-limit bucket.
func (a *App) RouteLimited(v verb.Verb, path, contentType, bucket string, handler pipeline.Handler) *App {
	a.routes.AddLimited(v, path, contentType, bucket, handler)
	return a
}

// Reload atomically replaces the live route table with a freshly built set.
// Requests already in flight finish against the table they started with.
func (a *App) Reload(set *pipeline.RouteSet) {
	a.pipe.Install(set)
}

// ListenTCP attaches a stream transport on addr.
func (a *App) ListenTCP(addr string) *App {
	a.transports = append(a.transports,
		transport.NewTCP(addr, a.cfg.NET.AcceptInterruptPeriod))
	return a
}

// ListenTLS attaches a stream transport on addr speaking TLS with the given
// certificates.
func (a *App) ListenTLS(addr string, certs ...tls.Certificate) *App {
	a.transports = append(a.transports,
		transport.NewTLS(addr, a.cfg.NET.AcceptInterruptPeriod, certs))
	return a
}

// ListenUDP attaches a datagram transport on addr. One datagram carries one
// complete request; the response is sent back to the datagram's source.
func (a *App) ListenUDP(addr string) *App {
	a.transports = append(a.transports,
		transport.NewUDP(addr, a.cfg.NET.AcceptInterruptPeriod, a.cfg.NET.ReadBufferSize))
	return a
}

// Dispatch pushes a request through the pipeline synchronously on the
// caller's goroutine, no transport involved. This is the direct in-process
// mode tests and embedders use.
func (a *App) Dispatch(request *wire.Request) *wire.Response {
	a.install()
	return a.pipe.Dispatch(request)
}

// Serve binds all attached transports and serves until the context is
// cancelled. A bind failure is fatal: nothing is served and the already
// bound transports are released. Cancellation withdraws new work; requests
// already being served run to completion.
func (a *App) Serve(ctx context.Context) error {
	if len(a.transports) == 0 {
		return errors.New("no transports attached")
	}

	a.install()
	suit := line.New(a.cfg, a.pipe, a.log)

	for _, t := range a.transports {
		if err := t.Bind(); err != nil {
			a.closeTransports()
			return fmt.Errorf("bind: %w", err)
		}

		a.log.Info("listening", slog.String("addr", t.Addr().String()))
	}

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	var wg sync.WaitGroup
	for _, t := range a.transports {
		for i := 0; i < a.cfg.NET.Workers; i++ {
			wg.Add(1)
			go func(t transport.Transport) {
				defer wg.Done()
				a.worker(ctx, t, suit)
			}(t)
		}
	}

	<-ctx.Done()
	a.closeTransports()
	wg.Wait()

	return nil
}

// GracefulStop withdraws new work from all workers. In-flight requests
// complete; Serve returns once the last worker parks.
func (a *App) GracefulStop() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Stop additionally closes the transports right away instead of waiting for
// the accept loops to notice the cancellation.
func (a *App) Stop() {
	a.GracefulStop()
	a.closeTransports()
}

// worker pulls units of work off the transport until cancellation. Each unit
// is served synchronously: a worker is busy for exactly one connection at a
// time.
func (a *App) worker(ctx context.Context, t transport.Transport, suit *line.Suit) {
	buff := make([]byte, a.cfg.NET.ReadBufferSize)

	for {
		conn, err := t.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}

			a.log.Error("accept failed", slog.String("cause", err.Error()))
			time.Sleep(50 * time.Millisecond)
			continue
		}

		suit.Serve(transport.NewClient(conn, a.cfg.NET.ReadTimeout, buff))
	}
}

func (a *App) install() {
	a.installed.Do(func() {
		a.pipe.Install(a.routes)
	})
}

func (a *App) closeTransports() {
	for _, t := range a.transports {
		_ = t.Close()
	}
}
