package line

import (
	"errors"
	"log/slog"
	"time"

	"github.com/wireline-dev/wireline/config"
	"github.com/wireline-dev/wireline/pipeline"
	"github.com/wireline-dev/wireline/transport"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/status"
)

// Suit ties the parser, the pipeline and the serializer together into a
// complete per-connection serving procedure.
type Suit struct {
	cfg  *config.Config
	pipe *pipeline.Pipeline
	log  *slog.Logger
}

func New(cfg *config.Config, pipe *pipeline.Pipeline, log *slog.Logger) *Suit {
	return &Suit{
		cfg:  cfg,
		pipe: pipe,
		log:  log,
	}
}

// Serve reads one request off the client, runs it through the pipeline,
// flushes the response exactly once and closes the client. It never returns
// an error: every failure class has its terminal handling right here.
func (s *Suit) Serve(client transport.Client) {
	defer client.Close()

	started := time.Now()
	request := wire.NewRequest(client.Remote(), s.cfg.Wire.HeadersPrealloc)
	parser := NewParser(s.cfg, client, request)
	serializer := NewSerializer(client, s.cfg.Response.BuffSize, s.cfg.Response.DefaultHeaders)

	if err := parser.Parse(); err != nil {
		s.reject(serializer, request, err)
		return
	}

	resp := s.pipe.Dispatch(request)

	// the flush happens exactly once per request; a failed flush means the
	// peer is gone and there is nothing left to salvage
	_ = serializer.Write(request.Dialect, resp)

	attrs := []any{
		slog.String("verb", request.Verb.String()),
		slog.String("path", request.Path),
		slog.String("dialect", request.Dialect.String()),
		slog.Int("status", int(resp.StatusCode())),
		slog.Duration("duration", time.Since(started)),
		slog.String("remote", request.Effective.String()),
		slog.String("id", request.ID),
	}
	if request.Env.Error != nil {
		attrs = append(attrs, slog.String("error", request.Env.Error.Error()))
	}

	s.log.Info("request served", attrs...)
}

// reject terminates a connection whose request never made it through parsing.
// Unsupported versions are dropped without a formal response; other peer
// faults get a best-effort error response; transport failures are dropped
// silently.
func (s *Suit) reject(serializer *Serializer, request *wire.Request, err error) {
	remote := slog.String("remote", request.Remote.String())

	if errors.Is(err, status.ErrUnsupportedVersion) {
		s.log.Warn("dropping connection: unsupported protocol version", remote)
		return
	}

	var statusErr status.Error
	if !errors.As(err, &statusErr) {
		s.log.Debug("dropping connection: transport failure",
			remote, slog.String("cause", err.Error()))
		return
	}

	s.log.Info("rejecting malformed request",
		remote, slog.String("cause", err.Error()))

	// best effort: the transport may well be beyond writing already
	_ = serializer.Write(request.Dialect, wire.NewResponse().Error(err))
}
