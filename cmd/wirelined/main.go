package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wireline-dev/wireline"
	"github.com/wireline-dev/wireline/config"
	"github.com/wireline-dev/wireline/middleware"
	"github.com/wireline-dev/wireline/ratelimit"
	"github.com/wireline-dev/wireline/wire"
	"github.com/wireline-dev/wireline/wire/status"
	"github.com/wireline-dev/wireline/wire/verb"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	listen := config.Listen{TCP: ":8080", UDP: ":5060"}
	cfg := config.Default()

	if *configPath != "" {
		file, err := config.Load(*configPath)
		if err != nil {
			slog.Error("loading configuration", slog.String("cause", err.Error()))
			os.Exit(1)
		}

		cfg = file.Config
		if file.Listen.TCP != "" {
			listen.TCP = file.Listen.TCP
		}
		if file.Listen.UDP != "" {
			listen.UDP = file.Listen.UDP
		}
		listen.Metrics = file.Listen.Metrics
	}

	app := wireline.New(cfg).
		ListenTCP(listen.TCP).
		ListenUDP(listen.UDP)

	app.Use(middleware.RequestID())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	app.Use(middleware.NewMetrics(reg).Interceptor())

	if secret := os.Getenv("WIRELINE_JWT_SECRET"); secret != "" {
		app.Use(middleware.Auth([]byte(secret)))
	}

	app.Use(middleware.RateLimit(ratelimit.New(cfg.RateLimit)))

	registerRoutes(app)

	if listen.Metrics != "" {
		go serveMetrics(app.Logger(), listen.Metrics, reg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx); err != nil {
		app.Logger().Error("serving", slog.String("cause", err.Error()))
		os.Exit(1)
	}
}

func registerRoutes(app *wireline.App) {
	app.Route(verb.GET, "/ping", "", func(request *wire.Request) *wire.Response {
		return request.Respond().String("pong")
	})

	app.Route(verb.POST, "/echo", "", func(request *wire.Request) *wire.Response {
		return request.Respond().Bytes(request.Body.Bytes())
	})

	app.Route(verb.GET, "/whoami", "", func(request *wire.Request) *wire.Response {
		return request.Respond().JSON(map[string]string{
			"remote":    request.Remote.String(),
			"effective": request.Effective.String(),
			"locator":   request.Locator,
		})
	})

	app.RouteLimited(verb.REGISTER, "/register", "", "signaling", func(request *wire.Request) *wire.Response {
		return request.Respond().Code(status.OK)
	})

	app.RouteLimited(verb.INVITE, "/call", "", "signaling", func(request *wire.Request) *wire.Response {
		return request.Respond().Code(status.Ringing)
	})
}

func serveMetrics(log *slog.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.Info("metrics exposition", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics listener failed", slog.String("cause", err.Error()))
	}
}
