package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"CoinPulse/internal/handler/ws"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
)

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	stream     *ws.StreamHandler
	closers    []namedCloser
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, stream *ws.StreamHandler) *App {
	return &App{cfg: cfg, logger: l, httpServer: srv, stream: stream}
}

// AddCloser registers an infrastructure client closed on shutdown, in registration order.
func (a *App) AddCloser(name string, c io.Closer) {
	a.closers = append(a.closers, namedCloser{name: name, c: c})
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("app started",
		applogger.String("env", a.cfg.Environment),
		applogger.Strings("symbols", a.cfg.Market.TrackedSymbols),
		applogger.Duration("cache_ttl_ms", a.cfg.Market.CacheTTL),
		applogger.Duration("broadcast_interval_ms", a.cfg.Market.BroadcastInterval),
	)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Shutdown gracefully stops all services.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Hijacked websocket connections are not tracked by the HTTP server.
	if a.stream != nil {
		a.stream.Close()
	}
	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
