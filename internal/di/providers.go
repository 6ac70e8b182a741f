package di

import (
	"context"
	"time"

	"CoinPulse/internal/domain/repository"
	"CoinPulse/internal/handler/api"
	"CoinPulse/internal/handler/ws"
	internalrepo "CoinPulse/internal/repository"
	"CoinPulse/internal/service/cache"
	"CoinPulse/internal/service/coingecko"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/internal/usecase"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/metrics"
	"CoinPulse/pkg/server"

	"github.com/labstack/echo/v4"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the outbound client used for the quote provider.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))
}

// ProvideQuoteProvider creates the CoinGecko client.
func ProvideQuoteProvider(cfg *config.Config, hc *xhttp.Client, m repository.Metrics) repository.QuoteProvider {
	return coingecko.New(cfg.Provider.BaseURL,
		coingecko.WithAPIKey(cfg.Provider.APIKey),
		coingecko.WithVsCurrency(cfg.Provider.VsCurrency),
		coingecko.WithHTTPClient(hc),
		coingecko.WithMetrics(m),
	)
}

// ProvideRedisCache connects the shared snapshot layer. It returns nil when Redis is
// disabled or unreachable; the quote cache then works process-local.
func ProvideRedisCache(cfg *config.Config, l *applogger.Logger) *cache.RedisCache {
	if !cfg.Redis.Enabled {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		l.Warn("redis unavailable, quote cache stays local", applogger.Error(err))
		return nil
	}
	l.Info("redis connected", applogger.String("addr", cfg.Redis.Addr))
	return rc
}

// ProvideQuoteCache creates the TTL cache over the tracked symbol set.
func ProvideQuoteCache(
	cfg *config.Config,
	p repository.QuoteProvider,
	rc *cache.RedisCache,
	m repository.Metrics,
	l *applogger.Logger,
) *cache.QuoteCache {
	opts := []cache.QuoteCacheOption{
		cache.WithCacheMetrics(m),
		cache.WithCacheLogger(l),
	}
	if rc != nil {
		opts = append(opts, cache.WithSharedLayer(rc, cfg.Redis.SnapshotKey))
	}
	return cache.NewQuoteCache(p, cfg.Market.TrackedSymbols, cfg.Market.CacheTTL, opts...)
}

// ProvidePredictionStore creates the in-memory ledger.
func ProvidePredictionStore() repository.PredictionStore {
	return internalrepo.NewMemoryLedger()
}

func ProvideMarketUseCase(cfg *config.Config, p repository.QuoteProvider) *usecase.MarketUseCase {
	return usecase.NewMarketUseCase(p, cfg.Market.TrackedSymbols)
}

func ProvidePredictionUseCase(
	cfg *config.Config,
	p repository.QuoteProvider,
	store repository.PredictionStore,
	m repository.Metrics,
) *usecase.PredictionUseCase {
	return usecase.NewPredictionUseCase(p, store, m, usecase.PredictionParams{
		ShortWindow:    cfg.Prediction.ShortWindow,
		LongWindow:     cfg.Prediction.LongWindow,
		HistoryDays:    cfg.Prediction.HistoryDays,
		AccuracyWindow: cfg.Prediction.AccuracyWindow,
	})
}

// ProvideBroadcaster creates the process-wide valuation tracker.
func ProvideBroadcaster(cfg *config.Config, qc *cache.QuoteCache, m repository.Metrics) *usecase.Broadcaster {
	return usecase.NewBroadcaster(qc, cfg.Market.NotificationThresholdPct, m)
}

// ProvideRateLimit returns the per-client limiter middleware, or nil when disabled.
func ProvideRateLimit(cfg *config.Config) echo.MiddlewareFunc {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return api.RateLimit(ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec))
}

func ProvideMarketHandler(l *applogger.Logger, uc *usecase.MarketUseCase, limit echo.MiddlewareFunc) *api.MarketEchoHandler {
	return api.NewMarketEchoHandler(l, uc, limit)
}

func ProvidePredictionsHandler(l *applogger.Logger, uc *usecase.PredictionUseCase, limit echo.MiddlewareFunc) *api.PredictionsEchoHandler {
	return api.NewPredictionsEchoHandler(l, uc, limit)
}

func ProvideStreamHandler(cfg *config.Config, l *applogger.Logger, b *usecase.Broadcaster, m repository.Metrics) *ws.StreamHandler {
	return ws.NewStreamHandler(l, b, cfg.Market.BroadcastInterval, m)
}

// ProvideHTTPServer builds the echo server with every route registered.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	market *api.MarketEchoHandler,
	preds *api.PredictionsEchoHandler,
	stream *ws.StreamHandler,
) *xhttp.Server {
	return xhttp.NewServer([]xhttp.Handler{market, preds, stream},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	stream *ws.StreamHandler,
	rc *cache.RedisCache,
) *server.App {
	app := server.New(cfg, l, srv, stream)
	if rc != nil {
		app.AddCloser("redis", rc)
	}
	return app
}
