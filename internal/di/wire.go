//go:build wireinject
// +build wireinject

package di

import (
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideHTTPClient,
		ProvideQuoteProvider,
		ProvideRedisCache,

		// Repositories and caches
		ProvideQuoteCache,
		ProvidePredictionStore,

		// Use cases
		ProvideMarketUseCase,
		ProvidePredictionUseCase,
		ProvideBroadcaster,

		// Transport
		ProvideRateLimit,
		ProvideMarketHandler,
		ProvidePredictionsHandler,
		ProvideStreamHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
