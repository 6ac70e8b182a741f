package repository

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks CoinPulse/internal/domain/repository QuoteProvider

import (
	"context"
	"time"

	"CoinPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

// QuoteProvider is the external price source. Failures are returned as *models.ProviderError.
type QuoteProvider interface {
	FetchPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
	FetchHistory(ctx context.Context, symbol string, days int) (models.PriceSeries, error)
}

// PredictionStore is the prediction ledger.
type PredictionStore interface {
	Append(ctx context.Context, rec models.PredictionRecord) (int64, error)
	RecordOutcome(ctx context.Context, id int64, actual models.Signal) (models.PredictionRecord, error)
	Accuracy(ctx context.Context, window time.Duration, now time.Time) (models.Accuracy, error)
	All(ctx context.Context) ([]models.PredictionRecord, error)
}

type Metrics interface {
	RecordProviderCall(op string, ok bool)
	RecordCacheLookup(result string)
	RecordTick(outcome string)
	RecordNotification()
	RecordPrediction(signal string)
	RecordValuation(v float64)
	SubscriberConnected()
	SubscriberDisconnected()
	RecordLatency(op string, seconds float64)
}
