package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	"CoinPulse/internal/services/predictor"
)

type PredictionParams struct {
	ShortWindow    int
	LongWindow     int
	HistoryDays    int
	AccuracyWindow time.Duration
}

// PredictionUseCase runs the moving-average predictor over provider history and
// keeps every result in the ledger.
type PredictionUseCase struct {
	provider domrepo.QuoteProvider
	store    domrepo.PredictionStore
	metrics  domrepo.Metrics
	params   PredictionParams
	now      func() time.Time
}

func NewPredictionUseCase(p domrepo.QuoteProvider, store domrepo.PredictionStore, m domrepo.Metrics, params PredictionParams) *PredictionUseCase {
	return &PredictionUseCase{provider: p, store: store, metrics: m, params: params, now: time.Now}
}

// WithClock overrides time.Now for timestamps and the accuracy cutoff.
func (uc *PredictionUseCase) WithClock(now func() time.Time) *PredictionUseCase {
	uc.now = now
	return uc
}

// Predict fetches the daily series for symbol, scores it and appends the record.
func (uc *PredictionUseCase) Predict(ctx context.Context, symbol string) (models.PredictionRecord, error) {
	series, err := uc.provider.FetchHistory(ctx, symbol, uc.params.HistoryDays)
	if err != nil {
		return models.PredictionRecord{}, fmt.Errorf("predict %s: %w", symbol, err)
	}

	res := predictor.Predict(series.Prices, uc.params.ShortWindow, uc.params.LongWindow)
	rec := models.PredictionRecord{
		Symbol:      symbol,
		Signal:      res.Signal,
		Rationale:   res.Rationale,
		ShortMA:     res.ShortMA,
		LongMA:      res.LongMA,
		Prices:      series.Prices,
		Dates:       series.Dates,
		PredictedAt: uc.now(),
	}

	id, err := uc.store.Append(ctx, rec)
	if err != nil {
		return models.PredictionRecord{}, fmt.Errorf("append prediction: %w", err)
	}
	rec.ID = id

	if uc.metrics != nil {
		uc.metrics.RecordPrediction(string(rec.Signal))
	}
	return rec, nil
}

// RecordOutcome annotates prediction id with the observed signal.
func (uc *PredictionUseCase) RecordOutcome(ctx context.Context, id int64, actual models.Signal) (models.PredictionRecord, error) {
	return uc.store.RecordOutcome(ctx, id, actual)
}

// Accuracy returns the rolling hit rate together with the full history.
func (uc *PredictionUseCase) Accuracy(ctx context.Context) (*models.AccuracyResponse, error) {
	acc, err := uc.store.Accuracy(ctx, uc.params.AccuracyWindow, uc.now())
	if err != nil {
		return nil, fmt.Errorf("accuracy: %w", err)
	}
	all, err := uc.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if all == nil {
		all = []models.PredictionRecord{}
	}
	return &models.AccuracyResponse{WeeklyAccuracy: acc, HistoricalData: all}, nil
}
