package usecase_test

import (
	"errors"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository/mocks"
	"CoinPulse/internal/repository"
	"CoinPulse/internal/usecase"
	"CoinPulse/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var params = usecase.PredictionParams{ShortWindow: 5, LongWindow: 10, HistoryDays: 10, AccuracyWindow: 7 * 24 * time.Hour}

func rising() models.PriceSeries {
	s := models.PriceSeries{Symbol: "bitcoin"}
	for i := 1; i <= 10; i++ {
		s.Prices = append(s.Prices, decimal.NewFromInt(int64(i)))
		s.Dates = append(s.Dates, time.Date(2025, 1, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	}
	return s
}

func TestPredictionUseCase_PredictAppends(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := mocks.NewMockQuoteProvider(ctrl)
	p.EXPECT().FetchHistory(gomock.Any(), "bitcoin", 10).Return(rising(), nil).Times(2)

	now := time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	uc := usecase.NewPredictionUseCase(p, repository.NewMemoryLedger(), m, params).
		WithClock(func() time.Time { return now })

	// Act
	first, err := uc.Predict(t.Context(), "bitcoin")
	require.NoError(t, err)
	second, err := uc.Predict(t.Context(), "bitcoin")
	require.NoError(t, err)

	// Assert
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
	require.Equal(t, models.SignalBuy, first.Signal)
	require.True(t, first.ShortMA.Equal(decimal.NewFromInt(8)))
	require.True(t, first.LongMA.Equal(decimal.RequireFromString("5.5")))
	require.Len(t, first.Dates, 10)
	require.Equal(t, now, first.PredictedAt)
	require.Nil(t, first.Actual)
}

func TestPredictionUseCase_ProviderFailureAppendsNothing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := mocks.NewMockQuoteProvider(ctrl)
	p.EXPECT().FetchHistory(gomock.Any(), "bitcoin", 10).
		Return(models.PriceSeries{}, &models.ProviderError{Op: "market_chart", StatusCode: 429, Err: errors.New("slow down")})

	ledger := repository.NewMemoryLedger()
	uc := usecase.NewPredictionUseCase(p, ledger, nil, params)

	_, err := uc.Predict(t.Context(), "bitcoin")
	var pe *models.ProviderError
	require.ErrorAs(t, err, &pe)
	require.True(t, pe.RateLimited())

	all, err := ledger.All(t.Context())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestPredictionUseCase_Accuracy(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := mocks.NewMockQuoteProvider(ctrl)
	p.EXPECT().FetchHistory(gomock.Any(), "bitcoin", 10).Return(rising(), nil).Times(2)

	now := time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC)
	uc := usecase.NewPredictionUseCase(p, repository.NewMemoryLedger(), nil, params).
		WithClock(func() time.Time { return now })

	empty, err := uc.Accuracy(t.Context())
	require.NoError(t, err)
	require.Equal(t, models.Accuracy{}, empty.WeeklyAccuracy)
	require.NotNil(t, empty.HistoricalData)

	_, err = uc.Predict(t.Context(), "bitcoin")
	require.NoError(t, err)
	_, err = uc.Predict(t.Context(), "bitcoin")
	require.NoError(t, err)

	_, err = uc.RecordOutcome(t.Context(), 1, models.SignalBuy)
	require.NoError(t, err)
	_, err = uc.RecordOutcome(t.Context(), 2, models.SignalSell)
	require.NoError(t, err)

	_, err = uc.RecordOutcome(t.Context(), 9, models.SignalBuy)
	require.ErrorIs(t, err, models.ErrPredictionNotFound)

	res, err := uc.Accuracy(t.Context())
	require.NoError(t, err)
	require.Equal(t, models.Accuracy{Accuracy: 50, Total: 2, Correct: 1}, res.WeeklyAccuracy)
	require.Len(t, res.HistoricalData, 2)
}
