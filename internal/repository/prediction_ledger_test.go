package repository

import (
	"testing"
	"time"

	"CoinPulse/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func rec(sig models.Signal, at time.Time) models.PredictionRecord {
	return models.PredictionRecord{Symbol: "bitcoin", Signal: sig, PredictedAt: at}
}

func TestMemoryLedger_IDsIncreaseByOne(t *testing.T) {
	l := NewMemoryLedger()
	now := time.Now()

	for want := int64(1); want <= 5; want++ {
		id, err := l.Append(t.Context(), rec(models.SignalBuy, now))
		require.NoError(t, err)
		require.Equal(t, want, id)
	}

	all, err := l.All(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, r := range all {
		require.Equal(t, int64(i+1), r.ID)
	}
}

func TestMemoryLedger_AppendIgnoresCallerID(t *testing.T) {
	l := NewMemoryLedger()
	r := rec(models.SignalHold, time.Now())
	r.ID = 42

	id, err := l.Append(t.Context(), r)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}

func TestMemoryLedger_RecordOutcome(t *testing.T) {
	l := NewMemoryLedger()
	id, _ := l.Append(t.Context(), rec(models.SignalBuy, time.Now()))

	got, err := l.RecordOutcome(t.Context(), id, models.SignalSell)
	require.NoError(t, err)
	require.NotNil(t, got.Actual)
	require.Equal(t, models.SignalSell, *got.Actual)

	// last write wins
	got, err = l.RecordOutcome(t.Context(), id, models.SignalBuy)
	require.NoError(t, err)
	require.Equal(t, models.SignalBuy, *got.Actual)

	all, _ := l.All(t.Context())
	require.Equal(t, models.SignalBuy, *all[0].Actual)
}

func TestMemoryLedger_RecordOutcomeNotFound(t *testing.T) {
	l := NewMemoryLedger()

	_, err := l.RecordOutcome(t.Context(), 999, models.SignalBuy)
	require.ErrorIs(t, err, models.ErrPredictionNotFound)

	_, _ = l.Append(t.Context(), rec(models.SignalBuy, time.Now()))
	_, err = l.RecordOutcome(t.Context(), 2, models.SignalBuy)
	require.ErrorIs(t, err, models.ErrPredictionNotFound)
	_, err = l.RecordOutcome(t.Context(), 0, models.SignalBuy)
	require.ErrorIs(t, err, models.ErrPredictionNotFound)
}

func TestMemoryLedger_AccuracyEmpty(t *testing.T) {
	l := NewMemoryLedger()
	now := time.Now()
	_, _ = l.Append(t.Context(), rec(models.SignalBuy, now)) // never annotated

	acc, err := l.Accuracy(t.Context(), 7*24*time.Hour, now)
	require.NoError(t, err)
	require.Equal(t, models.Accuracy{Accuracy: 0, Total: 0, Correct: 0}, acc)
}

func TestMemoryLedger_AccuracyWindowAndMatch(t *testing.T) {
	l := NewMemoryLedger()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	old, _ := l.Append(t.Context(), rec(models.SignalBuy, now.Add(-8*24*time.Hour)))
	edge, _ := l.Append(t.Context(), rec(models.SignalBuy, now.Add(-week)))
	hit, _ := l.Append(t.Context(), rec(models.SignalBuy, now.Add(-time.Hour)))
	miss, _ := l.Append(t.Context(), rec(models.SignalSell, now.Add(-2*time.Hour)))
	fuzzy, _ := l.Append(t.Context(), rec(models.SignalHold, now.Add(-3*time.Hour)))
	_, _ = l.Append(t.Context(), rec(models.SignalHold, now.Add(-time.Minute))) // unannotated

	for id, actual := range map[int64]models.Signal{
		old:   models.SignalBuy,
		edge:  models.SignalBuy,
		hit:   models.SignalBuy,
		miss:  models.SignalBuy,
		fuzzy: models.Signal("hold"),
	} {
		_, err := l.RecordOutcome(t.Context(), id, actual)
		require.NoError(t, err)
	}

	acc, err := l.Accuracy(t.Context(), week, now)
	require.NoError(t, err)
	// old and the exact-cutoff record fall outside; "hold" != "Hold".
	require.Equal(t, 3, acc.Total)
	require.Equal(t, 1, acc.Correct)
	require.InDelta(t, 100.0/3, acc.Accuracy, 1e-9)
}

func TestMemoryLedger_AllReturnsCopies(t *testing.T) {
	l := NewMemoryLedger()
	r := rec(models.SignalBuy, time.Now())
	r.Dates = []string{"2025-01-01"}
	_, _ = l.Append(t.Context(), r)

	all, _ := l.All(t.Context())
	all[0].Dates[0] = "mutated"
	all[0].Signal = models.SignalSell

	again, _ := l.All(t.Context())
	require.Equal(t, "2025-01-01", again[0].Dates[0])
	require.Equal(t, models.SignalBuy, again[0].Signal)
}
