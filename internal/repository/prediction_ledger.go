package repository

import (
	"context"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
)

// MemoryLedger is an append-only, in-memory PredictionStore. Record i lives at index i-1.
type MemoryLedger struct {
	mu      sync.RWMutex
	records []models.PredictionRecord
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

var _ drepo.PredictionStore = (*MemoryLedger)(nil)

// Append assigns the next id (current length + 1) and stores a copy of rec.
func (l *MemoryLedger) Append(_ context.Context, rec models.PredictionRecord) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec = rec.Clone()
	rec.ID = int64(len(l.records)) + 1
	l.records = append(l.records, rec)
	return rec.ID, nil
}

// RecordOutcome sets the actual signal for id. Repeated calls overwrite.
func (l *MemoryLedger) RecordOutcome(_ context.Context, id int64, actual models.Signal) (models.PredictionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id < 1 || id > int64(len(l.records)) {
		return models.PredictionRecord{}, models.ErrPredictionNotFound
	}
	rec := &l.records[id-1]
	a := actual
	rec.Actual = &a
	return rec.Clone(), nil
}

// Accuracy counts annotated records predicted after now-window.
func (l *MemoryLedger) Accuracy(_ context.Context, window time.Duration, now time.Time) (models.Accuracy, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cutoff := now.Add(-window)
	var res models.Accuracy
	for _, r := range l.records {
		if r.Actual == nil || !r.PredictedAt.After(cutoff) {
			continue
		}
		res.Total++
		if r.Signal == *r.Actual {
			res.Correct++
		}
	}
	if res.Total > 0 {
		res.Accuracy = 100 * float64(res.Correct) / float64(res.Total)
	}
	return res, nil
}

// All returns the full history in id order.
func (l *MemoryLedger) All(_ context.Context) ([]models.PredictionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.PredictionRecord, len(l.records))
	for i, r := range l.records {
		out[i] = r.Clone()
	}
	return out, nil
}
