package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// SnapshotSource yields the current snapshot of the tracked set.
type SnapshotSource interface {
	Get(ctx context.Context, symbols []string) (models.QuoteSnapshot, error)
	Symbols() []string
}

// TickResult is what one broadcast tick pushes to a subscriber.
type TickResult struct {
	Snapshot     models.QuoteSnapshot
	Valuation    models.PortfolioValuation
	ChangePct    decimal.Decimal
	Notification string
}

// Notify reports whether the tick crossed the threshold.
func (r *TickResult) Notify() bool { return r.Notification != "" }

// Broadcaster computes valuations for the push channel. The previous valuation
// is one value per process and every tick, from any subscriber, replaces it.
type Broadcaster struct {
	source    SnapshotSource
	threshold decimal.Decimal
	metrics   domrepo.Metrics
	now       func() time.Time

	mu       sync.Mutex
	previous *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func NewBroadcaster(src SnapshotSource, thresholdPct float64, m domrepo.Metrics) *Broadcaster {
	return &Broadcaster{source: src, threshold: decimal.NewFromFloat(thresholdPct), metrics: m, now: time.Now}
}

// WithClock overrides time.Now for valuation timestamps.
func (b *Broadcaster) WithClock(now func() time.Time) *Broadcaster {
	b.now = now
	return b
}

// Tick reads the snapshot, values it and swaps the baseline.
func (b *Broadcaster) Tick(ctx context.Context) (*TickResult, error) {
	snap, err := b.source.Get(ctx, b.source.Symbols())
	if err != nil {
		b.recordTick("error")
		return nil, fmt.Errorf("tick: %w", err)
	}

	value := snap.Total()
	change := b.swap(value)

	res := &TickResult{
		Snapshot:  snap,
		Valuation: models.PortfolioValuation{Value: value, ComputedAt: b.now()},
		ChangePct: change,
	}
	if change.Abs().GreaterThanOrEqual(b.threshold) {
		res.Notification = fmt.Sprintf("Portfolio value changed by %s%%. Current value: $%s",
			change.StringFixed(2), value.StringFixed(2))
	}

	b.recordTick("ok")
	if b.metrics != nil {
		b.metrics.RecordValuation(value.InexactFloat64())
		if res.Notify() {
			b.metrics.RecordNotification()
		}
	}
	return res, nil
}

// swap returns the change versus the baseline in percent and stores value as the new baseline.
func (b *Broadcaster) swap(value decimal.Decimal) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()

	change := decimal.Zero
	if b.previous != nil && !b.previous.IsZero() {
		change = value.Sub(*b.previous).Div(*b.previous).Mul(hundred)
	}
	b.previous = &value
	return change
}

func (b *Broadcaster) recordTick(outcome string) {
	if b.metrics != nil {
		b.metrics.RecordTick(outcome)
	}
}
