package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	applogger "CoinPulse/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// QuoteCache holds the last snapshot of a fixed symbol set and refreshes it from
// the provider once it is ttl old. It is the only path to the provider for the
// broadcast loop.
type QuoteCache struct {
	provider drepo.QuoteProvider
	symbols  []string
	ttl      time.Duration

	shared    BytesCache
	sharedKey string
	metrics   drepo.Metrics
	logger    *applogger.Logger
	now       func() time.Time

	mu        sync.RWMutex
	snapshot  models.QuoteSnapshot
	fetchedAt time.Time

	group singleflight.Group
}

// QuoteCacheOption configures QuoteCache.
type QuoteCacheOption func(*QuoteCache)

// WithSharedLayer makes refreshes consult and populate a cross-instance cache first.
func WithSharedLayer(c BytesCache, key string) QuoteCacheOption {
	return func(q *QuoteCache) {
		q.shared = c
		q.sharedKey = key
	}
}

func WithCacheMetrics(m drepo.Metrics) QuoteCacheOption {
	return func(q *QuoteCache) { q.metrics = m }
}

func WithCacheLogger(l *applogger.Logger) QuoteCacheOption {
	return func(q *QuoteCache) { q.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) QuoteCacheOption {
	return func(q *QuoteCache) { q.now = now }
}

func NewQuoteCache(p drepo.QuoteProvider, symbols []string, ttl time.Duration, opts ...QuoteCacheOption) *QuoteCache {
	q := &QuoteCache{
		provider: p,
		symbols:  append([]string(nil), symbols...),
		ttl:      ttl,
		logger:   applogger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Symbols returns the tracked symbol set.
func (q *QuoteCache) Symbols() []string {
	return append([]string(nil), q.symbols...)
}

// Get returns the current snapshot of the tracked set. The symbols argument is
// not used to scope the fetch: a refresh always covers the tracked set.
func (q *QuoteCache) Get(ctx context.Context, _ []string) (models.QuoteSnapshot, error) {
	if snap, ok := q.fresh(); ok {
		q.record("hit")
		return snap, nil
	}
	q.record("miss")

	v, err, _ := q.group.Do("refresh", func() (interface{}, error) {
		// Another caller may have refreshed while we waited on the group.
		if snap, ok := q.fresh(); ok {
			return snap, nil
		}
		return q.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(models.QuoteSnapshot), nil
}

func (q *QuoteCache) fresh() (models.QuoteSnapshot, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.snapshot == nil || q.now().Sub(q.fetchedAt) >= q.ttl {
		return nil, false
	}
	return q.snapshot, true
}

type sharedSnapshot struct {
	FetchedAt time.Time            `json:"fetchedAt"`
	Quotes    models.QuoteSnapshot `json:"quotes"`
}

func (q *QuoteCache) refresh(ctx context.Context) (models.QuoteSnapshot, error) {
	if snap, at, ok := q.loadShared(ctx); ok {
		q.record("shared_hit")
		q.store(snap, at)
		return snap, nil
	}

	at := q.now()
	prices, err := q.provider.FetchPrices(ctx, q.symbols)
	if err != nil {
		return nil, fmt.Errorf("refresh quotes: %w", err)
	}
	snap := models.NewSnapshot(prices, at)
	q.store(snap, at)
	q.saveShared(ctx, snap, at)

	q.logger.Debug("quote cache refreshed",
		applogger.Int("symbols", len(snap)),
		applogger.Duration("ttl_ms", q.ttl),
	)
	return snap, nil
}

func (q *QuoteCache) store(snap models.QuoteSnapshot, at time.Time) {
	q.mu.Lock()
	q.snapshot = snap
	q.fetchedAt = at
	q.mu.Unlock()
}

func (q *QuoteCache) loadShared(ctx context.Context) (models.QuoteSnapshot, time.Time, bool) {
	if q.shared == nil {
		return nil, time.Time{}, false
	}
	b, ok, err := q.shared.GetBytes(ctx, q.sharedKey)
	if err != nil {
		q.logger.Warn("quote cache shared get failed", applogger.Error(err))
		return nil, time.Time{}, false
	}
	if !ok {
		return nil, time.Time{}, false
	}
	var s sharedSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		q.logger.Warn("quote cache shared decode failed", applogger.Error(err))
		return nil, time.Time{}, false
	}
	if s.Quotes == nil || q.now().Sub(s.FetchedAt) >= q.ttl {
		return nil, time.Time{}, false
	}
	return s.Quotes, s.FetchedAt, true
}

func (q *QuoteCache) saveShared(ctx context.Context, snap models.QuoteSnapshot, at time.Time) {
	if q.shared == nil {
		return
	}
	b, err := json.Marshal(sharedSnapshot{FetchedAt: at, Quotes: snap})
	if err != nil {
		q.logger.Warn("quote cache shared encode failed", applogger.Error(err))
		return
	}
	if err := q.shared.SetBytes(ctx, q.sharedKey, b, q.ttl); err != nil {
		q.logger.Warn("quote cache shared set failed", applogger.Error(err))
	}
}

func (q *QuoteCache) record(result string) {
	if q.metrics != nil {
		q.metrics.RecordCacheLookup(result)
	}
}
