package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository/mocks"
	"CoinPulse/internal/service/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var tracked = []string{"bitcoin", "ethereum"}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// memShared is an in-process stand-in for the Redis layer.
type memShared struct {
	mu   sync.Mutex
	m    map[string][]byte
	sets int
}

func (s *memShared) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.m[key]
	return b, ok, nil
}

func (s *memShared) SetBytes(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	s.sets++
	return nil
}

func prices(btc, eth int64) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"bitcoin":  decimal.NewFromInt(btc),
		"ethereum": decimal.NewFromInt(eth),
	}
}

func TestQuoteCache_ReusesSnapshotWithinTTL(t *testing.T) {
	t.Parallel()

	// Arrange: provider may be called exactly once.
	ctrl := gomock.NewController(t)
	p := mocks.NewMockQuoteProvider(ctrl)
	p.EXPECT().FetchPrices(gomock.Any(), tracked).Return(prices(100, 10), nil).Times(1)

	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	qc := cache.NewQuoteCache(p, tracked, time.Minute, cache.WithClock(clk.Now))

	// Act
	first, err := qc.Get(t.Context(), tracked)
	require.NoError(t, err)
	clk.Advance(59 * time.Second)
	second, err := qc.Get(t.Context(), []string{"solana"})
	require.NoError(t, err)

	// Assert: same map value, stamped with the fetch time.
	require.Equal(t, first, second)
	require.Equal(t, clk.Now().Add(-59*time.Second), first["bitcoin"].FetchedAt)
}

func TestQuoteCache_RefreshesAtTTL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := mocks.NewMockQuoteProvider(ctrl)
	gomock.InOrder(
		p.EXPECT().FetchPrices(gomock.Any(), tracked).Return(prices(100, 10), nil),
		p.EXPECT().FetchPrices(gomock.Any(), tracked).Return(prices(200, 20), nil),
	)

	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	qc := cache.NewQuoteCache(p, tracked, time.Minute, cache.WithClock(clk.Now))

	_, err := qc.Get(t.Context(), nil)
	require.NoError(t, err)

	clk.Advance(time.Minute) // age == ttl is a miss
	snap, err := qc.Get(t.Context(), nil)
	require.NoError(t, err)
	require.True(t, snap["bitcoin"].Price.Equal(decimal.NewFromInt(200)))
}

func TestQuoteCache_ProviderErrorIsNotMasked(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := mocks.NewMockQuoteProvider(ctrl)
	upstream := &models.ProviderError{Op: "simple_price", StatusCode: 500, Err: errors.New("boom")}
	gomock.InOrder(
		p.EXPECT().FetchPrices(gomock.Any(), tracked).Return(prices(100, 10), nil),
		p.EXPECT().FetchPrices(gomock.Any(), tracked).Return(nil, upstream),
	)

	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	qc := cache.NewQuoteCache(p, tracked, time.Minute, cache.WithClock(clk.Now))

	_, err := qc.Get(t.Context(), nil)
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	snap, err := qc.Get(t.Context(), nil)

	// Assert: stale data is not served after a failed refresh.
	require.Nil(t, snap)
	var pe *models.ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 500, pe.StatusCode)
}

func TestQuoteCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := mocks.NewMockQuoteProvider(ctrl)
	release := make(chan struct{})
	p.EXPECT().FetchPrices(gomock.Any(), tracked).DoAndReturn(
		func(context.Context, []string) (map[string]decimal.Decimal, error) {
			<-release
			return prices(100, 10), nil
		}).Times(1)

	qc := cache.NewQuoteCache(p, tracked, time.Minute)

	var wg sync.WaitGroup
	results := make([]models.QuoteSnapshot, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := qc.Get(t.Context(), nil)
			if err == nil {
				results[i] = snap
			}
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		require.Len(t, r, 2)
	}
}

func TestQuoteCache_SharedLayer(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	shared := &memShared{m: map[string][]byte{}}
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	// Arrange: instance A fetches from the provider and publishes the snapshot.
	pa := mocks.NewMockQuoteProvider(ctrl)
	pa.EXPECT().FetchPrices(gomock.Any(), tracked).Return(prices(100, 10), nil).Times(1)
	a := cache.NewQuoteCache(pa, tracked, time.Minute, cache.WithClock(clk.Now), cache.WithSharedLayer(shared, "snap"))

	// instance B must not touch its provider while A's snapshot is fresh.
	pb := mocks.NewMockQuoteProvider(ctrl)
	b := cache.NewQuoteCache(pb, tracked, time.Minute, cache.WithClock(clk.Now), cache.WithSharedLayer(shared, "snap"))

	snapA, err := a.Get(t.Context(), nil)
	require.NoError(t, err)

	clk.Advance(10 * time.Second)
	snapB, err := b.Get(t.Context(), nil)
	require.NoError(t, err)

	require.Equal(t, 1, shared.sets)
	require.Len(t, snapB, 2)
	require.True(t, snapA["bitcoin"].Price.Equal(snapB["bitcoin"].Price))
	require.True(t, snapA["bitcoin"].FetchedAt.Equal(snapB["bitcoin"].FetchedAt))
}
