package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// MarketUseCase serves point-in-time price queries straight from the provider.
type MarketUseCase struct {
	provider domrepo.QuoteProvider
	tracked  []string
	now      func() time.Time
}

func NewMarketUseCase(p domrepo.QuoteProvider, tracked []string) *MarketUseCase {
	return &MarketUseCase{provider: p, tracked: append([]string(nil), tracked...), now: time.Now}
}

// MarketData returns the current price of one symbol.
func (uc *MarketUseCase) MarketData(ctx context.Context, symbol string) (models.PriceQuote, error) {
	at := uc.now()
	prices, err := uc.provider.FetchPrices(ctx, []string{symbol})
	if err != nil {
		return models.PriceQuote{}, fmt.Errorf("market data %s: %w", symbol, err)
	}
	p, ok := prices[symbol]
	if !ok {
		// Upstream answers {} for unknown ids.
		return models.PriceQuote{}, &models.ProviderError{
			Op:         "simple_price",
			StatusCode: http.StatusNotFound,
			Err:        errors.New("no price for " + symbol),
		}
	}
	return models.PriceQuote{Symbol: symbol, Price: p, FetchedAt: at}, nil
}

// Portfolio prices symbols (the tracked set when empty) and sums them.
func (uc *MarketUseCase) Portfolio(ctx context.Context, symbols []string) (*models.PortfolioResponse, error) {
	if len(symbols) == 0 {
		symbols = uc.tracked
	}
	prices, err := uc.provider.FetchPrices(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}

	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return &models.PortfolioResponse{Prices: prices, TotalValue: total}, nil
}
