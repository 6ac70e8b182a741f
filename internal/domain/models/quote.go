package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is a single fetched price in the quote currency.
type PriceQuote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// QuoteSnapshot maps symbol to quote. A snapshot handed out by the quote cache is
// shared between readers and must not be modified.
type QuoteSnapshot map[string]PriceQuote

// Total sums the prices of every quote in the snapshot.
func (s QuoteSnapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, q := range s {
		total = total.Add(q.Price)
	}
	return total
}

// NewSnapshot builds a snapshot from a symbol→price map, stamping every quote with at.
func NewSnapshot(prices map[string]decimal.Decimal, at time.Time) QuoteSnapshot {
	s := make(QuoteSnapshot, len(prices))
	for sym, p := range prices {
		s[sym] = PriceQuote{Symbol: sym, Price: p, FetchedAt: at}
	}
	return s
}

// PortfolioValuation is the sum of quote prices over a symbol set.
type PortfolioValuation struct {
	Value      decimal.Decimal `json:"value"`
	ComputedAt time.Time       `json:"computedAt"`
}

// PriceSeries is an ordered daily price history with aligned date labels.
type PriceSeries struct {
	Symbol string
	Prices []decimal.Decimal
	Dates  []string
}
