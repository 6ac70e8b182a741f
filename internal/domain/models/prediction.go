package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Signal is the trend recommendation derived from two moving averages.
type Signal string

const (
	SignalBuy  Signal = "Buy"
	SignalSell Signal = "Sell"
	SignalHold Signal = "Hold"
)

// PredictionRecord is one ledger entry. Actual stays nil until an outcome is recorded.
type PredictionRecord struct {
	ID          int64             `json:"id"`
	Symbol      string            `json:"symbol"`
	Signal      Signal            `json:"signal"`
	Rationale   string            `json:"rationale"`
	ShortMA     decimal.Decimal   `json:"shortMA"`
	LongMA      decimal.Decimal   `json:"longMA"`
	Prices      []decimal.Decimal `json:"prices"`
	Dates       []string          `json:"dates"`
	PredictedAt time.Time         `json:"timestamp"`
	Actual      *Signal           `json:"actual"`
}

// Clone returns a deep copy so callers never share slices with the ledger.
func (r PredictionRecord) Clone() PredictionRecord {
	out := r
	out.Prices = append([]decimal.Decimal(nil), r.Prices...)
	out.Dates = append([]string(nil), r.Dates...)
	if r.Actual != nil {
		a := *r.Actual
		out.Actual = &a
	}
	return out
}

// Accuracy is the rolling hit rate of annotated predictions.
type Accuracy struct {
	Accuracy float64 `json:"accuracy"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
}
