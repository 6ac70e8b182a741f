package models

import "github.com/shopspring/decimal"

// Requests for the HTTP endpoints. Missing or blank parameters fall back to defaults.

type MarketDataRequest struct {
	Symbol string `query:"symbol" default:"bitcoin" validate:"required"`
}

type PredictRequest struct {
	Symbol string `query:"symbol" default:"bitcoin" validate:"required"`
}

type PortfolioRequest struct {
	Symbols string `query:"symbols"`
}

type ActualRequest struct {
	ID     int64  `json:"id"`
	Actual Signal `json:"actual" validate:"required"`
}

// Responses

type AccuracyResponse struct {
	WeeklyAccuracy Accuracy           `json:"weeklyAccuracy"`
	HistoricalData []PredictionRecord `json:"historicalData"`
}

type PortfolioResponse struct {
	Prices     map[string]decimal.Decimal `json:"prices"`
	TotalValue decimal.Decimal            `json:"totalValue"`
}
