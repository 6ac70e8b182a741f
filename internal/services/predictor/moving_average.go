package predictor

import (
	"fmt"

	"CoinPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Result is the outcome of a moving-average crossover evaluation.
type Result struct {
	ShortMA   decimal.Decimal
	LongMA    decimal.Decimal
	Signal    models.Signal
	Rationale string
}

// SMA returns the mean of the last window prices, or zero when the series is
// shorter than window.
func SMA(prices []decimal.Decimal, window int) decimal.Decimal {
	if window <= 0 || len(prices) < window {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range prices[len(prices)-window:] {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(window)))
}

// Predict compares the short and long simple moving averages of prices.
func Predict(prices []decimal.Decimal, shortWindow, longWindow int) Result {
	short := SMA(prices, shortWindow)
	long := SMA(prices, longWindow)

	res := Result{ShortMA: short, LongMA: long}
	s, l := short.StringFixed(2), long.StringFixed(2)
	switch short.Cmp(long) {
	case 1:
		res.Signal = models.SignalBuy
		res.Rationale = fmt.Sprintf("Short-term MA (%s) is above long-term MA (%s), indicating upward momentum.", s, l)
	case -1:
		res.Signal = models.SignalSell
		res.Rationale = fmt.Sprintf("Short-term MA (%s) is below long-term MA (%s), indicating downward momentum.", s, l)
	default:
		res.Signal = models.SignalHold
		res.Rationale = fmt.Sprintf("Short-term MA (%s) equals long-term MA (%s), no clear trend.", s, l)
	}
	return res
}
