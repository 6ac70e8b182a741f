package predictor

import (
	"strings"
	"testing"

	"CoinPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

func series(vals ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func TestPredict_RisingSeries(t *testing.T) {
	res := Predict(series(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), 5, 10)

	if !res.LongMA.Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("long MA = %s, want 5.5", res.LongMA)
	}
	if !res.ShortMA.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("short MA = %s, want 8", res.ShortMA)
	}
	if res.Signal != models.SignalBuy {
		t.Fatalf("signal = %s, want Buy", res.Signal)
	}
	if !strings.Contains(res.Rationale, "8.00") || !strings.Contains(res.Rationale, "5.50") {
		t.Errorf("rationale missing rounded averages: %q", res.Rationale)
	}
}

func TestPredict_FallingSeries(t *testing.T) {
	res := Predict(series(10, 9, 8, 7, 6, 5, 4, 3, 2, 1), 5, 10)
	if res.Signal != models.SignalSell {
		t.Fatalf("signal = %s, want Sell", res.Signal)
	}
	if !res.ShortMA.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("short MA = %s, want 3", res.ShortMA)
	}
}

func TestPredict_ConstantSeriesHolds(t *testing.T) {
	for _, v := range []float64{0, 0.1, 42, 64250.12} {
		for _, n := range []int{10, 11, 30} {
			vals := make([]float64, n)
			for i := range vals {
				vals[i] = v
			}
			res := Predict(series(vals...), 5, 10)
			want := decimal.NewFromFloat(v)
			if !res.ShortMA.Equal(want) || !res.LongMA.Equal(want) {
				t.Fatalf("v=%v n=%d: short=%s long=%s", v, n, res.ShortMA, res.LongMA)
			}
			if res.Signal != models.SignalHold {
				t.Fatalf("v=%v n=%d: signal = %s, want Hold", v, n, res.Signal)
			}
		}
	}
}

func TestPredict_UnderfilledWindows(t *testing.T) {
	// Both windows under-filled: 0 == 0 -> Hold.
	res := Predict(series(1, 2, 3), 5, 10)
	if !res.ShortMA.IsZero() || !res.LongMA.IsZero() || res.Signal != models.SignalHold {
		t.Fatalf("unexpected %+v", res)
	}

	// Only the long window under-filled: short > 0 == long -> Buy.
	res = Predict(series(1, 2, 3, 4, 5, 6), 5, 10)
	if !res.LongMA.IsZero() || res.Signal != models.SignalBuy {
		t.Fatalf("unexpected %+v", res)
	}

	if res := Predict(nil, 5, 10); res.Signal != models.SignalHold {
		t.Fatalf("empty series: signal = %s", res.Signal)
	}
}

func TestPredict_SignalFollowsComparison(t *testing.T) {
	cases := [][]float64{
		{5, 5, 5, 5, 5, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 5, 5, 5, 5, 5},
		{3, 1, 4, 1, 5, 9, 2, 6, 5, 3},
		{2, 7, 1, 8, 2, 8, 1, 8, 2, 8},
	}
	for _, c := range cases {
		res := Predict(series(c...), 5, 10)
		var want models.Signal
		switch res.ShortMA.Cmp(res.LongMA) {
		case 1:
			want = models.SignalBuy
		case -1:
			want = models.SignalSell
		default:
			want = models.SignalHold
		}
		if res.Signal != want {
			t.Errorf("%v: signal = %s, want %s", c, res.Signal, want)
		}
	}
}

func TestSMA_NonPositiveWindow(t *testing.T) {
	if got := SMA(series(1, 2, 3), 0); !got.IsZero() {
		t.Fatalf("SMA window 0 = %s", got)
	}
}
