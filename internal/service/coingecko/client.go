package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	xhttp "CoinPulse/pkg/http"
	xutil "CoinPulse/pkg/util"

	"github.com/shopspring/decimal"
)

const apiKeyHeader = "x-cg-demo-api-key"

// Client implements QuoteProvider against the CoinGecko REST API.
type Client struct {
	baseURL    string
	apiKey     string
	vsCurrency string
	http       *xhttp.Client
	metrics    drepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithAPIKey sets the demo API key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithVsCurrency sets the quote currency (default "usd").
func WithVsCurrency(cur string) Option {
	return func(c *Client) {
		if cur != "" {
			c.vsCurrency = strings.ToLower(cur)
		}
	}
}

// WithHTTPClient swaps the transport client.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records each upstream call.
func WithMetrics(m drepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a CoinGecko QuoteProvider.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		vsCurrency: "usd",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(10 * time.Second))
	}
	return c
}

var _ drepo.QuoteProvider = (*Client)(nil)

// FetchPrices returns the current price of every requested symbol the provider knows.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	start := time.Now()
	var body map[string]map[string]decimal.Decimal
	err := c.http.GetJSON(ctx, xhttp.Request{
		URL:     c.baseURL + "/simple/price",
		Headers: c.headers(),
		Query: url.Values{
			"ids":           {strings.Join(symbols, ",")},
			"vs_currencies": {c.vsCurrency},
		},
	}, &body)
	c.observe("simple_price", start, err)
	if err != nil {
		return nil, wrap("simple_price", err)
	}

	out := make(map[string]decimal.Decimal, len(body))
	for sym, byCur := range body {
		if p, ok := byCur[c.vsCurrency]; ok {
			out[sym] = p
		}
	}
	return out, nil
}

type marketChart struct {
	Prices [][]decimal.Decimal `json:"prices"`
}

// FetchHistory returns daily prices for the last days, oldest first, with YYYY-MM-DD labels.
func (c *Client) FetchHistory(ctx context.Context, symbol string, days int) (models.PriceSeries, error) {
	start := time.Now()
	var body marketChart
	err := c.http.GetJSON(ctx, xhttp.Request{
		URL:     c.baseURL + "/coins/" + url.PathEscape(symbol) + "/market_chart",
		Headers: c.headers(),
		Query: url.Values{
			"vs_currency": {c.vsCurrency},
			"days":        {fmt.Sprint(days)},
			"interval":    {"daily"},
		},
	}, &body)
	c.observe("market_chart", start, err)
	if err != nil {
		return models.PriceSeries{}, wrap("market_chart", err)
	}

	points := make([][]decimal.Decimal, 0, len(body.Prices))
	for _, p := range body.Prices {
		if len(p) == 2 {
			points = append(points, p)
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i][0].LessThan(points[j][0]) })

	series := models.PriceSeries{
		Symbol: symbol,
		Prices: make([]decimal.Decimal, 0, len(points)),
		Dates:  make([]string, 0, len(points)),
	}
	for _, p := range points {
		series.Dates = append(series.Dates, xutil.DateLabel(xutil.FromUnixMillis(p[0].IntPart())))
		series.Prices = append(series.Prices, p[1])
	}
	return series, nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		h[apiKeyHeader] = c.apiKey
	}
	return h
}

func (c *Client) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordProviderCall(op, err == nil)
	c.metrics.RecordLatency("provider_"+op, time.Since(start).Seconds())
}

func wrap(op string, err error) error {
	pe := &models.ProviderError{Op: op, Err: err}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		pe.StatusCode = se.StatusCode
	}
	return pe
}
