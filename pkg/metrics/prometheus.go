package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once    sync.Once
	current *Recorder
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerCalls *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	ticks         *prometheus.CounterVec
	notifications prometheus.Counter
	predictions   *prometheus.CounterVec
	valuation     prometheus.Gauge
	subscribers   prometheus.Gauge
	latency       *prometheus.HistogramVec
}

// New returns the process-wide Prometheus recorder. Collectors are registered once,
// so repeated calls (tests, re-wiring) share the same instance.
func New() *Recorder {
	once.Do(func() {
		current = newRecorder(promauto.With(prometheus.DefaultRegisterer))
	})
	return current
}

// NewWithRegistry builds a recorder bound to reg. Used by tests to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	return newRecorder(promauto.With(reg))
}

func newRecorder(f promauto.Factory) *Recorder {
	return &Recorder{
		providerCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_provider_requests_total",
				Help: "Total number of quote provider requests",
			},
			[]string{"operation", "outcome"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_quote_cache_lookups_total",
				Help: "Quote cache lookups by result",
			},
			[]string{"result"},
		),
		ticks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_broadcast_ticks_total",
				Help: "Broadcast ticks by outcome",
			},
			[]string{"outcome"},
		),
		notifications: f.NewCounter(
			prometheus.CounterOpts{
				Name: "coinpulse_notifications_total",
				Help: "Threshold notifications raised by the broadcast loop",
			},
		),
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_predictions_total",
				Help: "Predictions appended to the ledger by signal",
			},
			[]string{"signal"},
		),
		valuation: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "coinpulse_portfolio_valuation",
				Help: "Last computed valuation of the tracked symbol set",
			},
		),
		subscribers: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "coinpulse_stream_subscribers",
				Help: "Currently connected push subscribers",
			},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordProviderCall records one upstream request and whether it succeeded.
func (r *Recorder) RecordProviderCall(op string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.providerCalls.WithLabelValues(op, outcome).Inc()
}

// RecordCacheLookup records a quote cache hit, miss or shared-layer hit.
func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordTick records a broadcast tick outcome.
func (r *Recorder) RecordTick(outcome string) {
	r.ticks.WithLabelValues(outcome).Inc()
}

// RecordNotification counts a threshold notification.
func (r *Recorder) RecordNotification() {
	r.notifications.Inc()
}

// RecordPrediction counts an appended prediction.
func (r *Recorder) RecordPrediction(signal string) {
	r.predictions.WithLabelValues(signal).Inc()
}

// RecordValuation records the last computed valuation.
func (r *Recorder) RecordValuation(v float64) {
	r.valuation.Set(v)
}

// SubscriberConnected bumps the connected subscribers gauge.
func (r *Recorder) SubscriberConnected() {
	r.subscribers.Inc()
}

// SubscriberDisconnected lowers the connected subscribers gauge.
func (r *Recorder) SubscriberDisconnected() {
	r.subscribers.Dec()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
