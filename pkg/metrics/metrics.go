package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a recorded quote.
const (
	OutcomeOpened = "opened"
	OutcomeFolded = "folded"
)

// Reasons a quote is dropped.
const (
	DropInactive   = "inactive"
	DropInvalid    = "invalid"
	DropOutOfOrder = "out_of_order"
)

// Metrics holds the service collectors.
type Metrics struct {
	QuotesRecorded   *prometheus.CounterVec
	QuotesDropped    *prometheus.CounterVec
	SeriesQueried    prometheus.Counter
	QueryDuration    prometheus.Histogram
	InstrumentEvents *prometheus.CounterVec
	ArchiveFailures  prometheus.Counter
}

// New registers the collectors on reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		QuotesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "candlestick_quotes_recorded_total",
				Help: "Quotes folded into the window, by whether they opened a new candle",
			},
			[]string{"outcome"},
		),
		QuotesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "candlestick_quotes_dropped_total",
				Help: "Quotes that were not aggregated",
			},
			[]string{"reason"},
		),
		SeriesQueried: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "candlestick_series_queried_total",
				Help: "Candlestick series queries served",
			},
		),
		QueryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "candlestick_query_duration_seconds",
				Help:    "Candlestick series query duration",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),
		InstrumentEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "candlestick_instrument_events_total",
				Help: "Instrument lifecycle events applied",
			},
			[]string{"type"},
		),
		ArchiveFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "candlestick_archive_failures_total",
				Help: "Quotes that could not be written to the archive",
			},
		),
	}
}

// NewNop returns collectors registered on a private registry. Useful in tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
