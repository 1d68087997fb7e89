package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the poll loop and the
// current reading.
type Metrics struct {
	PollsTotal       prometheus.Counter
	PollErrors       *prometheus.CounterVec // label: stage={fetch,select}
	RecordsExtracted prometheus.Gauge
	PollDuration     prometheus.Histogram

	ReadingHeight    *prometheus.GaugeVec // label: station
	ReadingAvailable prometheus.Gauge
}

// NewMetrics creates and registers all collectors with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PollsTotal,
		m.PollErrors,
		m.RecordsExtracted,
		m.PollDuration,
		m.ReadingHeight,
		m.ReadingAvailable,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can run in
// parallel without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riverwatch",
			Name:      "polls_total",
			Help:      "Total refresh cycles attempted.",
		}),
		PollErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riverwatch",
			Name:      "poll_errors_total",
			Help:      "Refresh cycles that produced no reading, by stage.",
		}, []string{"stage"}),
		RecordsExtracted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "riverwatch",
			Name:      "records_extracted",
			Help:      "Station records extracted from the last successful fetch.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riverwatch",
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete fetch-extract-select cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ReadingHeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "riverwatch",
			Name:      "reading_height",
			Help:      "Height of the selected station's latest reading.",
		}, []string{"station"}),
		ReadingAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "riverwatch",
			Name:      "reading_available",
			Help:      "1 when the latest refresh produced a reading, 0 otherwise.",
		}),
	}
}
