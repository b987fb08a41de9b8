package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Notification outcome label values.
const (
	OutcomeSent       = "sent"
	OutcomeDuplicate  = "duplicate"
	OutcomeNoEndpoint = "no_endpoint"
	OutcomeFailed     = "failed"
)

// Metrics holds the Prometheus collectors for roster processing and notifications.
type Metrics struct {
	EventsReceived prometheus.Counter
	EventsDropped  prometheus.Counter
	StaysRecorded  prometheus.Counter
	MatchesFound   prometheus.Counter

	Notifications      *prometheus.CounterVec // labels: outcome={sent,duplicate,no_endpoint,failed}
	ExtractionDuration prometheus.Histogram
	ExtractionErrors   prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsReceived,
		m.EventsDropped,
		m.StaysRecorded,
		m.MatchesFound,
		m.Notifications,
		m.ExtractionDuration,
		m.ExtractionErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crewmatch",
			Name:      "events_received_total",
			Help:      "Raw duty events received for normalization.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crewmatch",
			Name:      "events_dropped_total",
			Help:      "Raw duty events dropped by validation.",
		}),
		StaysRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crewmatch",
			Name:      "stays_recorded_total",
			Help:      "Stays written to the stay repository.",
		}),
		MatchesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crewmatch",
			Name:      "matches_found_total",
			Help:      "Significant match groups detected after a stay was recorded.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crewmatch",
			Name:      "notifications_total",
			Help:      "Per-recipient notification outcomes.",
		}, []string{"outcome"}),
		ExtractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crewmatch",
			Name:      "extraction_duration_seconds",
			Help:      "Duration of roster extraction calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}),
		ExtractionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crewmatch",
			Name:      "extraction_errors_total",
			Help:      "Failed roster extraction calls.",
		}),
	}
}
