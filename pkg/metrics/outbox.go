package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutboxPublished  = "published"
	OutboxRetry      = "retry"
	OutboxDeadLetter = "dead_letter"
)

// OutboxMetrics counts relay outcomes per topic and event type.
type OutboxMetrics struct {
	events *prometheus.CounterVec
	lag    prometheus.Histogram
}

// NewOutboxMetrics registers the relay metrics. A nil registerer yields a no-op recorder.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rms_outbox_events_total",
		Help: "Outbox rows handled by the publisher, by result.",
	}, []string{"topic", "event_type", "result"})
	lag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rms_outbox_publish_lag_seconds",
		Help:    "Time between an outbox row being written and being published.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
	reg.MustRegister(events, lag)
	return &OutboxMetrics{events: events, lag: lag}
}

// Inc counts one row with the given result.
func (m *OutboxMetrics) Inc(topic, eventType, result string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(topic), normalizeLabel(eventType), result).Inc()
}

// ObserveLag records how long a row waited before it was published.
func (m *OutboxMetrics) ObserveLag(seconds float64) {
	if m == nil || m.lag == nil || seconds < 0 {
		return
	}
	m.lag.Observe(seconds)
}
