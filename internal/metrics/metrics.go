package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "opsalert"

// Metrics holds the processor's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	processed *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		processed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "incidents_processed_total", Help: "Incidents persisted and published, by severity."},
			[]string{"severity"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "stage_failures_total", Help: "Failed processing stages (store, notify)."},
			[]string{"stage"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{Namespace: namespace, Name: "process_duration_seconds", Help: "Wall time of one process call.", Buckets: prometheus.DefBuckets},
		),
	}
	for _, c := range []prometheus.Collector{m.processed, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) IncidentProcessed(severity string) {
	if m == nil {
		return
	}
	m.processed.WithLabelValues(severity).Inc()
}

func (m *Metrics) StageFailed(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveDuration(start time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
}
