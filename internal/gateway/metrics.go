package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts extraction outcomes.
type Metrics struct {
	extractions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the gateway metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receiptsplit",
			Subsystem: "gateway",
			Name:      "extractions_total",
			Help:      "Receipt extractions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "receiptsplit",
			Subsystem: "gateway",
			Name:      "extraction_duration_seconds",
			Help:      "Time spent producing an extraction result, fallbacks included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
	}
	reg.MustRegister(m.extractions, m.duration)
	return m
}

func (m *Metrics) observe(reason Reason, d time.Duration) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome(reason)).Inc()
	m.duration.Observe(d.Seconds())
}

func outcome(reason Reason) string {
	if reason == ReasonNone {
		return "ok"
	}
	return string(reason)
}
