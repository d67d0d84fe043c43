package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the transport. Labels stay low-cardinality: the
// document type code and a coarse outcome.
type Metrics struct {
	Requests *prometheus.CounterVec
	Retries  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the metric set and registers it on reg when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entsogo_requests_total",
				Help: "Sub-requests by document type and outcome.",
			},
			[]string{"document_type", "outcome"},
		),
		Retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entsogo_retries_total",
				Help: "Retried attempts by document type.",
			},
			[]string{"document_type"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "entsogo_request_duration_seconds",
				Help:    "Wall time of individual API calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"document_type"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Retries, m.Duration)
	}
	return m
}
