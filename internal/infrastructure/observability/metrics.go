package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry              *prometheus.Registry
	ActiveSessions        prometheus.Gauge
	CommitsIngestedTotal  prometheus.Counter
	TelemetrySamplesTotal prometheus.Counter
	IngestErrorsTotal     *prometheus.CounterVec
	SuggestionsServed     prometheus.Counter
	EvictionsTotal        prometheus.Counter
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "perf_monitor",
			Name:      "active_sessions",
			Help:      "Number of active capture sessions",
		}),
		CommitsIngestedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perf_monitor",
			Name:      "commits_ingested_total",
			Help:      "Total render commits extracted from profile exports",
		}),
		TelemetrySamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perf_monitor",
			Name:      "telemetry_samples_total",
			Help:      "Total live telemetry samples folded",
		}),
		IngestErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "perf_monitor",
			Name:      "ingest_errors_total",
			Help:      "Total ingest errors by stage",
		}, []string{"stage"}),
		SuggestionsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perf_monitor",
			Name:      "suggestions_served_total",
			Help:      "Total suggestion lists served",
		}),
		EvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "perf_monitor",
			Name:      "evictions_total",
			Help:      "Total evicted sessions",
		}),
	}
	r.MustRegister(m.ActiveSessions, m.CommitsIngestedTotal, m.TelemetrySamplesTotal,
		m.IngestErrorsTotal, m.SuggestionsServed, m.EvictionsTotal)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
