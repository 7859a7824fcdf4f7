package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the process-wide Prometheus collectors.
type Metrics struct {
	registry prometheus.Registerer

	FixesCollected  prometheus.Counter
	CollectErrors   *prometheus.CounterVec
	RetentionRuns   *prometheus.CounterVec
	FixesDeleted    *prometheus.CounterVec
	LastRetentionTs prometheus.Gauge
}

// Init registers the collectors under the given namespace.
// A nil registerer falls back to the default registry.
func Init(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		FixesCollected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fixes_collected_total",
				Help:      "Total number of GPS fixes written to the store",
			},
		),
		CollectErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "collect_errors_total",
				Help:      "Total number of collection failures",
			},
			[]string{"stage"},
		),
		RetentionRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retention_runs_total",
				Help:      "Total number of retention runs",
			},
			[]string{"status"},
		),
		FixesDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fixes_deleted_total",
				Help:      "Total number of fixes removed by retention",
			},
			[]string{"stage"},
		),
		LastRetentionTs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_retention_run_timestamp_seconds",
				Help:      "Unix time of the last completed retention run",
			},
		),
	}

	reg.MustRegister(
		m.FixesCollected,
		m.CollectErrors,
		m.RetentionRuns,
		m.FixesDeleted,
		m.LastRetentionTs,
	)

	return m
}
