package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls metric collection.
type Config struct {
	// Enabled toggles metric recording. Disabled collectors still register
	// their metrics so scrape output stays stable.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix. Default: "minerva".
	Namespace string `yaml:"namespace"`
}

// Collector owns the Prometheus metrics for the governance pipeline.
//
// Metrics:
//   - minerva_cycles_total: completed governance cycles by final outcome
//   - minerva_cycle_duration_seconds: end-to-end cycle duration
//   - minerva_detections_total: unsafe prompt detections by severity
//   - minerva_policy_evaluations_total: policy engine verdicts by outcome
//   - minerva_audit_events_total: audit events recorded, by type and severity
type Collector struct {
	config   Config
	registry *prometheus.Registry

	cyclesTotal      *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	detectionsTotal  *prometheus.CounterVec
	evaluationsTotal *prometheus.CounterVec
	auditEventsTotal *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics with the
// provided registry. If registry is nil a fresh one is used.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "minerva"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cycles_total",
				Help:      "Total number of completed governance cycles by final outcome",
			},
			[]string{"outcome"},
		),

		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "cycle_duration_seconds",
				Help:      "End-to-end duration of a governance cycle in seconds",
				// Cycles are in-process; most complete well under a second.
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
			},
		),

		detectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "detections_total",
				Help:      "Total number of unsafe prompt detections by severity",
			},
			[]string{"severity"},
		),

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "policy_evaluations_total",
				Help:      "Total number of policy engine verdicts by outcome",
			},
			[]string{"outcome"},
		),

		auditEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "audit_events_total",
				Help:      "Total number of audit events recorded, by type and severity",
			},
			[]string{"type", "severity"},
		),
	}

	registry.MustRegister(
		c.cyclesTotal,
		c.cycleDuration,
		c.detectionsTotal,
		c.evaluationsTotal,
		c.auditEventsTotal,
	)

	return c
}

// RecordCycle records a completed governance cycle.
func (c *Collector) RecordCycle(outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.cyclesTotal.WithLabelValues(outcome).Inc()
	c.cycleDuration.Observe(duration.Seconds())
}

// RecordDetection records an unsafe prompt detection.
func (c *Collector) RecordDetection(severity string) {
	if !c.config.Enabled {
		return
	}
	c.detectionsTotal.WithLabelValues(severity).Inc()
}

// RecordPolicyEvaluation records one policy engine verdict.
func (c *Collector) RecordPolicyEvaluation(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.evaluationsTotal.WithLabelValues(outcome).Inc()
}

// RecordAuditEvent records an audit event append.
func (c *Collector) RecordAuditEvent(eventType, severity string) {
	if !c.config.Enabled {
		return
	}
	c.auditEventsTotal.WithLabelValues(eventType, severity).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
