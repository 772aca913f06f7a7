package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace and subsystem applied to every marcval metric.
const (
	Namespace = "marcval"
	Subsystem = "validation"
)

// Collector manages the Prometheus metrics for the validation pipeline:
// record counts by outcome, violation counts by kind, validation latency,
// rule table size, and override reload outcomes.
type Collector struct {
	registry *prometheus.Registry

	recordsValidated *prometheus.CounterVec
	violations       *prometheus.CounterVec
	duration         prometheus.Histogram
	ruleTableSize    prometheus.Gauge
	ruleReloads      *prometheus.CounterVec
}

// NewCollector creates a metrics collector registered against the given
// registry. If registry is nil a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		recordsValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "records_validated_total",
			Help:      "Total records validated, labeled by outcome (valid, invalid).",
		}, []string{"outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "violations_total",
			Help:      "Total violations reported, labeled by violation kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "duration_seconds",
			Help:      "Time spent validating one record.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
		ruleTableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "rule_table_size",
			Help:      "Number of tags in the effective rule table.",
		}),
		ruleReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "rule_reloads_total",
			Help:      "Rule override reload attempts, labeled by status (success, error).",
		}, []string{"status"}),
	}

	registry.MustRegister(
		c.recordsValidated,
		c.violations,
		c.duration,
		c.ruleTableSize,
		c.ruleReloads,
	)
	return c
}

// RecordValidation records one completed validation pass: the outcome,
// the per-kind violation counts, and the elapsed time.
func (c *Collector) RecordValidation(duration time.Duration, violationKinds map[string]int) {
	outcome := "valid"
	for kind, n := range violationKinds {
		if n > 0 {
			outcome = "invalid"
		}
		c.violations.WithLabelValues(kind).Add(float64(n))
	}
	c.recordsValidated.WithLabelValues(outcome).Inc()
	c.duration.Observe(duration.Seconds())
}

// SetRuleTableSize updates the effective rule table size gauge.
func (c *Collector) SetRuleTableSize(n int) {
	c.ruleTableSize.Set(float64(n))
}

// RecordRuleReload records the outcome of a rule override reload.
func (c *Collector) RecordRuleReload(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.ruleReloads.WithLabelValues(status).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
