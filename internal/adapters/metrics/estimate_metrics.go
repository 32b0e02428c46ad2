package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EstimateMetricsCollector handles analysis, save and session metrics
type EstimateMetricsCollector struct {
	analysesTotal    prometheus.Counter
	vesselsAnalysed  *prometheus.CounterVec
	estimateSaves    *prometheus.CounterVec
	sessionMutations *prometheus.CounterVec
	voyagesGenerated prometheus.Counter
}

// NewEstimateMetricsCollector creates a new estimate metrics collector
func NewEstimateMetricsCollector() *EstimateMetricsCollector {
	return &EstimateMetricsCollector{
		analysesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "analyses_total",
				Help:      "Total number of fleet analyses generated",
			},
		),

		vesselsAnalysed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "vessels_analysed_total",
				Help:      "Total number of vessels analysed by suitability",
			},
			[]string{"suitable"},
		),

		estimateSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "estimate_saves_total",
				Help:      "Total number of estimate save attempts by outcome",
			},
			[]string{"outcome"},
		),

		sessionMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "session_mutations_total",
				Help:      "Total number of schedule edits applied through sessions",
			},
			[]string{"operation"},
		),

		voyagesGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "voyages_generated_total",
				Help:      "Total number of voyages generated from estimates",
			},
		),
	}
}

// Register registers all estimate metrics with the Prometheus registry
func (c *EstimateMetricsCollector) Register() error {
	return register(c.analysesTotal, c.vesselsAnalysed, c.estimateSaves, c.sessionMutations, c.voyagesGenerated)
}

func (c *EstimateMetricsCollector) RecordAnalysis(vessels int, suitable int) {
	c.analysesTotal.Inc()
	c.vesselsAnalysed.WithLabelValues("true").Add(float64(suitable))
	c.vesselsAnalysed.WithLabelValues("false").Add(float64(vessels - suitable))
}

func (c *EstimateMetricsCollector) RecordEstimateSave(valid bool) {
	outcome := "saved"
	if !valid {
		outcome = "rejected"
	}
	c.estimateSaves.WithLabelValues(outcome).Inc()
}

func (c *EstimateMetricsCollector) RecordSessionMutation(operation string) {
	c.sessionMutations.WithLabelValues(operation).Inc()
}

func (c *EstimateMetricsCollector) RecordVoyageGenerated() {
	c.voyagesGenerated.Inc()
}
