package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Analyses wait on the distance service, so durations run from milliseconds
// (queries) up to the distance timeout
var commandBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// CommandMetricsCollector observes mediator requests, split by request kind
type CommandMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Mediator request duration by request name and kind",
				Buckets:   commandBuckets,
			},
			[]string{"command", "kind"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Mediator requests handled, by request name, kind and status",
			},
			[]string{"command", "kind", "status"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_in_flight",
				Help:      "Mediator requests currently being handled",
			},
			[]string{"kind"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.duration, c.total, c.inFlight)
}

// Started marks a request as in flight; the returned func records its outcome
func (c *CommandMetricsCollector) Started(commandName string) func(duration float64, success bool) {
	kind := requestKind(commandName)
	c.inFlight.WithLabelValues(kind).Inc()
	return func(duration float64, success bool) {
		c.inFlight.WithLabelValues(kind).Dec()
		c.RecordCommandExecution(commandName, duration, success)
	}
}

// RecordCommandExecution records one handled request
func (c *CommandMetricsCollector) RecordCommandExecution(commandName string, duration float64, success bool) {
	kind := requestKind(commandName)
	status := "success"
	if !success {
		status = "error"
	}
	c.duration.WithLabelValues(commandName, kind).Observe(duration)
	c.total.WithLabelValues(commandName, kind, status).Inc()
}

// requestKind tells queries from commands by the request type's suffix
func requestKind(name string) string {
	if strings.HasSuffix(name, "Query") {
		return "query"
	}
	return "command"
}
