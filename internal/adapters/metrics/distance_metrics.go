package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DistanceMetricsCollector handles distance-service and cache metrics
type DistanceMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	pairsRequested  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewDistanceMetricsCollector creates a new distance metrics collector
func NewDistanceMetricsCollector() *DistanceMetricsCollector {
	return &DistanceMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "distance_requests_total",
				Help:      "Total number of batch distance requests by transport and outcome",
			},
			[]string{"transport", "outcome"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "distance_request_duration_seconds",
				Help:      "Distance service round-trip duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"transport"},
		),

		pairsRequested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "distance_pairs_requested_total",
				Help:      "Total number of port pairs sent to the distance service",
			},
			[]string{"transport"},
		),

		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "distance_cache_lookups_total",
				Help:      "Session distance cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Register registers all distance metrics with the Prometheus registry
func (c *DistanceMetricsCollector) Register() error {
	return register(c.requestsTotal, c.requestDuration, c.pairsRequested, c.cacheLookups)
}

func (c *DistanceMetricsCollector) RecordDistanceRequest(transport string, pairs int, duration float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.requestsTotal.WithLabelValues(transport, outcome).Inc()
	c.requestDuration.WithLabelValues(transport).Observe(duration)
	c.pairsRequested.WithLabelValues(transport).Add(float64(pairs))
}

func (c *DistanceMetricsCollector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}
