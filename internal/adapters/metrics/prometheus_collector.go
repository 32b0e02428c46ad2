package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "voyage_estimator"
	// Subsystem for estimate engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalDistanceCollector is set by SetGlobalDistanceCollector when metrics are enabled
	globalDistanceCollector DistanceMetricsRecorder

	// globalEstimateCollector is set by SetGlobalEstimateCollector when metrics are enabled
	globalEstimateCollector EstimateMetricsRecorder
)

// DistanceMetricsRecorder records distance-service traffic and session cache use
type DistanceMetricsRecorder interface {
	RecordDistanceRequest(transport string, pairs int, duration float64, err error)
	RecordCacheLookup(hit bool)
}

// EstimateMetricsRecorder records estimate lifecycle events
type EstimateMetricsRecorder interface {
	RecordAnalysis(vessels int, suitable int)
	RecordEstimateSave(valid bool)
	RecordSessionMutation(operation string)
	RecordVoyageGenerated()
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry, nil when metrics are off
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Reset drops the registry and every global collector
func Reset() {
	Registry = nil
	globalDistanceCollector = nil
	globalEstimateCollector = nil
}

func SetGlobalDistanceCollector(collector DistanceMetricsRecorder) {
	globalDistanceCollector = collector
}

func SetGlobalEstimateCollector(collector EstimateMetricsRecorder) {
	globalEstimateCollector = collector
}

// RecordDistanceRequest records one batch call to the distance service
func RecordDistanceRequest(transport string, pairs int, duration float64, err error) {
	if globalDistanceCollector != nil {
		globalDistanceCollector.RecordDistanceRequest(transport, pairs, duration, err)
	}
}

// RecordCacheLookup records a session distance cache hit or miss
func RecordCacheLookup(hit bool) {
	if globalDistanceCollector != nil {
		globalDistanceCollector.RecordCacheLookup(hit)
	}
}

// RecordAnalysis records a completed fleet analysis
func RecordAnalysis(vessels int, suitable int) {
	if globalEstimateCollector != nil {
		globalEstimateCollector.RecordAnalysis(vessels, suitable)
	}
}

// RecordEstimateSave records a save attempt and whether it passed validation
func RecordEstimateSave(valid bool) {
	if globalEstimateCollector != nil {
		globalEstimateCollector.RecordEstimateSave(valid)
	}
}

// RecordSessionMutation records one schedule edit applied through a session
func RecordSessionMutation(operation string) {
	if globalEstimateCollector != nil {
		globalEstimateCollector.RecordSessionMutation(operation)
	}
}

func RecordVoyageGenerated() {
	if globalEstimateCollector != nil {
		globalEstimateCollector.RecordVoyageGenerated()
	}
}

// Setup initialises the registry and registers and installs every collector.
// The returned command collector feeds PrometheusMiddleware.
func Setup() (*CommandMetricsCollector, error) {
	InitRegistry()

	distance := NewDistanceMetricsCollector()
	if err := distance.Register(); err != nil {
		return nil, err
	}
	SetGlobalDistanceCollector(distance)

	estimate := NewEstimateMetricsCollector()
	if err := estimate.Register(); err != nil {
		return nil, err
	}
	SetGlobalEstimateCollector(estimate)

	commands := NewCommandMetricsCollector()
	if err := commands.Register(); err != nil {
		return nil, err
	}
	return commands, nil
}

func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
