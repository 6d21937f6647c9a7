package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph construction metrics
	GraphBuildsTotal   *prometheus.CounterVec
	GraphBuildDuration prometheus.Histogram
	GraphNodes         *prometheus.GaugeVec
	GraphEdges         prometheus.Gauge

	// Projection and partition metrics
	ProjectionDuration *prometheus.HistogramVec
	PartitionDuration  *prometheus.HistogramVec
	CacheRequestsTotal *prometheus.CounterVec

	// Grid search metrics
	GridPointsTotal    *prometheus.CounterVec
	GridSearchDuration prometheus.Histogram
	ModularityScores   prometheus.Histogram

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initGraphMetrics()
	r.initCommunityMetrics()
	r.initSearchMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
