package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSearchMetrics() {
	r.GridPointsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_grid_points_total",
			Help: "Grid search points evaluated by outcome",
		},
		[]string{"status"},
	)

	r.GridSearchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_grid_search_duration_seconds",
			Help:    "Full grid search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	r.ModularityScores = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_modularity",
			Help:    "Modularity scores recorded by grid search",
			Buckets: prometheus.LinearBuckets(-0.5, 0.1, 16),
		},
	)
}
