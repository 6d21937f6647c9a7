package metrics

import (
	"time"
)

// Cache names and lookup outcomes for RecordCacheLookup
const (
	CacheProjection = "projection"
	CachePartition  = "partition"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// All Record methods are no-ops on a nil *Registry so that metrics stay
// optional for library callers.

// RecordGraphBuild records a bipartite graph build
func (r *Registry) RecordGraphBuild(status string, duration time.Duration, sideANodes, sideBNodes, edges int) {
	if r == nil {
		return
	}
	r.GraphBuildsTotal.WithLabelValues(status).Inc()
	if status != "success" {
		return
	}
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphNodes.WithLabelValues("sideA").Set(float64(sideANodes))
	r.GraphNodes.WithLabelValues("sideB").Set(float64(sideBNodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordProjection records a projection computed onto side
func (r *Registry) RecordProjection(side string, duration time.Duration) {
	if r == nil {
		return
	}
	r.ProjectionDuration.WithLabelValues(side).Observe(duration.Seconds())
}

// RecordPartition records a community detection run over side
func (r *Registry) RecordPartition(side string, duration time.Duration) {
	if r == nil {
		return
	}
	r.PartitionDuration.WithLabelValues(side).Observe(duration.Seconds())
}

// RecordCacheLookup records a projection or partition cache lookup
func (r *Registry) RecordCacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	r.CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// RecordGridPoint records the outcome of one (threshold, resolution) evaluation
func (r *Registry) RecordGridPoint(status string, modularity float64) {
	if r == nil {
		return
	}
	r.GridPointsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.ModularityScores.Observe(modularity)
	}
}

// RecordGridSearch records a completed grid search
func (r *Registry) RecordGridSearch(duration time.Duration) {
	if r == nil {
		return
	}
	r.GridSearchDuration.Observe(duration.Seconds())
}
