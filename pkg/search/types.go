package search

import (
	"sort"

	"github.com/dd0wney/cluso-communities/pkg/bipartite"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

// Point is one configuration of the grid: a side B degree threshold and a
// Louvain resolution.
type Point struct {
	Threshold  int
	Resolution float64
}

// Result maps every grid point to the modularity of its partition
type Result map[Point]float64

// Points returns the grid points ordered by threshold, then resolution
func (r Result) Points() []Point {
	points := make([]Point, 0, len(r))
	for p := range r {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Threshold != points[j].Threshold {
			return points[i].Threshold < points[j].Threshold
		}
		return points[i].Resolution < points[j].Resolution
	})
	return points
}

// Best returns the point with the highest modularity. Ties go to the
// earliest point in Points order. ok is false for an empty result.
func (r Result) Best() (best Point, modularity float64, ok bool) {
	for _, p := range r.Points() {
		if q := r[p]; !ok || q > modularity {
			best, modularity, ok = p, q, true
		}
	}
	return best, modularity, ok
}

// Options configures Search
type Options struct {
	SideAKey string `validate:"required"`
	SideBKey string `validate:"required"`

	// Thresholds are swept as the side B degree filter; 0 disables it.
	// An empty axis gives an empty grid and an empty Result.
	Thresholds  []int     `validate:"unique,dive,gte=0"`
	Resolutions []float64 `validate:"unique,dive,gt=0,finite"`

	// Debug logs community statistics for every grid point at info level.
	Debug bool

	// Workers bounds how many thresholds are evaluated at once. 0 and 1
	// run sequentially.
	Workers int `validate:"gte=0"`

	// Seed is handed to community detection at every grid point.
	Seed *int64 `validate:"-"`

	// ComponentLevel is the minimum level of entries logged by the graph
	// builds, projections and partitions the search drives. It never
	// lowers the level of Logger itself.
	ComponentLevel logging.Level `validate:"-"`

	Logger  logging.Logger    `validate:"-"` // nil discards
	Metrics *metrics.Registry `validate:"-"` // nil disables
}

// DefaultOptions returns a single-point grid at resolution 1 with no
// degree filter, run sequentially with component logs limited to warnings.
func DefaultOptions() Options {
	return Options{
		SideAKey:       bipartite.SideA.String(),
		SideBKey:       bipartite.SideB.String(),
		Thresholds:     []int{0},
		Resolutions:    []float64{1.0},
		Workers:        1,
		ComponentLevel: logging.WarnLevel,
	}
}

// Size returns the number of grid points
func (o Options) Size() int {
	return len(o.Thresholds) * len(o.Resolutions)
}
