package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/bipartite"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// Validate checks the options without running anything
func (o Options) Validate() error {
	if err := validation.NewConfigValidator("Options").Struct(&o).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// searcher holds the state shared by every grid point of one run
type searcher struct {
	opts   Options
	edges  []bipartite.Edge
	logger logging.Logger // the search's own summary lines
	quiet  logging.Logger // handed to the components
}

// Search evaluates every (threshold, resolution) pair of the grid and
// returns the modularity of each.
//
// For each threshold the bipartite graph is rebuilt with that side B
// degree filter and projected onto side B once; each resolution then
// partitions the shared projection. The search is exhaustive; an empty
// axis yields an empty Result without building anything. The first
// failing point aborts the run with a *PointError and no result.
//
// ctx is checked between grid points only; a build or partition already
// running completes first.
func Search(ctx context.Context, edges []bipartite.Edge, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := logging.OrNop(opts.Logger).With(
		logging.Component("search"),
		logging.RunID(uuid.NewString()),
	)
	s := &searcher{
		opts:   opts,
		edges:  edges,
		logger: logger,
		quiet:  logging.WithLevel(logger, opts.ComponentLevel),
	}

	logger.Info("starting grid search",
		logging.Any("thresholds", opts.Thresholds),
		logging.Any("resolutions", opts.Resolutions),
		logging.Int("points", opts.Size()),
		logging.Int("workers", max(opts.Workers, 1)),
	)

	if opts.Size() == 0 {
		logger.Warn("empty grid; nothing to evaluate")
		return Result{}, nil
	}

	start := time.Now()
	var (
		result Result
		err    error
	)
	if opts.Workers > 1 && len(opts.Thresholds) > 1 {
		result, err = s.runParallel(ctx)
	} else {
		result, err = s.runSequential(ctx)
	}
	elapsed := time.Since(start)
	opts.Metrics.RecordGridSearch(elapsed)

	if err != nil {
		logger.Error("grid search aborted", logging.Error(err), logging.Latency(elapsed))
		return nil, err
	}

	if best, q, ok := result.Best(); ok {
		logger.Info("grid search complete",
			logging.Threshold(best.Threshold),
			logging.Resolution(best.Resolution),
			logging.Modularity(q),
			logging.Count(len(result)),
			logging.Latency(elapsed),
		)
	}
	return result, nil
}

func (s *searcher) runSequential(ctx context.Context) (Result, error) {
	result := make(Result, s.opts.Size())
	for i, threshold := range s.opts.Thresholds {
		scores, err := s.evaluateThreshold(ctx, i, threshold)
		if err != nil {
			return nil, err
		}
		for p, q := range scores {
			result[p] = q
		}
	}
	return result, nil
}

// runParallel evaluates thresholds concurrently. Each task owns the graph
// it builds, so no memo cache is shared between goroutines.
func (s *searcher) runParallel(ctx context.Context) (Result, error) {
	pool, err := parallel.NewWorkerPool(min(s.opts.Workers, len(s.opts.Thresholds)), s.logger)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := make(Result, s.opts.Size())

	for i, threshold := range s.opts.Thresholds {
		select {
		case <-pool.Failed():
			return nil, pool.Wait()
		default:
		}

		err := pool.Submit(func() error {
			scores, err := s.evaluateThreshold(ctx, i, threshold)
			if err != nil {
				return err
			}
			mu.Lock()
			for p, q := range scores {
				result[p] = q
			}
			mu.Unlock()
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateThreshold builds and projects the graph for one threshold and
// scores it at every resolution. index is the threshold's position in the
// grid, used to number iterations.
func (s *searcher) evaluateThreshold(ctx context.Context, index, threshold int) (map[Point]float64, error) {
	first := Point{Threshold: threshold, Resolution: s.opts.Resolutions[0]}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search cancelled before threshold %d: %w", threshold, err)
	}

	g, err := bipartite.Build(s.edges, bipartite.Options{
		SideAKey:       s.opts.SideAKey,
		SideBKey:       s.opts.SideBKey,
		MinSideBDegree: threshold,
		Seed:           s.opts.Seed,
		Logger:         s.quiet.With(logging.Threshold(threshold)),
		Metrics:        s.opts.Metrics,
	})
	if err != nil {
		return nil, s.fail(first, "build", err)
	}

	projected, err := g.ProjectOnto(bipartite.SideB)
	if err != nil {
		return nil, s.fail(first, "project", err)
	}
	if s.opts.Debug {
		s.logProjection(threshold, projected)
	}

	scores := make(map[Point]float64, len(s.opts.Resolutions))
	for j, resolution := range s.opts.Resolutions {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search cancelled before threshold %d, resolution %v: %w", threshold, resolution, err)
		}

		point := Point{Threshold: threshold, Resolution: resolution}
		start := time.Now()

		partition, err := g.PartitionOf(bipartite.SideB, resolution)
		if err != nil {
			return nil, s.fail(point, "partition", err)
		}
		q, err := algorithms.Modularity(projected, partition)
		if err != nil {
			return nil, s.fail(point, "modularity", err)
		}

		scores[point] = q
		s.opts.Metrics.RecordGridPoint("success", q)

		if s.opts.Debug {
			s.logger.Info("grid point evaluated",
				logging.Int("iteration", index*len(s.opts.Resolutions)+j+1),
				logging.Int("of", s.opts.Size()),
				logging.Threshold(threshold),
				logging.Resolution(resolution),
				logging.Modularity(q),
				logging.Int("median_community_size", partition.MedianSize()),
				logging.Int("communities", partition.Count()),
				logging.Int("nodes", len(partition)),
				logging.Latency(time.Since(start)),
			)
		}
	}
	return scores, nil
}

func (s *searcher) fail(p Point, stage string, err error) error {
	s.opts.Metrics.RecordGridPoint("error", 0)
	return &PointError{Point: p, Stage: stage, Cause: err}
}

// logProjection reports how fragmented a threshold's projection is
func (s *searcher) logProjection(threshold int, projected *algorithms.WeightedGraph) {
	components, err := algorithms.ConnectedComponents(projected)
	if err != nil {
		s.logger.Warn("connected components failed", logging.Threshold(threshold), logging.Error(err))
		return
	}
	largest := 0
	for _, c := range components.Communities {
		largest = max(largest, c.Size)
	}
	s.logger.Info("projection built",
		logging.Threshold(threshold),
		logging.Int("nodes", projected.NodeCount()),
		logging.Int("edges", projected.EdgeCount()),
		logging.Int("components", len(components.Communities)),
		logging.Int("largest_component", largest),
		logging.Float64("avg_clustering", algorithms.AverageClusteringCoefficient(projected)),
	)
}
