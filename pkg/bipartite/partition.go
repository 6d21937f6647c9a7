package bipartite

import (
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

// PartitionOf detects communities in the projection of g onto side at the
// given resolution using Louvain. Resolutions above 1 favour more, smaller
// communities.
//
// Results are cached per (graph, side, resolution) with exact float keys:
// only the first call for a key runs detection, later calls return that
// same partition even when the graph has no seed. Callers must not modify
// the returned map.
func (g *Graph) PartitionOf(side Side, resolution float64) (algorithms.Partition, error) {
	if !side.valid() {
		return nil, fmt.Errorf("partition: %w: %d", ErrUnknownSide, side)
	}
	if err := algorithms.ValidateResolution(resolution); err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}

	projected, err := g.ProjectOnto(side)
	if err != nil {
		return nil, err
	}

	p, computed, err := g.cache.partition(side, resolution, func() (algorithms.Partition, error) {
		timer := logging.StartTimer(g.logger, "finished partition",
			logging.Side(g.keys[side]),
			logging.Resolution(resolution),
		)

		opts := algorithms.DefaultLouvainOptions()
		opts.Resolution = resolution
		opts.Seed = g.seed

		p, err := algorithms.Louvain(projected, opts)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}

		elapsed := timer.End(logging.Int("communities", p.Count()))
		g.metrics.RecordPartition(side.String(), elapsed)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("partition %s at resolution %v: %w", g.keys[side], resolution, err)
	}

	g.metrics.RecordCacheLookup(metrics.CachePartition, !computed)
	return p, nil
}
