package bipartite

import (
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

// ProjectOnto returns the one-mode projection of g onto side. Two entities
// of side are linked iff they share at least one neighbour on the opposite
// side, with weight equal to the number of shared neighbours; the
// multiplicity of the bipartite edges does not count. Entities sharing no
// neighbour stay in the projection as isolated nodes.
//
// The result is computed once per (graph, side) and the same instance is
// returned on every later call. Callers must not modify it.
//
// Cost is O(Σ deg(v)²) over the opposite side's nodes v, which dominates
// on graphs with very popular opposite-side entities.
func (g *Graph) ProjectOnto(side Side) (*algorithms.WeightedGraph, error) {
	if !side.valid() {
		return nil, fmt.Errorf("project: %w: %d", ErrUnknownSide, side)
	}

	pg, computed := g.cache.projection(side, func() *algorithms.WeightedGraph {
		timer := logging.StartTimer(g.logger, "finished weighted projection", logging.Side(g.keys[side]))
		pg := g.project(side)
		elapsed := timer.End(
			logging.Int("nodes", pg.NodeCount()),
			logging.Int("edges", pg.EdgeCount()),
		)
		g.metrics.RecordProjection(side.String(), elapsed)
		return pg
	})
	g.metrics.RecordCacheLookup(metrics.CacheProjection, !computed)
	return pg, nil
}

func (g *Graph) project(side Side) *algorithms.WeightedGraph {
	pg := algorithms.NewWeightedGraph()
	for _, id := range g.nodes[side] {
		pg.AddNode(id)
	}

	opposite := side.Opposite()
	for _, v := range g.nodes[opposite] {
		shared := g.neighbors[opposite][v]
		for i := 0; i < len(shared); i++ {
			for j := i + 1; j < len(shared); j++ {
				pg.AddEdge(shared[i], shared[j], 1)
			}
		}
	}
	return pg
}
