package bipartite

import (
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// Describe summarises g, logs the summary at info level and verifies the
// node-count and degree-sum invariants.
func (g *Graph) Describe() (Summary, error) {
	s := Summary{
		SideAKey:     g.keys[SideA],
		SideBKey:     g.keys[SideB],
		Interactions: len(g.edges),
		SideANodes:   len(g.nodes[SideA]),
		SideBNodes:   len(g.nodes[SideB]),
		Edges:        len(g.edgeOrder),
	}
	if s.SideANodes > 0 {
		s.AvgSideADegree = float64(s.Interactions) / float64(s.SideANodes)
	}
	if s.SideBNodes > 0 {
		s.AvgSideBDegree = float64(s.Interactions) / float64(s.SideBNodes)
	}

	sumA, sumB := 0, 0
	for _, d := range g.degree[SideA] {
		sumA += d
	}
	for _, d := range g.degree[SideB] {
		sumB += d
	}
	if s.Edges > 0 {
		s.AvgEdgeWeight = float64(sumA) / float64(s.Edges)
	}

	g.logger.Info("bipartite summary",
		logging.Int("interactions", s.Interactions),
		logging.Int("unique_"+s.SideAKey, s.SideANodes),
		logging.Int("unique_"+s.SideBKey, s.SideBNodes),
		logging.Int("unique_edges", s.Edges),
		logging.Float64("avg_"+s.SideAKey+"_degree", s.AvgSideADegree),
		logging.Float64("avg_"+s.SideBKey+"_degree", s.AvgSideBDegree),
		logging.Float64("avg_edge_weight", s.AvgEdgeWeight),
	)

	if s.SideANodes+s.SideBNodes != g.NodeCount() {
		return s, fmt.Errorf("%w: %d + %d nodes but graph has %d", ErrInvariantViolated, s.SideANodes, s.SideBNodes, g.NodeCount())
	}
	if sumA != sumB || sumA != s.Interactions {
		return s, fmt.Errorf("%w: degree sums %d and %d, %d interactions", ErrInvariantViolated, sumA, sumB, s.Interactions)
	}
	return s, nil
}

// LabelEdges tags each edge with the community of its entity on side.
// Edges whose entity is not in the partition are dropped.
func LabelEdges(edges []Edge, side Side, p algorithms.Partition) []LabeledEdge {
	out := make([]LabeledEdge, 0, len(edges))
	for _, e := range edges {
		id := e.A
		if side == SideB {
			id = e.B
		}
		c, ok := p[id]
		if !ok {
			continue
		}
		out = append(out, LabeledEdge{Edge: e, Community: c})
	}
	return out
}
