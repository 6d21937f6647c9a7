package bipartite

import (
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// Validate checks the options without building anything. All failures
// are reported together; a conflict between the two degree filters
// matches ErrConflictingDegreeFilters.
func (o Options) Validate() error {
	cv := validation.NewConfigValidator("Options").
		Required("SideAKey", o.SideAKey).
		Required("SideBKey", o.SideBKey).
		Distinct("SideAKey", o.SideAKey, "SideBKey", o.SideBKey).
		NonNegative("MinSideADegree", o.MinSideADegree).
		NonNegative("MinSideBDegree", o.MinSideBDegree).
		When(o.MinSideADegree > 0 && o.MinSideBDegree > 0, func(cv *validation.ConfigValidator) {
			cv.Custom("MinSideBDegree", func() error { return ErrConflictingDegreeFilters })
		})

	if cv.HasErrors() {
		return &ConfigurationError{Op: "build", Cause: fmt.Errorf("%w: %w", ErrInvalidOptions, cv.Validate())}
	}
	return nil
}

// Build filters edges by the configured degree threshold and materialises
// an immutable weighted bipartite graph.
//
// Filtering is a single pass: the raw frequency of each entity on the
// filtered side is counted over the unfiltered list, and edges whose entity
// falls below the threshold are dropped. It is not repeated afterwards, so
// the opposite side may be left with entities whose degree is now low.
//
// Degrees are then recounted from the filtered list, and repeated (A, B)
// pairs collapse into one edge whose weight is the pair's multiplicity.
func Build(edges []Edge, opts Options) (*Graph, error) {
	logger := logging.OrNop(opts.Logger).With(logging.Component("bipartite"))
	timer := logging.StartTimer(logger, "built bipartite graph")

	if err := opts.Validate(); err != nil {
		timer.EndError(err)
		opts.Metrics.RecordGraphBuild("error", timer.Elapsed(), 0, 0, 0)
		return nil, err
	}

	filtered := filterEdges(edges, opts)
	logger.Debug("filtered edges",
		logging.Int("input", len(edges)),
		logging.Int("kept", len(filtered)),
		logging.Int("min_side_a_degree", opts.MinSideADegree),
		logging.Int("min_side_b_degree", opts.MinSideBDegree),
	)

	g := newGraph(opts, logger)

	// Pass 1: degree tables and node order
	for _, e := range filtered {
		g.addEntity(SideA, e.A)
		g.addEntity(SideB, e.B)
	}

	// Pass 2: weighted edges and adjacency
	for _, e := range filtered {
		g.addInteraction(e)
	}

	if len(filtered) == 0 {
		logger.Warn("no edges left after filtering; graph is empty", logging.Int("input", len(edges)))
	}

	elapsed := timer.End(
		logging.Int("side_a_nodes", len(g.nodes[SideA])),
		logging.Int("side_b_nodes", len(g.nodes[SideB])),
		logging.Int("edges", len(g.edgeOrder)),
	)
	opts.Metrics.RecordGraphBuild("success", elapsed, len(g.nodes[SideA]), len(g.nodes[SideB]), len(g.edgeOrder))

	return g, nil
}

// filterEdges applies at most one raw-frequency threshold to edges
func filterEdges(edges []Edge, opts Options) []Edge {
	var key func(Edge) string
	var threshold int

	switch {
	case opts.MinSideADegree > 0:
		key, threshold = func(e Edge) string { return e.A }, opts.MinSideADegree
	case opts.MinSideBDegree > 0:
		key, threshold = func(e Edge) string { return e.B }, opts.MinSideBDegree
	default:
		out := make([]Edge, len(edges))
		copy(out, edges)
		return out
	}

	counts := make(map[string]int)
	for _, e := range edges {
		counts[key(e)]++
	}

	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if counts[key(e)] >= threshold {
			out = append(out, e)
		}
	}
	return out
}
