package bipartite

import (
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

type pair struct {
	a, b string
}

// Graph is an immutable weighted bipartite graph. It owns the caches of
// its projections and partitions; those are computed at most once per
// instance and kept for its lifetime without eviction. A Graph is safe for
// concurrent use.
type Graph struct {
	keys [2]string

	edges     []Edge
	nodes     [2][]string
	degree    [2]map[string]int
	neighbors [2]map[string][]string // first-seen order
	weights   map[pair]int
	edgeOrder []pair

	seed    *int64
	logger  logging.Logger
	metrics *metrics.Registry
	cache   *memo
}

func newGraph(opts Options, logger logging.Logger) *Graph {
	g := &Graph{
		keys:    [2]string{opts.SideAKey, opts.SideBKey},
		weights: make(map[pair]int),
		seed:    opts.Seed,
		logger:  logger,
		metrics: opts.Metrics,
		cache:   newMemo(),
	}
	for _, s := range []Side{SideA, SideB} {
		g.degree[s] = make(map[string]int)
		g.neighbors[s] = make(map[string][]string)
	}
	return g
}

func (g *Graph) addEntity(side Side, id string) {
	if _, ok := g.degree[side][id]; !ok {
		g.nodes[side] = append(g.nodes[side], id)
	}
	g.degree[side][id]++
}

func (g *Graph) addInteraction(e Edge) {
	g.edges = append(g.edges, e)

	p := pair{a: e.A, b: e.B}
	if _, ok := g.weights[p]; !ok {
		g.edgeOrder = append(g.edgeOrder, p)
		g.neighbors[SideA][e.A] = append(g.neighbors[SideA][e.A], e.B)
		g.neighbors[SideB][e.B] = append(g.neighbors[SideB][e.B], e.A)
	}
	g.weights[p]++
}

// SideKey returns the configured name of a side
func (g *Graph) SideKey(side Side) string {
	if !side.valid() {
		return ""
	}
	return g.keys[side]
}

// NodeCount returns the number of nodes on both sides
func (g *Graph) NodeCount() int {
	return len(g.nodes[SideA]) + len(g.nodes[SideB])
}

// EdgeCount returns the number of distinct weighted edges
func (g *Graph) EdgeCount() int {
	return len(g.edgeOrder)
}

// InteractionCount returns the number of filtered edge records
func (g *Graph) InteractionCount() int {
	return len(g.edges)
}

// Entities returns the ids of one side in order of first appearance
func (g *Graph) Entities(side Side) []string {
	if !side.valid() {
		return nil
	}
	out := make([]string, len(g.nodes[side]))
	copy(out, g.nodes[side])
	return out
}

// Nodes returns every node, side A first
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, g.NodeCount())
	for _, side := range []Side{SideA, SideB} {
		for _, id := range g.nodes[side] {
			out = append(out, Node{ID: id, Side: side, Degree: g.degree[side][id]})
		}
	}
	return out
}

// Degree returns a copy of the degree table of one side
func (g *Graph) Degree(side Side) map[string]int {
	if !side.valid() {
		return nil
	}
	out := make(map[string]int, len(g.degree[side]))
	for id, d := range g.degree[side] {
		out[id] = d
	}
	return out
}

// Weight returns the multiplicity of the pair (a, b), 0 if absent
func (g *Graph) Weight(a, b string) int {
	return g.weights[pair{a: a, b: b}]
}

// Edges returns a copy of the filtered edge list
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// WeightedEdges returns the collapsed edges in order of first appearance
func (g *Graph) WeightedEdges() []WeightedEdge {
	out := make([]WeightedEdge, 0, len(g.edgeOrder))
	for _, p := range g.edgeOrder {
		out = append(out, WeightedEdge{A: p.a, B: p.b, Weight: g.weights[p]})
	}
	return out
}

// CacheStats reports how often projections and partitions were requested
// and how many were actually computed.
func (g *Graph) CacheStats() CacheStats {
	return g.cache.stats()
}
