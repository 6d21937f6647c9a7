package algorithms

import "sort"

// WeightedGraph is an undirected graph with float64 edge weights keyed by
// string node identifiers. Parallel edges are collapsed by summing their
// weights. Node order is insertion order.
type WeightedGraph struct {
	ids    []string
	index  map[string]int
	adj    []map[int]float64
	degree []float64
	total  float64
	edges  int
}

// NewWeightedGraph creates an empty weighted graph
func NewWeightedGraph() *WeightedGraph {
	return &WeightedGraph{
		index: make(map[string]int),
	}
}

// AddNode adds a node if it is not present and returns its index
func (g *WeightedGraph) AddNode(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	g.adj = append(g.adj, make(map[int]float64))
	g.degree = append(g.degree, 0)
	return i
}

// AddEdge adds weight w to the edge between a and b, creating the nodes
// and the edge as needed. A self-loop counts twice toward its node's degree.
func (g *WeightedGraph) AddEdge(a, b string, w float64) {
	i := g.AddNode(a)
	j := g.AddNode(b)

	if _, exists := g.adj[i][j]; !exists {
		g.edges++
	}
	g.adj[i][j] += w
	if i != j {
		g.adj[j][i] += w
	}

	g.degree[i] += w
	g.degree[j] += w
	g.total += w
}

// NodeCount returns the number of nodes
func (g *WeightedGraph) NodeCount() int {
	return len(g.ids)
}

// EdgeCount returns the number of distinct edges
func (g *WeightedGraph) EdgeCount() int {
	return g.edges
}

// TotalWeight returns the sum of all edge weights
func (g *WeightedGraph) TotalWeight() float64 {
	return g.total
}

// Nodes returns the node identifiers in insertion order
func (g *WeightedGraph) Nodes() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// HasNode reports whether id is a node of the graph
func (g *WeightedGraph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Weight returns the weight of the edge between a and b, or 0 if absent
func (g *WeightedGraph) Weight(a, b string) float64 {
	i, ok := g.index[a]
	if !ok {
		return 0
	}
	j, ok := g.index[b]
	if !ok {
		return 0
	}
	return g.adj[i][j]
}

// Degree returns the weighted degree of a node
func (g *WeightedGraph) Degree(id string) float64 {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return g.degree[i]
}

// Neighbors returns the neighbors of a node with the connecting edge weights
func (g *WeightedGraph) Neighbors(id string) map[string]float64 {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(g.adj[i]))
	for j, w := range g.adj[i] {
		out[g.ids[j]] = w
	}
	return out
}

// sortedArcs returns the neighbors of node i ordered by index so that
// seeded runs visit them in a reproducible order.
func (g *WeightedGraph) sortedArcs(i int) []int {
	out := make([]int, 0, len(g.adj[i]))
	for j := range g.adj[i] {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}
