package algorithms

import (
	"math/rand/v2"
	"sort"
)

// LouvainOptions configures Louvain community detection
type LouvainOptions struct {
	Resolution float64 // Higher values favour more, smaller communities
	Seed       *int64  // nil shuffles visit order from a fresh random source
	MaxPasses  int     // Local-move passes per level (0 = until stable)
	Tolerance  float64 // Minimum modularity gain to keep going
}

// DefaultLouvainOptions returns default Louvain configuration
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		Resolution: 1.0,
		Tolerance:  1e-7,
	}
}

// Louvain partitions g by greedy modularity optimisation: nodes are moved
// between neighbouring communities while that raises modularity, then each
// community is collapsed into a single node and the process repeats on the
// smaller graph until no level improves modularity by Tolerance.
//
// Visit order is random. Without a Seed, repeated runs over the same graph
// may return different partitions of similar modularity. A graph with no
// edge weight yields one singleton community per node.
func Louvain(g *WeightedGraph, opts LouvainOptions) (Partition, error) {
	if err := ValidateResolution(opts.Resolution); err != nil {
		return nil, err
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultLouvainOptions().Tolerance
	}

	partition := make(Partition, len(g.ids))
	if g.total == 0 {
		for i, id := range g.ids {
			partition[id] = i
		}
		return partition, nil
	}

	l := &louvain{opts: opts, rng: newRand(opts.Seed)}

	level := levelFromGraph(g)
	status := newLouvainStatus(level)
	l.oneLevel(level, status)
	mod := status.modularity(level, opts.Resolution)

	membership, k := renumber(status.node2com)
	level = level.induce(membership, k)

	for {
		status = newLouvainStatus(level)
		l.oneLevel(level, status)
		next := status.modularity(level, opts.Resolution)
		if next-mod < opts.Tolerance {
			break
		}
		mod = next

		relabel, k := renumber(status.node2com)
		for i := range membership {
			membership[i] = relabel[membership[i]]
		}
		level = level.induce(relabel, k)
	}

	for i, id := range g.ids {
		partition[id] = membership[i]
	}
	return partition, nil
}

func newRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(*seed), 0))
}

type arc struct {
	to int
	w  float64
}

// louvainLevel is the graph being optimised at one aggregation level.
// Self-loops live in loops, not in adj.
type louvainLevel struct {
	adj    [][]arc
	loops  []float64
	degree []float64 // weighted degree, self-loops counted twice
	total  float64
}

func levelFromGraph(g *WeightedGraph) *louvainLevel {
	n := len(g.ids)
	level := &louvainLevel{
		adj:    make([][]arc, n),
		loops:  make([]float64, n),
		degree: make([]float64, n),
		total:  g.total,
	}
	for i := 0; i < n; i++ {
		for _, j := range g.sortedArcs(i) {
			w := g.adj[i][j]
			if i == j {
				level.loops[i] = w
				continue
			}
			level.adj[i] = append(level.adj[i], arc{to: j, w: w})
		}
		level.degree[i] = g.degree[i]
	}
	return level
}

// induce collapses every community of membership into one node. Edges
// inside a community become a self-loop on its node.
func (lv *louvainLevel) induce(membership []int, k int) *louvainLevel {
	weights := make([]map[int]float64, k)
	for c := range weights {
		weights[c] = make(map[int]float64)
	}
	loops := make([]float64, k)

	for u := range lv.adj {
		cu := membership[u]
		loops[cu] += lv.loops[u]
		for _, a := range lv.adj[u] {
			if a.to < u {
				continue
			}
			cv := membership[a.to]
			if cu == cv {
				loops[cu] += a.w
				continue
			}
			weights[cu][cv] += a.w
			weights[cv][cu] += a.w
		}
	}

	next := &louvainLevel{
		adj:    make([][]arc, k),
		loops:  loops,
		degree: make([]float64, k),
	}
	for c := 0; c < k; c++ {
		neighbors := make([]int, 0, len(weights[c]))
		for d := range weights[c] {
			neighbors = append(neighbors, d)
		}
		sort.Ints(neighbors)

		next.degree[c] = 2 * loops[c]
		next.total += loops[c]
		for _, d := range neighbors {
			w := weights[c][d]
			next.adj[c] = append(next.adj[c], arc{to: d, w: w})
			next.degree[c] += w
			if d > c {
				next.total += w
			}
		}
	}
	return next
}

type louvainStatus struct {
	node2com  []int
	degrees   []float64 // summed weighted degree per community
	internals []float64 // edge weight inside each community
}

func newLouvainStatus(level *louvainLevel) *louvainStatus {
	n := len(level.adj)
	s := &louvainStatus{
		node2com:  make([]int, n),
		degrees:   make([]float64, n),
		internals: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.node2com[i] = i
		s.degrees[i] = level.degree[i]
		s.internals[i] = level.loops[i]
	}
	return s
}

func (s *louvainStatus) remove(level *louvainLevel, node, com int, weight float64) {
	s.degrees[com] -= level.degree[node]
	s.internals[com] -= weight + level.loops[node]
	s.node2com[node] = -1
}

func (s *louvainStatus) insert(level *louvainLevel, node, com int, weight float64) {
	s.node2com[node] = com
	s.degrees[com] += level.degree[node]
	s.internals[com] += weight + level.loops[node]
}

func (s *louvainStatus) modularity(level *louvainLevel, resolution float64) float64 {
	if level.total == 0 {
		return 0
	}
	q := 0.0
	for c := range s.degrees {
		d := s.degrees[c] / (2 * level.total)
		q += s.internals[c]/level.total - resolution*d*d
	}
	return q
}

type louvain struct {
	opts LouvainOptions
	rng  *rand.Rand
}

// oneLevel runs local-move passes until a pass moves no node or gains less
// than the tolerance.
func (l *louvain) oneLevel(level *louvainLevel, s *louvainStatus) {
	n := len(level.adj)
	resolution := l.opts.Resolution
	current := s.modularity(level, resolution)

	neighWeights := make(map[int]float64)
	neighOrder := make([]int, 0)

	for passes := 0; l.opts.MaxPasses <= 0 || passes < l.opts.MaxPasses; passes++ {
		modified := false

		for _, node := range l.rng.Perm(n) {
			com := s.node2com[node]
			degcTotw := level.degree[node] / (2 * level.total)

			clear(neighWeights)
			neighOrder = neighOrder[:0]
			for _, a := range level.adj[node] {
				c := s.node2com[a.to]
				if _, seen := neighWeights[c]; !seen {
					neighOrder = append(neighOrder, c)
				}
				neighWeights[c] += a.w
			}

			removeCost := -neighWeights[com] + resolution*(s.degrees[com]-level.degree[node])*degcTotw
			s.remove(level, node, com, neighWeights[com])

			best, bestIncrease := com, 0.0
			l.rng.Shuffle(len(neighOrder), func(i, j int) {
				neighOrder[i], neighOrder[j] = neighOrder[j], neighOrder[i]
			})
			for _, c := range neighOrder {
				increase := removeCost + neighWeights[c] - resolution*s.degrees[c]*degcTotw
				if increase > bestIncrease {
					bestIncrease = increase
					best = c
				}
			}

			s.insert(level, node, best, neighWeights[best])
			if best != com {
				modified = true
			}
		}

		next := s.modularity(level, resolution)
		if !modified || next-current < l.opts.Tolerance {
			break
		}
		current = next
	}
}

// renumber maps community labels to dense ids in order of first appearance
func renumber(node2com []int) ([]int, int) {
	ids := make(map[int]int)
	out := make([]int, len(node2com))
	for i, c := range node2com {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		out[i] = id
	}
	return out, len(ids)
}
