package algorithms

import (
	"fmt"
	"math"
	"sort"
)

// Modularity computes the weighted modularity of a partition of g at
// resolution 1. An edgeless graph has modularity 0 by convention.
func Modularity(g *WeightedGraph, p Partition) (float64, error) {
	return ModularityWithResolution(g, p, 1.0)
}

// ModularityWithResolution computes
//
//	Q = Σ_c [ L_c/m − resolution·(d_c / 2m)² ]
//
// where m is the total edge weight, L_c the weight inside community c and
// d_c the summed weighted degree of its nodes. Every node of g must be
// assigned by p; entries of p for nodes outside g are ignored.
func ModularityWithResolution(g *WeightedGraph, p Partition, resolution float64) (float64, error) {
	if err := ValidateResolution(resolution); err != nil {
		return 0, err
	}

	var missing []string
	for _, id := range g.ids {
		if _, ok := p[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return 0, &PartitionError{Op: "modularity", Missing: missing}
	}

	links := g.total
	if links == 0 {
		return 0, nil
	}

	internal := make(map[int]float64)
	degree := make(map[int]float64)
	for i, id := range g.ids {
		com := p[id]
		degree[com] += g.degree[i]
		for j, w := range g.adj[i] {
			if p[g.ids[j]] != com {
				continue
			}
			if i == j {
				internal[com] += w
			} else {
				// each internal edge is seen from both ends
				internal[com] += w / 2
			}
		}
	}

	q := 0.0
	for com, d := range degree {
		q += internal[com]/links - resolution*math.Pow(d/(2*links), 2)
	}
	return q, nil
}

// ValidateResolution checks that a resolution can key a cache and scale a
// null model.
func ValidateResolution(resolution float64) error {
	if math.IsNaN(resolution) || math.IsInf(resolution, 0) || resolution <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidResolution, resolution)
	}
	return nil
}
