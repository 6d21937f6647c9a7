package algorithms

// ClusteringCoefficient computes the local clustering coefficient of every
// node: the fraction of pairs of its neighbours that are themselves linked.
// Edge weights and self-loops are ignored.
func ClusteringCoefficient(g *WeightedGraph) map[string]float64 {
	coefficients := make(map[string]float64, len(g.ids))

	for i, id := range g.ids {
		neighbors := make([]int, 0, len(g.adj[i]))
		for _, j := range g.sortedArcs(i) {
			if j != i {
				neighbors = append(neighbors, j)
			}
		}

		k := len(neighbors)
		if k < 2 {
			coefficients[id] = 0.0
			continue
		}

		// adjacency maps give O(1) pair checks, so this is O(k²) per node
		triangles := 0
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				if _, ok := g.adj[neighbors[a]][neighbors[b]]; ok {
					triangles++
				}
			}
		}

		possibleTriangles := k * (k - 1) / 2
		coefficients[id] = float64(triangles) / float64(possibleTriangles)
	}

	return coefficients
}

// AverageClusteringCoefficient computes the average clustering coefficient
func AverageClusteringCoefficient(g *WeightedGraph) float64 {
	coefficients := ClusteringCoefficient(g)
	if len(coefficients) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, coef := range coefficients {
		sum += coef
	}
	return sum / float64(len(coefficients))
}
