package algorithms

// ConnectedComponents finds all connected components in the graph. Each
// component becomes one community; isolated nodes are singleton components.
func ConnectedComponents(g *WeightedGraph) (*CommunityDetectionResult, error) {
	n := len(g.ids)
	visited := make([]bool, n)
	nodeCommunity := make(Partition, n)
	communities := make([]*Community, 0)
	communityID := 0

	// BFS to find each component
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		component := &Community{
			ID:    communityID,
			Nodes: make([]string, 0),
		}

		queue := []int{start}
		visited[start] = true

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			id := g.ids[current]
			component.Nodes = append(component.Nodes, id)
			nodeCommunity[id] = communityID

			for _, next := range g.sortedArcs(current) {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		component.Size = len(component.Nodes)
		communities = append(communities, component)
		communityID++
	}

	modularity, err := Modularity(g, nodeCommunity)
	if err != nil {
		return nil, err
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
		Modularity:    modularity,
	}, nil
}
