package algorithms

import "sort"

// Community represents a detected community
type Community struct {
	ID    int
	Nodes []string
	Size  int
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	Modularity    float64   // Quality measure of the partitioning
	NodeCommunity Partition // Node ID -> Community ID
}

// Partition maps every node of a graph to a community id. Ids are dense
// but carry no meaning beyond grouping.
type Partition map[string]int

// Sizes returns the number of nodes in each community
func (p Partition) Sizes() map[int]int {
	sizes := make(map[int]int)
	for _, c := range p {
		sizes[c]++
	}
	return sizes
}

// Count returns the number of distinct communities
func (p Partition) Count() int {
	return len(p.Sizes())
}

// MedianSize returns the upper median of the community sizes, 0 when empty
func (p Partition) MedianSize() int {
	sizes := p.Sizes()
	if len(sizes) == 0 {
		return 0
	}
	counts := make([]int, 0, len(sizes))
	for _, n := range sizes {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	return counts[len(counts)/2]
}

// Communities groups the partition into communities ordered by id, with
// member nodes sorted.
func (p Partition) Communities() []*Community {
	byID := make(map[int][]string)
	for node, c := range p {
		byID[c] = append(byID[c], node)
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	communities := make([]*Community, 0, len(ids))
	for _, id := range ids {
		nodes := byID[id]
		sort.Strings(nodes)
		communities = append(communities, &Community{
			ID:    id,
			Nodes: nodes,
			Size:  len(nodes),
		})
	}
	return communities
}
