package bipartite

import (
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

// Side identifies one of the two disjoint node sets of a bipartite graph
type Side int

const (
	SideA Side = iota // e.g. actors, users
	SideB             // e.g. artifacts, items
)

// String returns the origin tag of the side
func (s Side) String() string {
	switch s {
	case SideA:
		return "sideA"
	case SideB:
		return "sideB"
	default:
		return "unknown"
	}
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) valid() bool {
	return s == SideA || s == SideB
}

// Edge is one interaction between a side A entity and a side B entity.
// Repeating an edge adds weight.
type Edge struct {
	A string
	B string
}

// WeightedEdge is a collapsed (A, B) pair with its multiplicity
type WeightedEdge struct {
	A      string
	B      string
	Weight int
}

// Node is an entity of the graph with its side and filtered degree
type Node struct {
	ID     string
	Side   Side
	Degree int // incident filtered edges, counting multiplicity
}

// Options configures Build
type Options struct {
	SideAKey string // column name of side A, used in logs and summaries
	SideBKey string // column name of side B

	// Drop edges whose side A (or side B) entity appears fewer times than
	// this in the unfiltered edge list. 0 disables a filter; at most one
	// may be set.
	MinSideADegree int
	MinSideBDegree int

	// Seed fixes the visit order of community detection. nil gives
	// non-deterministic, similarly scored partitions.
	Seed *int64

	Logger  logging.Logger    // nil discards
	Metrics *metrics.Registry // nil disables
}

// DefaultOptions returns options with generic side names and no filter
func DefaultOptions() Options {
	return Options{
		SideAKey: SideA.String(),
		SideBKey: SideB.String(),
	}
}

// Summary describes a built graph
type Summary struct {
	SideAKey       string
	SideBKey       string
	Interactions   int // filtered edge records, counting repeats
	SideANodes     int
	SideBNodes     int
	Edges          int // distinct weighted edges
	AvgSideADegree float64
	AvgSideBDegree float64
	AvgEdgeWeight  float64
}

// LabeledEdge is an edge tagged with the community of one of its entities
type LabeledEdge struct {
	Edge
	Community int
}

// CacheStats reports memoization activity of one graph instance
type CacheStats struct {
	ProjectionRequests  int
	ProjectionsComputed int
	PartitionRequests   int
	PartitionsComputed  int
}
