package bipartite

import (
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
)

type partitionKey struct {
	side       Side
	resolution float64 // exact value, no tolerance
}

// memo holds the derived values of one Graph. Entries are computed at most
// once: concurrent requests for a missing entry join a single in-flight
// computation, and the result is published under mu before anyone else can
// look for it. There is no eviction; the partition cache grows with every
// distinct resolution requested.
type memo struct {
	mu          sync.Mutex
	group       singleflight.Group
	projections map[Side]*algorithms.WeightedGraph
	partitions  map[partitionKey]algorithms.Partition
	counters    CacheStats
}

func newMemo() *memo {
	return &memo{
		projections: make(map[Side]*algorithms.WeightedGraph),
		partitions:  make(map[partitionKey]algorithms.Partition),
	}
}

func (m *memo) stats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters
}

// projection returns the cached projection onto side, computing it with
// fn on first use. computed reports whether this call ran fn.
func (m *memo) projection(side Side, fn func() *algorithms.WeightedGraph) (pg *algorithms.WeightedGraph, computed bool) {
	m.mu.Lock()
	m.counters.ProjectionRequests++
	m.mu.Unlock()

	v, _ := lookup(m, m.projections, side, "projection/"+side.String(), func() (*algorithms.WeightedGraph, error) {
		computed = true
		pg := fn()
		m.mu.Lock()
		m.counters.ProjectionsComputed++
		m.mu.Unlock()
		return pg, nil
	})
	return v, computed
}

// partition returns the cached partition for (side, resolution),
// computing it with fn on first use.
func (m *memo) partition(side Side, resolution float64, fn func() (algorithms.Partition, error)) (p algorithms.Partition, computed bool, err error) {
	m.mu.Lock()
	m.counters.PartitionRequests++
	m.mu.Unlock()

	key := partitionKey{side: side, resolution: resolution}
	flight := fmt.Sprintf("partition/%s/%s", side, strconv.FormatFloat(resolution, 'g', -1, 64))

	p, err = lookup(m, m.partitions, key, flight, func() (algorithms.Partition, error) {
		computed = true
		p, err := fn()
		if err == nil {
			m.mu.Lock()
			m.counters.PartitionsComputed++
			m.mu.Unlock()
		}
		return p, err
	})
	return p, computed, err
}

// lookup implements compute-once-then-publish over one of the memo maps.
// compute runs without mu held.
func lookup[K comparable, V any](m *memo, cache map[K]V, key K, flight string, compute func() (V, error)) (V, error) {
	m.mu.Lock()
	if v, ok := cache[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	res, err, _ := m.group.Do(flight, func() (any, error) {
		// a flight that finished between the check above and Do has
		// already published
		m.mu.Lock()
		if v, ok := cache[key]; ok {
			m.mu.Unlock()
			return v, nil
		}
		m.mu.Unlock()

		v, err := compute()
		if err != nil {
			return v, err
		}

		m.mu.Lock()
		cache[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}
