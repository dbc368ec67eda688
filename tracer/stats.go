package tracer

import "sync/atomic"

// Traversal counters shared by all goroutines using a Tracer. Counters are
// updated once per Intersect call.
type Stats struct {
	rays           atomic.Uint64
	shadowRays     atomic.Uint64
	boxTests       atomic.Uint64
	nodesEnqueued  atomic.Uint64
	queueOverflows atomic.Uint64
	objectTests    atomic.Uint64
	hits           atomic.Uint64
}

// A point in time copy of the traversal counters.
type StatsSnapshot struct {
	// Total queries; ShadowRays of them ran in AnyOccluder mode.
	Rays       uint64
	ShadowRays uint64

	// Ray/box slab tests performed.
	BoxTests uint64

	// Nodes inserted into a traversal queue.
	NodesEnqueued uint64

	// Queue entries dropped or evicted because a queue was full.
	QueueOverflows uint64

	// Calls into object intersection routines.
	ObjectTests uint64

	// Queries that reported an intersection.
	Hits uint64
}

// Per-call counters accumulated without synchronization.
type counters struct {
	boxTests    uint64
	enqueued    uint64
	objectTests uint64
}

func (s *Stats) record(c *counters, mode Mode, overflows int, hit bool) {
	s.rays.Add(1)
	if mode == AnyOccluder {
		s.shadowRays.Add(1)
	}
	if hit {
		s.hits.Add(1)
	}
	s.boxTests.Add(c.boxTests)
	s.nodesEnqueued.Add(c.enqueued)
	s.objectTests.Add(c.objectTests)
	if overflows > 0 {
		s.queueOverflows.Add(uint64(overflows))
	}
}

// Get a copy of the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Rays:           s.rays.Load(),
		ShadowRays:     s.shadowRays.Load(),
		BoxTests:       s.boxTests.Load(),
		NodesEnqueued:  s.nodesEnqueued.Load(),
		QueueOverflows: s.queueOverflows.Load(),
		ObjectTests:    s.objectTests.Load(),
		Hits:           s.hits.Load(),
	}
}

// Zero all counters.
func (s *Stats) Reset() {
	s.rays.Store(0)
	s.shadowRays.Store(0)
	s.boxTests.Store(0)
	s.nodesEnqueued.Store(0)
	s.queueOverflows.Store(0)
	s.objectTests.Store(0)
	s.hits.Store(0)
}
