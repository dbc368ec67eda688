package tracer

import (
	"sync"

	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/types"
)

type Mode uint8

const (
	// Find the nearest intersection along the ray.
	Nearest Mode = iota

	// Report the first opaque intersection closer than the query max depth.
	AnyOccluder
)

const (
	// Hits at or below this depth are ignored to avoid self intersection
	// of rays leaving a surface.
	SmallTolerance float32 = 1e-3

	// Far clip used when a query does not specify one.
	FarClip float32 = scene.BoundHuge

	DefaultMaxQueueSize = 256
)

// Traversal tunables.
type Options struct {
	// Capacity of the per-ray priority queue.
	MaxQueueSize int

	// Smallest accepted hit depth. Defaults to SmallTolerance.
	MinDepth float32
}

// Get the default traversal options.
func DefaultOptions() Options {
	return Options{
		MaxQueueSize: DefaultMaxQueueSize,
		MinDepth:     SmallTolerance,
	}
}

// A ray query.
type Query struct {
	Ray  types.Ray
	Mode Mode

	// Only hits closer than MaxDepth are reported. For shadow rays this is
	// the distance to the light. Values <= 0 select FarClip.
	MaxDepth float32

	// An object excluded from the query, typically the surface the ray
	// leaves from.
	Ignore scene.Object
}

// A Tracer answers ray queries against a compiled tree. Intersect may be
// called concurrently from any number of goroutines.
type Tracer struct {
	tree  *scene.Tree
	opts  Options
	stats *Stats

	states sync.Pool
}

// Private per-call state.
type traversal struct {
	queue *Queue
	hits  scene.HitList

	query    Query
	minDepth float32
	best     float32
	bestHit  scene.Intersection
	found    bool

	counters counters
}

// Create a tracer for tree. The tree must not be modified while the tracer
// is in use.
func New(tree *scene.Tree, opts Options) *Tracer {
	if opts.MaxQueueSize < 1 {
		opts.MaxQueueSize = DefaultMaxQueueSize
	}
	if opts.MinDepth <= 0 {
		opts.MinDepth = SmallTolerance
	}

	tr := &Tracer{
		tree:  tree,
		opts:  opts,
		stats: &Stats{},
	}
	tr.states.New = func() interface{} {
		return &traversal{queue: NewQueue(opts.MaxQueueSize)}
	}
	return tr
}

// Get the traversal counters.
func (tr *Tracer) Stats() *Stats {
	return tr.stats
}

// Get the tree this tracer operates on.
func (tr *Tracer) Tree() *scene.Tree {
	return tr.tree
}

// Intersect the query ray with the scene. In Nearest mode the closest hit
// in (MinDepth, MaxDepth) is returned. In AnyOccluder mode the first opaque
// hit in that range is returned, which is not necessarily the closest one.
func (tr *Tracer) Intersect(q Query) (scene.Intersection, bool) {
	st := tr.states.Get().(*traversal)
	st.queue.Reset()
	st.hits.Reset()
	st.counters = counters{}
	st.query = q
	st.minDepth = tr.opts.MinDepth
	st.best = q.MaxDepth
	if st.best <= 0 {
		st.best = FarClip
	}
	st.bestHit = scene.Intersection{}
	st.found = false

	tr.traverse(st)

	hit, found := st.bestHit, st.found
	tr.stats.record(&st.counters, q.Mode, st.queue.Overflows(), found)

	st.query = Query{}
	st.bestHit = scene.Intersection{}
	st.hits.Reset()
	tr.states.Put(st)

	return hit, found
}

func (tr *Tracer) traverse(st *traversal) {
	// Unbounded objects are always tested.
	for index := range tr.tree.Infinite {
		if st.test(&tr.tree.Infinite[index]) {
			return
		}
	}

	if tr.tree.Empty() {
		return
	}

	nodes := tr.tree.Nodes
	if tr.tree.Flat {
		tr.testLeaf(st, &nodes[0])
		return
	}

	ri := NewRayInfo(st.query.Ray)
	st.counters.boxTests++
	if st.queue.CheckAndEnqueue(0, nodes[0].Box, &ri, st.minDepth, st.best) {
		st.counters.enqueued++
	}

	for {
		depth, index, ok := st.queue.PopMin()
		if !ok || depth >= st.best {
			return
		}

		node := &nodes[index]
		if node.IsLeaf() {
			if tr.testLeaf(st, node) {
				return
			}
			continue
		}

		left, right := node.ChildNodes()
		st.counters.boxTests += 2
		if st.queue.CheckAndEnqueue(left, nodes[left].Box, &ri, st.minDepth, st.best) {
			st.counters.enqueued++
		}
		if st.queue.CheckAndEnqueue(right, nodes[right].Box, &ri, st.minDepth, st.best) {
			st.counters.enqueued++
		}
	}
}

// Test all leaf objects. Returns true if the traversal can stop.
func (tr *Tracer) testLeaf(st *traversal, node *scene.BvhNode) bool {
	first, count := node.Refs()
	for _, ref := range tr.tree.Refs[first : first+count] {
		if st.test(&tr.tree.Finite[ref]) {
			return true
		}
	}
	return false
}

// Test a single object and update the best hit. Returns true if the
// traversal can stop.
func (st *traversal) test(entry *scene.Entry) bool {
	obj := entry.Object
	if st.query.Ignore != nil && obj == st.query.Ignore {
		return false
	}
	if st.query.Mode == AnyOccluder && !obj.Opaque() {
		return false
	}

	st.counters.objectTests++
	st.hits.Reset()
	if !obj.Intersect(st.query.Ray, &st.hits) {
		return false
	}

	hit, ok := st.hits.Nearest(st.minDepth, st.best)
	if !ok {
		return false
	}
	if hit.Object == nil {
		hit.Object = obj
	}

	st.best = hit.Depth
	st.bestHit = hit
	st.found = true
	return st.query.Mode == AnyOccluder
}
