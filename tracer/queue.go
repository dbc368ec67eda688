package tracer

import "github.com/acekiller/povray-sub002/scene"

type queueEntry struct {
	depth float32
	node  uint32
}

// A bounded min-heap of BVH nodes keyed by ray entry distance. When full,
// the queue keeps the entries with the smallest keys seen so far: a new
// entry either replaces the current maximum or is dropped if it is not
// smaller than it.
type Queue struct {
	entries  []queueEntry
	capacity int

	// Entries dropped or evicted since the last Reset.
	overflows int
}

// Create a queue holding at most capacity entries.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	initial := capacity
	if initial > 64 {
		initial = 64
	}
	return &Queue{
		entries:  make([]queueEntry, 0, initial),
		capacity: capacity,
	}
}

// Get the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Get the queue capacity.
func (q *Queue) Cap() int {
	return q.capacity
}

// Get the number of entries dropped or evicted since the last Reset.
func (q *Queue) Overflows() int {
	return q.overflows
}

// Remove all entries.
func (q *Queue) Reset() {
	q.entries = q.entries[:0]
	q.overflows = 0
}

// Insert node with the given key. Returns false if the node did not make it
// into the queue.
func (q *Queue) Insert(depth float32, node uint32) bool {
	if len(q.entries) < q.capacity {
		q.entries = append(q.entries, queueEntry{depth, node})
		q.siftUp(len(q.entries) - 1)
		return true
	}

	q.overflows++

	// The maximum of a min-heap is one of its leafs.
	maxIndex := len(q.entries) / 2
	for index := maxIndex + 1; index < len(q.entries); index++ {
		if q.entries[index].depth > q.entries[maxIndex].depth {
			maxIndex = index
		}
	}
	if depth >= q.entries[maxIndex].depth {
		return false
	}

	// The replaced slot has no children; only the path to the root can be
	// out of order.
	q.entries[maxIndex] = queueEntry{depth, node}
	q.siftUp(maxIndex)
	return true
}

// Extract the entry with the smallest key.
func (q *Queue) PopMin() (depth float32, node uint32, ok bool) {
	if len(q.entries) == 0 {
		return 0, 0, false
	}

	min := q.entries[0]
	last := len(q.entries) - 1
	q.entries[0] = q.entries[last]
	q.entries = q.entries[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return min.depth, min.node, true
}

// Run the slab test for node's box and enqueue the node keyed by its entry
// distance if the ray hits the box within [minDepth, maxDepth].
func (q *Queue) CheckAndEnqueue(node uint32, box scene.BBox, ri *RayInfo, minDepth, maxDepth float32) bool {
	tEnter, hit := ri.Slab(box, minDepth, maxDepth)
	if !hit {
		return false
	}
	return q.Insert(tEnter, node)
}

func (q *Queue) siftUp(index int) {
	for index > 0 {
		parent := (index - 1) / 2
		if q.entries[parent].depth <= q.entries[index].depth {
			return
		}
		q.entries[parent], q.entries[index] = q.entries[index], q.entries[parent]
		index = parent
	}
}

func (q *Queue) siftDown(index int) {
	count := len(q.entries)
	for {
		smallest := index
		left := 2*index + 1
		right := left + 1
		if left < count && q.entries[left].depth < q.entries[smallest].depth {
			smallest = left
		}
		if right < count && q.entries[right].depth < q.entries[smallest].depth {
			smallest = right
		}
		if smallest == index {
			return
		}
		q.entries[smallest], q.entries[index] = q.entries[index], q.entries[smallest]
		index = smallest
	}
}
