package scene

// Bvh nodes are comprised of a bbox and two multipurpose int32 parameters
// whose value depends on the node type:
//
// - For internal nodes LData and RData are both > 0 and point to the L/R child nodes
// - For leafs LData is <= 0 and holds the negated index of the first leaf
//   reference in Tree.Refs while RData holds the reference count
type BvhNode struct {
	Box BBox

	LData int32
	RData int32
}

// Set bounding box.
func (n *BvhNode) SetBBox(box BBox) {
	n.Box = box
}

// Set left and right child node indices.
func (n *BvhNode) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *BvhNode) ChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set the leaf reference range.
func (n *BvhNode) SetRefs(firstRef, count uint32) {
	n.LData = -int32(firstRef)
	n.RData = int32(count)
}

// Get the leaf reference range.
func (n *BvhNode) Refs() (firstRef, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// True if this node is a leaf.
func (n *BvhNode) IsLeaf() bool {
	return n.LData <= 0
}

// A compiled scene. The node at index 0 is the tree root. Once compiled a
// Tree is never modified and may be shared by any number of goroutines.
type Tree struct {
	// Bvh nodes stored as a contiguous list.
	Nodes []BvhNode

	// Leaf references into Finite. Each leaf owns a contiguous range.
	Refs []int32

	// Objects partitioned by the BVH.
	Finite []Entry

	// Objects tested for every ray.
	Infinite []Entry

	// Set when the finite object count was below the build threshold; the
	// tree then consists of a single leaf that is tested exhaustively.
	Flat bool
}

// Release all tree storage. The tree can be re-used as an empty scene.
func (t *Tree) Reset() {
	t.Nodes = nil
	t.Refs = nil
	t.Finite = nil
	t.Infinite = nil
	t.Flat = false
}

// Check whether the tree has no finite geometry.
func (t *Tree) Empty() bool {
	return len(t.Nodes) == 0
}

// Tree shape statistics.
type TreeStats struct {
	Nodes       int
	Leafs       int
	MaxDepth    int
	MaxLeafSize int
	AvgLeafSize float32
	AvgDepth    float32
}

// Collect statistics about the tree shape.
func (t *Tree) Stats() TreeStats {
	var stats TreeStats
	if t.Empty() {
		return stats
	}

	var totalRefs, totalDepth int
	var walk func(index uint32, depth int)
	walk = func(index uint32, depth int) {
		node := &t.Nodes[index]
		stats.Nodes++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		if node.IsLeaf() {
			_, count := node.Refs()
			stats.Leafs++
			totalRefs += int(count)
			totalDepth += depth
			if int(count) > stats.MaxLeafSize {
				stats.MaxLeafSize = int(count)
			}
			return
		}
		left, right := node.ChildNodes()
		walk(left, depth+1)
		walk(right, depth+1)
	}
	walk(0, 0)

	stats.AvgLeafSize = float32(totalRefs) / float32(stats.Leafs)
	stats.AvgDepth = float32(totalDepth) / float32(stats.Leafs)
	return stats
}
