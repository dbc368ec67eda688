package bvh

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/acekiller/povray-sub002/log"
	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

const (
	// Node indices are stored as int32 and a tree with n items has at most
	// 2n-1 nodes.
	maxItems = math.MaxInt32 / 2

	DefaultBBoxThreshold = 3
	DefaultMaxLeafItems  = 4
)

var (
	ErrInvalidOptions = errors.New("bvh builder: invalid options")
	ErrTooManyItems   = errors.New("bvh builder: item count exceeds node index range")
)

// The BoundedVolume interface is implemented by all items that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() scene.BBox
	Center() types.Vec3
}

// A callback that is called whenever the BVH builder creates a new leaf.
type LeafCallback func(leaf *scene.BvhNode, itemList []BoundedVolume)

// A split selection strategy.
type SplitStrategy interface {
	// Select a split plane for workList whose union bbox is nodeBox. Items
	// whose center lies below splitPoint along axis go to the left child.
	// Returning ok == false turns the node into a leaf.
	Split(workList []BoundedVolume, nodeBox scene.BBox, depth int) (axis Axis, splitPoint float32, ok bool)
}

// Builder tunables.
type Options struct {
	// Work lists with fewer items are stored in a single leaf without
	// building a tree.
	BBoxThreshold int

	// Work lists with this many items or less become leafs.
	MaxLeafItems int

	// Split selection strategy. Defaults to MedianSplit.
	Strategy SplitStrategy
}

// Get the default builder options.
func DefaultOptions() Options {
	return Options{
		BBoxThreshold: DefaultBBoxThreshold,
		MaxLeafItems:  DefaultMaxLeafItems,
		Strategy:      MedianSplit,
	}
}

// Build statistics.
type Stats struct {
	PartitionedItems int
	TotalItems       int
	Nodes            int
	Leafs            int
	MaxDepth         int

	// Number of splits that had to fall back to round-robin partitioning.
	Fallbacks int

	// True if the item count was below the build threshold.
	Flat bool

	BuildTime time.Duration
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []scene.BvhNode

	// A callback invoked to set up BVH leafs depending on the type of
	// partitioned bounding volume
	leafCb LeafCallback

	// The maximum number of items that are stored in a leaf.
	maxLeafItems int

	// The split strategy to use.
	strategy SplitStrategy

	stats Stats
}

// Construct a BVH from a set of bounded volumes. The node at index 0 of the
// returned list is the tree root; an empty work list yields no nodes.
//
// If the work list contains fewer than opts.BBoxThreshold items, a single
// leaf containing all items is generated. Otherwise the list is partitioned
// recursively until each leaf holds at most opts.MaxLeafItems items or the
// split strategy declines to split. Build is deterministic: identical inputs
// in identical order produce identical trees.
func Build(workList []BoundedVolume, opts Options, leafCb LeafCallback) ([]scene.BvhNode, Stats, error) {
	if opts.MaxLeafItems < 1 || opts.BBoxThreshold < 0 {
		return nil, Stats{}, fmt.Errorf("%w: max leaf items %d, bbox threshold %d", ErrInvalidOptions, opts.MaxLeafItems, opts.BBoxThreshold)
	}
	if len(workList) > maxItems {
		return nil, Stats{}, ErrTooManyItems
	}
	if opts.Strategy == nil {
		opts.Strategy = MedianSplit
	}

	b := &builder{
		logger:       log.New("bvh builder"),
		nodes:        make([]scene.BvhNode, 0, 2*len(workList)),
		leafCb:       leafCb,
		maxLeafItems: opts.MaxLeafItems,
		strategy:     opts.Strategy,
		stats: Stats{
			TotalItems: len(workList),
		},
	}

	start := time.Now()
	switch {
	case len(workList) == 0:
	case len(workList) < opts.BBoxThreshold:
		b.stats.Flat = true
		var node scene.BvhNode
		node.SetBBox(unionBBox(workList))
		b.createLeaf(&node, workList)
	default:
		b.partition(workList, 0)
	}
	b.stats.BuildTime = time.Since(start)

	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d, fallbacks: %d",
		b.stats.BuildTime.Nanoseconds()/1e6, b.stats.TotalItems,
		b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs, b.stats.Fallbacks,
	)
	return b.nodes, b.stats, nil
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	var node scene.BvhNode
	node.SetBBox(unionBBox(workList))

	// Do we have enough items for partitioning? If not create a leaf
	if len(workList) <= b.maxLeafItems {
		return b.createLeaf(&node, workList)
	}

	axis, splitPoint, ok := b.strategy.Split(workList, node.Box, depth)
	if !ok {
		return b.createLeaf(&node, workList)
	}

	// split work list into two sets
	leftWorkList := make([]BoundedVolume, 0, len(workList)/2+1)
	rightWorkList := make([]BoundedVolume, 0, len(workList)/2+1)
	for _, item := range workList {
		if item.Center()[axis] < splitPoint {
			leftWorkList = append(leftWorkList, item)
		} else {
			rightWorkList = append(rightWorkList, item)
		}
	}

	// Coincident centers leave one side empty; distribute items by index
	// so that both children make progress.
	if len(leftWorkList) == 0 || len(rightWorkList) == 0 {
		b.stats.Fallbacks++
		leftWorkList, rightWorkList = leftWorkList[:0], rightWorkList[:0]
		for index, item := range workList {
			if index%2 == 0 {
				leftWorkList = append(leftWorkList, item)
			} else {
				rightWorkList = append(rightWorkList, item)
			}
		}
	}

	// Add node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.Nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	// Child boxes round independently; derive the stored box from them so
	// that it always contains both children.
	b.nodes[nodeIndex].SetBBox(b.nodes[leftNodeIndex].Box.Union(b.nodes[rightNodeIndex].Box))

	return uint32(nodeIndex)
}

// Setup the given node item as a leaf node containing all items in the work list.
// Returns the index to the node in the bvh node array.
func (b *builder) createLeaf(node *scene.BvhNode, workList []BoundedVolume) uint32 {
	if b.leafCb != nil {
		b.leafCb(node, workList)
	}

	// append node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	// update stats
	b.stats.Nodes++
	b.stats.Leafs++
	b.stats.PartitionedItems += len(workList)

	return uint32(nodeIndex)
}

func unionBBox(workList []BoundedVolume) scene.BBox {
	box := workList[0].BBox()
	for _, item := range workList[1:] {
		box = box.Union(item.BBox())
	}
	return box
}

var (
	// Split at the median item center along the axis with the largest extent.
	MedianSplit = medianSplit{}

	// A split strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

type medianSplit struct{}

func (medianSplit) Split(workList []BoundedVolume, nodeBox scene.BBox, depth int) (Axis, float32, bool) {
	axis := Axis(nodeBox.Extent.MaxAxis())

	centers := make([]float32, len(workList))
	for index, item := range workList {
		centers[index] = item.Center()[axis]
	}
	sort.Slice(centers, func(i, j int) bool { return centers[i] < centers[j] })

	return axis, centers[len(centers)/2], true
}
