package compiler

import (
	"fmt"
	"time"

	"github.com/acekiller/povray-sub002/compiler/bvh"
	"github.com/acekiller/povray-sub002/log"
	"github.com/acekiller/povray-sub002/scene"
)

type sceneCompiler struct {
	scene  *scene.Scene
	tree   *scene.Tree
	opts   bvh.Options
	logger log.Logger

	stats bvh.Stats
}

// A finite scene entry tagged with its position in the compiled entry list.
type indexedEntry struct {
	scene.Entry
	index int32
}

// Compile the scene geometry into a tree suitable for ray traversal. The
// returned tree is independent of the scene: objects added to or
// recomputed in the scene afterwards require a new Compile call.
func Compile(sc *scene.Scene, opts bvh.Options) (*scene.Tree, bvh.Stats, error) {
	compiler := &sceneCompiler{
		scene:  sc,
		tree:   &scene.Tree{},
		opts:   opts,
		logger: log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Infof("compiling scene")

	err := compiler.partitionGeometry()
	if err != nil {
		return nil, bvh.Stats{}, err
	}

	compiler.logger.Infof("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.tree, compiler.stats, nil
}

// Partition finite scene objects into a BVH tree. Infinite objects are
// copied as-is and bypass the tree.
func (sc *sceneCompiler) partitionGeometry() error {
	finite := sc.scene.Finite()
	sc.tree.Finite = append(make([]scene.Entry, 0, len(finite)), finite...)
	sc.tree.Infinite = append(make([]scene.Entry, 0, sc.scene.NumInfinite()), sc.scene.Infinite()...)

	sc.logger.Infof("building scene BVH tree (%d finite objects, %d infinite objects)", len(finite), sc.scene.NumInfinite())

	volList := make([]bvh.BoundedVolume, len(sc.tree.Finite))
	for index, entry := range sc.tree.Finite {
		volList[index] = indexedEntry{Entry: entry, index: int32(index)}
	}

	sc.tree.Refs = make([]int32, 0, len(volList))
	nodes, stats, err := bvh.Build(volList, sc.opts, func(node *scene.BvhNode, workList []bvh.BoundedVolume) {
		node.SetRefs(uint32(len(sc.tree.Refs)), uint32(len(workList)))
		for _, item := range workList {
			sc.tree.Refs = append(sc.tree.Refs, item.(indexedEntry).index)
		}
	})
	if err != nil {
		return fmt.Errorf("compiler: %w", err)
	}

	sc.tree.Nodes = nodes
	sc.tree.Flat = stats.Flat
	sc.stats = stats

	if stats.Flat {
		sc.logger.Infof("%d finite objects is below the bbox threshold of %d; skipping tree construction", len(finite), sc.opts.BBoxThreshold)
	}
	if !stats.Flat && log.IsEnabledFor(log.Debug, "scene compiler") {
		treeStats := sc.tree.Stats()
		sc.logger.Debugf(
			"tree shape: %d leafs, avg leaf size %.2f, max leaf size %d, avg leaf depth %.2f",
			treeStats.Leafs, treeStats.AvgLeafSize, treeStats.MaxLeafSize, treeStats.AvgDepth,
		)
	}
	if stats.Fallbacks > 0 {
		sc.logger.Infof("%d node splits fell back to round-robin partitioning", stats.Fallbacks)
	}
	return nil
}
