package renderer

import (
	"fmt"
	"runtime"

	"github.com/acekiller/povray-sub002/compiler/bvh"
	"github.com/acekiller/povray-sub002/tracer"
)

// Split strategy names accepted by Options.
const (
	SplitMedian = "median"
	SplitSAH    = "sah"
)

type Options struct {
	// Minimum number of finite objects that justifies building a tree.
	BBoxThreshold int

	// Maximum number of objects per BVH leaf.
	MaxLeafItems int

	// BVH split strategy; one of SplitMedian or SplitSAH.
	SplitStrategy string

	// Capacity of the per-ray traversal queue.
	MaxQueueSize int

	// Smallest accepted hit depth.
	MinDepth float32

	// Number of tracing goroutines. Defaults to the number of CPUs.
	Workers int
}

// Get the default renderer options.
func DefaultOptions() Options {
	return Options{
		BBoxThreshold: bvh.DefaultBBoxThreshold,
		MaxLeafItems:  bvh.DefaultMaxLeafItems,
		SplitStrategy: SplitMedian,
		MaxQueueSize:  tracer.DefaultMaxQueueSize,
		MinDepth:      tracer.SmallTolerance,
		Workers:       runtime.NumCPU(),
	}
}

// Check the options for errors.
func (opts Options) Validate() error {
	switch {
	case opts.BBoxThreshold < 0:
		return fmt.Errorf("%w: bbox threshold must be >= 0; got %d", ErrInvalidOptions, opts.BBoxThreshold)
	case opts.MaxLeafItems < 1:
		return fmt.Errorf("%w: max leaf items must be >= 1; got %d", ErrInvalidOptions, opts.MaxLeafItems)
	case opts.MaxQueueSize < 1:
		return fmt.Errorf("%w: max queue size must be >= 1; got %d", ErrInvalidOptions, opts.MaxQueueSize)
	case opts.MinDepth < 0:
		return fmt.Errorf("%w: min depth must be >= 0; got %f", ErrInvalidOptions, opts.MinDepth)
	case opts.Workers < 0:
		return fmt.Errorf("%w: worker count must be >= 0; got %d", ErrInvalidOptions, opts.Workers)
	}
	if _, err := opts.strategy(); err != nil {
		return err
	}
	return nil
}

func (opts Options) strategy() (bvh.SplitStrategy, error) {
	switch opts.SplitStrategy {
	case "", SplitMedian:
		return bvh.MedianSplit, nil
	case SplitSAH:
		return bvh.SurfaceAreaHeuristic, nil
	}
	return nil, fmt.Errorf("%w: unknown split strategy %q", ErrInvalidOptions, opts.SplitStrategy)
}

// Get the BVH builder options.
func (opts Options) BuildOptions() bvh.Options {
	strategy, err := opts.strategy()
	if err != nil {
		strategy = bvh.MedianSplit
	}
	return bvh.Options{
		BBoxThreshold: opts.BBoxThreshold,
		MaxLeafItems:  opts.MaxLeafItems,
		Strategy:      strategy,
	}
}

// Get the traversal options.
func (opts Options) TraceOptions() tracer.Options {
	return tracer.Options{
		MaxQueueSize: opts.MaxQueueSize,
		MinDepth:     opts.MinDepth,
	}
}
