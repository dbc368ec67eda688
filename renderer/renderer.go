package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/acekiller/povray-sub002/compiler"
	"github.com/acekiller/povray-sub002/log"
	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/tracer"
)

// Number of queries handed to a worker at a time. Cancellation is checked
// between batches.
const batchSize = 64

type Renderer interface {
	// Compile the current scene geometry. Must be called before the first
	// Trace and again whenever scene objects change; the previous tree is
	// discarded.
	Prepare() error

	// Answer the queries using the worker pool. Results are returned in
	// query order. If ctx is cancelled the call stops between rays and
	// returns ErrInterrupted together with the completed prefix of results.
	Trace(ctx context.Context, queries []tracer.Query) ([]Result, error)

	// Release the compiled tree.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// The outcome of a single query.
type Result struct {
	Hit   scene.Intersection
	Found bool
}

type cpuRenderer struct {
	logger log.Logger
	scene  *scene.Scene
	opts   Options

	// Prepare and Close take the write lock; Trace holds the read lock for
	// the duration of a call so the tree never changes under a worker.
	mu      sync.RWMutex
	tree    *scene.Tree
	tracer  *tracer.Tracer
	closed  bool
	stats   FrameStats
	statsMu sync.Mutex
}

// Create a CPU renderer for the given scene.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}

	return &cpuRenderer{
		logger: log.New("renderer"),
		scene:  sc,
		opts:   opts,
	}, nil
}

func (r *cpuRenderer) Prepare() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	r.scene.Recompute()
	tree, buildStats, err := compiler.Compile(r.scene, r.opts.BuildOptions())
	if err != nil {
		return err
	}

	if r.tree != nil {
		r.tree.Reset()
	}
	r.tree = tree
	r.tracer = tracer.New(tree, r.opts.TraceOptions())

	r.statsMu.Lock()
	r.stats = FrameStats{
		Build: buildStats,
		Tree:  tree.Stats(),
	}
	r.statsMu.Unlock()

	r.logger.Infof(
		"prepared scene: %d finite objects, %d infinite objects, %d nodes, max depth %d",
		len(tree.Finite), len(tree.Infinite), r.stats.Tree.Nodes, r.stats.Tree.MaxDepth,
	)
	return nil
}

func (r *cpuRenderer) Trace(ctx context.Context, queries []tracer.Query) ([]Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	if r.tracer == nil {
		return nil, ErrNotPrepared
	}

	start := time.Now()
	results := make([]Result, len(queries))

	numWorkers := r.opts.Workers
	numBatches := (len(queries) + batchSize - 1) / batchSize
	if numWorkers > numBatches {
		numWorkers = numBatches
	}

	batchChan := make(chan int, numBatches)
	for batch := 0; batch < numBatches; batch++ {
		batchChan <- batch
	}
	close(batchChan)

	// completed[i] is true once batch i has been fully traced.
	completed := make([]bool, numBatches)
	workerStats := make([]WorkerStat, numWorkers)

	var wg sync.WaitGroup
	for id := 0; id < numWorkers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			stat := &workerStats[id]
			stat.Id = id
			workerStart := time.Now()
			for batch := range batchChan {
				if ctx.Err() != nil {
					break
				}
				from := batch * batchSize
				to := from + batchSize
				if to > len(queries) {
					to = len(queries)
				}
				for index := from; index < to; index++ {
					hit, found := r.tracer.Intersect(queries[index])
					results[index] = Result{Hit: hit, Found: found}
				}
				stat.Rays += to - from
				completed[batch] = true
			}
			stat.RenderTime = time.Since(workerStart)
		}(id)
	}
	wg.Wait()

	r.statsMu.Lock()
	r.stats.Workers = workerStats
	r.stats.RenderTime = time.Since(start)
	r.stats.Traversal = r.tracer.Stats().Snapshot()
	r.statsMu.Unlock()

	if err := ctx.Err(); err != nil {
		done := 0
		for done < numBatches && completed[done] {
			done++
		}
		if done == numBatches {
			return results, nil
		}
		prefix := done * batchSize
		if prefix > len(results) {
			prefix = len(results)
		}
		return results[:prefix], fmt.Errorf("%w: %v", ErrInterrupted, err)
	}

	return results, nil
}

func (r *cpuRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tree != nil {
		r.tree.Reset()
	}
	r.tree = nil
	r.tracer = nil
	r.closed = true
}

func (r *cpuRenderer) Stats() FrameStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()

	stats := r.stats
	stats.Workers = append([]WorkerStat(nil), r.stats.Workers...)
	return stats
}
