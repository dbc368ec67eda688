package renderer

import (
	"time"

	"github.com/acekiller/povray-sub002/compiler/bvh"
	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/tracer"
)

type WorkerStat struct {
	// The worker id.
	Id int

	// Number of traced queries.
	Rays int

	// Time spent tracing.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual worker stats for the last Trace call.
	Workers []WorkerStat

	// Tree build stats and shape of the current tree.
	Build bvh.Stats
	Tree  scene.TreeStats

	// Traversal counters accumulated since the last Prepare call.
	Traversal tracer.StatsSnapshot

	// Total time for the last Trace call.
	RenderTime time.Duration
}
