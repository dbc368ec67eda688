package tracer

import "github.com/prometheus/client_golang/prometheus"

// A source of traversal counter snapshots; implemented by *Stats.
type Snapshotter interface {
	Snapshot() StatsSnapshot
}

// A prometheus collector exporting traversal counters.
type Collector struct {
	stats Snapshotter

	rays           *prometheus.Desc
	boxTests       *prometheus.Desc
	nodesEnqueued  *prometheus.Desc
	queueOverflows *prometheus.Desc
	objectTests    *prometheus.Desc
	hits           *prometheus.Desc
}

// Create a collector for stats. Metric names are prefixed with namespace.
func NewCollector(namespace string, stats Snapshotter) *Collector {
	return &Collector{
		stats: stats,
		rays: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tracer", "rays_total"),
			"Ray queries answered by the tracer.",
			[]string{"mode"}, nil,
		),
		boxTests: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tracer", "box_tests_total"),
			"Ray/bbox slab tests performed.",
			nil, nil,
		),
		nodesEnqueued: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tracer", "nodes_enqueued_total"),
			"BVH nodes inserted into traversal queues.",
			nil, nil,
		),
		queueOverflows: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tracer", "queue_overflows_total"),
			"Traversal queue entries dropped or evicted at capacity.",
			nil, nil,
		),
		objectTests: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tracer", "object_tests_total"),
			"Object intersection routine invocations.",
			nil, nil,
		),
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tracer", "hits_total"),
			"Ray queries that reported an intersection.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rays
	ch <- c.boxTests
	ch <- c.nodesEnqueued
	ch <- c.queueOverflows
	ch <- c.objectTests
	ch <- c.hits
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Snapshot()

	// Counters are loaded one by one; a concurrent update may be visible in
	// ShadowRays but not yet in Rays.
	var nearest uint64
	if snap.Rays > snap.ShadowRays {
		nearest = snap.Rays - snap.ShadowRays
	}
	ch <- prometheus.MustNewConstMetric(c.rays, prometheus.CounterValue, float64(nearest), "nearest")
	ch <- prometheus.MustNewConstMetric(c.rays, prometheus.CounterValue, float64(snap.ShadowRays), "shadow")
	ch <- prometheus.MustNewConstMetric(c.boxTests, prometheus.CounterValue, float64(snap.BoxTests))
	ch <- prometheus.MustNewConstMetric(c.nodesEnqueued, prometheus.CounterValue, float64(snap.NodesEnqueued))
	ch <- prometheus.MustNewConstMetric(c.queueOverflows, prometheus.CounterValue, float64(snap.QueueOverflows))
	ch <- prometheus.MustNewConstMetric(c.objectTests, prometheus.CounterValue, float64(snap.ObjectTests))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(snap.Hits))
}
