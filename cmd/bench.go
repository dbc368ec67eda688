package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"

	"github.com/acekiller/povray-sub002/renderer"
	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
)

// Relative depth difference tolerated when verifying against brute force.
const verifyTolerance = 1e-4

type snapshotFunc func() tracer.StatsSnapshot

func (f snapshotFunc) Snapshot() tracer.StatsSnapshot {
	return f()
}

// Trace random rays through a generated scene and display statistics.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	sc := generateScene(rng, ctx.Int("objects"), ctx.Int("planes"))
	queries := generateQueries(rng, ctx.Int("rays"), ctx.Bool("shadow"))

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.Prepare(); err != nil {
		return err
	}

	traceCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Noticef("tracing %d rays against %d objects", len(queries), len(sc.Objects()))
	results, err := r.Trace(traceCtx, queries)
	if err != nil {
		return err
	}

	displayTreeStats(r.Stats())
	displayFrameStats(r.Stats())

	registry := prometheus.NewRegistry()
	registry.MustRegister(tracer.NewCollector("bvhtool", snapshotFunc(func() tracer.StatsSnapshot {
		return r.Stats().Traversal
	})))
	if err = displayMetrics(registry); err != nil {
		return err
	}

	if ctx.Bool("verify") {
		return verify(sc, opts, queries, results)
	}
	return nil
}

// Trace the queries again with tree building disabled and compare results.
func verify(sc *scene.Scene, opts renderer.Options, queries []tracer.Query, results []renderer.Result) error {
	opts.BBoxThreshold = len(sc.Objects()) + 1
	bf, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer bf.Close()

	if err = bf.Prepare(); err != nil {
		return err
	}
	expected, err := bf.Trace(context.Background(), queries)
	if err != nil {
		return err
	}

	mismatches := 0
	for index, exp := range expected {
		got := results[index]
		if got.Found != exp.Found {
			mismatches++
			continue
		}
		if queries[index].Mode == tracer.Nearest && got.Found {
			diff := math.Abs(float64(got.Hit.Depth - exp.Hit.Depth))
			if diff > verifyTolerance*math.Max(1, math.Abs(float64(exp.Hit.Depth))) {
				mismatches++
			}
		}
	}

	if mismatches != 0 {
		return fmt.Errorf("verification failed: %d of %d queries disagree with brute force", mismatches, len(queries))
	}
	logger.Noticef("verified %d queries against brute force", len(queries))
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rays", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Id),
			fmt.Sprintf("%d", stat.Rays),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}

func displayMetrics(registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Labels", "Value"})
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, label.GetName()+"="+label.GetValue())
			}
			table.Append([]string{
				family.GetName(),
				strings.Join(labels, ","),
				fmt.Sprintf("%.0f", metric.GetCounter().GetValue()),
			})
		}
	}

	table.Render()
	logger.Noticef("traversal counters\n%s", buf.String())
	return nil
}
