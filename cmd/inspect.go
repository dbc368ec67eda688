package cmd

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/acekiller/povray-sub002/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Build a BVH for a generated scene and display its shape.
func InspectTree(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	sc := generateScene(rng, ctx.Int("objects"), ctx.Int("planes"))

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.Prepare(); err != nil {
		return err
	}

	displayTreeStats(r.Stats())
	return nil
}

func displayTreeStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"Finite objects", fmt.Sprintf("%d", stats.Build.TotalItems)},
		{"Flat (below threshold)", fmt.Sprintf("%t", stats.Build.Flat)},
		{"Nodes", fmt.Sprintf("%d", stats.Tree.Nodes)},
		{"Leafs", fmt.Sprintf("%d", stats.Tree.Leafs)},
		{"Max depth", fmt.Sprintf("%d", stats.Tree.MaxDepth)},
		{"Avg leaf depth", fmt.Sprintf("%.2f", stats.Tree.AvgDepth)},
		{"Max leaf size", fmt.Sprintf("%d", stats.Tree.MaxLeafSize)},
		{"Avg leaf size", fmt.Sprintf("%.2f", stats.Tree.AvgLeafSize)},
		{"Round-robin fallbacks", fmt.Sprintf("%d", stats.Build.Fallbacks)},
	})
	table.SetFooter([]string{"BUILD TIME", stats.Build.BuildTime.String()})

	table.Render()
	logger.Noticef("tree statistics\n%s", buf.String())
}
