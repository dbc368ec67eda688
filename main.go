package main

import (
	"fmt"
	"os"

	"github.com/acekiller/povray-sub002/cmd"
	"github.com/acekiller/povray-sub002/compiler/bvh"
	"github.com/acekiller/povray-sub002/renderer"
	"github.com/acekiller/povray-sub002/tracer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "objects",
			Value: 10000,
			Usage: "number of generated finite objects",
		},
		cli.IntFlag{
			Name:  "planes",
			Value: 1,
			Usage: "number of generated infinite planes",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random seed for scene generation",
		},
		cli.IntFlag{
			Name:  "bbox-threshold",
			Value: bvh.DefaultBBoxThreshold,
			Usage: "minimum finite object count for building a BVH",
		},
		cli.IntFlag{
			Name:  "max-leaf-items",
			Value: bvh.DefaultMaxLeafItems,
			Usage: "maximum number of objects per BVH leaf",
		},
		cli.StringFlag{
			Name:  "split",
			Value: renderer.SplitMedian,
			Usage: fmt.Sprintf("BVH split strategy (%s or %s)", renderer.SplitMedian, renderer.SplitSAH),
		},
		cli.IntFlag{
			Name:  "max-queue-size",
			Value: tracer.DefaultMaxQueueSize,
			Usage: "capacity of the per-ray traversal queue",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "number of tracing goroutines (0 = number of CPUs)",
		},
	}

	app := cli.NewApp()
	app.Name = "bvhtool"
	app.Usage = "build and benchmark ray traversal acceleration trees"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "inspect",
			Usage: "build a BVH for a generated scene and print its statistics",
			Description: `
Generate a random scene of spheres, rotated cubes and ground planes, partition
the finite objects into a BVH and display the shape of the resulting tree.`,
			Flags:  sceneFlags,
			Action: cmd.InspectTree,
		},
		{
			Name:  "bench",
			Usage: "trace random rays through a generated scene",
			Description: `
Generate a random scene, build its BVH and trace a batch of primary and
shadow rays using a pool of workers. Worker timings and traversal counters are
reported at the end of the run. With --verify every result is compared against
a brute force traversal of the same scene.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of traced rays",
				},
				cli.BoolFlag{
					Name:  "shadow",
					Usage: "make every other ray a shadow ray",
				},
				cli.BoolFlag{
					Name:  "verify",
					Usage: "compare results against brute force traversal",
				},
			}, sceneFlags...),
			Action: cmd.Bench,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
