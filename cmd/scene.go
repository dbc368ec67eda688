package cmd

import (
	"errors"
	"math"
	"math/rand"

	"github.com/acekiller/povray-sub002/renderer"
	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/scene/shapes"
	"github.com/acekiller/povray-sub002/tracer"
	"github.com/acekiller/povray-sub002/types"
	"github.com/urfave/cli"
)

// Half side of the cube that generated objects are placed in.
const sceneExtent float32 = 50

// Populate a scene with randomly placed spheres and cubes plus the
// requested number of ground planes.
func generateScene(rng *rand.Rand, numObjects, numPlanes int) *scene.Scene {
	sc := scene.New()
	for index := 0; index < numObjects; index++ {
		center := randomPoint(rng, sceneExtent)
		size := 0.2 + 1.8*rng.Float32()
		if index%2 == 0 {
			sc.Add(shapes.NewSphere(center, 0.5*size))
			continue
		}
		cube := shapes.NewCube(types.Vec3{}, size)
		stretch := types.XYZ(0.5+rng.Float32(), 0.5+rng.Float32(), 0.5+rng.Float32())
		cube.Transform(types.Scale(stretch))
		cube.Transform(types.Translate(center).Mul4(types.Rotate(randomPoint(rng, 1), rng.Float32()*math.Pi)))
		sc.Add(cube)
	}
	for index := 0; index < numPlanes; index++ {
		sc.Add(shapes.NewPlane(types.XYZ(0, 1, 0), -sceneExtent-float32(index)))
	}
	return sc
}

// Generate ray queries. Primary rays are shot from a camera through a
// jittered pixel grid; with shadowRays set every other query is a shadow ray
// towards a random light position.
func generateQueries(rng *rand.Rand, count int, shadowRays bool) []tracer.Query {
	queries := make([]tracer.Query, count)

	camera := scene.NewCamera(45)
	camera.Position = types.XYZ(0, 0, -2*sceneExtent)
	camera.LookAt = types.Vec3{}
	camera.Update()

	side := int(math.Ceil(math.Sqrt(float64(count))))
	for index := range queries {
		s := (float32(index%side) + rng.Float32()) / float32(side)
		t := (float32(index/side) + rng.Float32()) / float32(side)
		ray := camera.Ray(s, t)
		// Rays parallel to a coordinate axis exercise the zero direction path.
		if index%97 == 0 {
			ray.Dir = types.XYZ(0, 0, 1)
		}
		queries[index] = tracer.Query{Ray: ray}

		if shadowRays && index%2 == 1 {
			origin := randomPoint(rng, sceneExtent)
			light := randomPoint(rng, 2*sceneExtent)
			queries[index] = tracer.Query{
				Ray:      types.NewRay(origin, light.Sub(origin)),
				Mode:     tracer.AnyOccluder,
				MaxDepth: 1,
			}
		}
	}
	return queries
}

func randomPoint(rng *rand.Rand, extent float32) types.Vec3 {
	return types.XYZ(
		(2*rng.Float32()-1)*extent,
		(2*rng.Float32()-1)*extent,
		(2*rng.Float32()-1)*extent,
	)
}

// Map command line flags to renderer options.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	opts.BBoxThreshold = ctx.Int("bbox-threshold")
	opts.MaxLeafItems = ctx.Int("max-leaf-items")
	opts.MaxQueueSize = ctx.Int("max-queue-size")
	opts.SplitStrategy = ctx.String("split")
	if workers := ctx.Int("workers"); workers > 0 {
		opts.Workers = workers
	}
	if ctx.Int("objects") < 0 || ctx.Int("planes") < 0 {
		return opts, errors.New("object and plane counts must be >= 0")
	}
	return opts, opts.Validate()
}
