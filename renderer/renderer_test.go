package renderer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/acekiller/povray-sub002/compiler"
	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/scene/shapes"
	"github.com/acekiller/povray-sub002/tracer"
	"github.com/acekiller/povray-sub002/types"
)

func testScene(rng *rand.Rand, count int) *scene.Scene {
	sc := scene.New()
	for index := 0; index < count; index++ {
		center := types.XYZ(rng.Float32()*20-10, rng.Float32()*20-10, rng.Float32()*20)
		sc.Add(shapes.NewSphere(center, 0.2+rng.Float32()))
	}
	sc.Add(shapes.NewPlane(types.XYZ(0, 1, 0), -12))
	return sc
}

func testQueries(rng *rand.Rand, count int) []tracer.Query {
	queries := make([]tracer.Query, count)
	origin := types.XYZ(0, 0, -20)
	for index := range queries {
		target := types.XYZ(rng.Float32()*20-10, rng.Float32()*20-10, 10)
		queries[index] = tracer.Query{Ray: types.NewRay(origin, target.Sub(origin).Normalize())}
	}
	return queries
}

func TestRendererErrors(t *testing.T) {
	if _, err := NewDefault(nil, DefaultOptions()); err != ErrSceneNotDefined {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}

	invalid := []func(*Options){
		func(o *Options) { o.MaxLeafItems = 0 },
		func(o *Options) { o.BBoxThreshold = -1 },
		func(o *Options) { o.MaxQueueSize = 0 },
		func(o *Options) { o.Workers = -2 },
		func(o *Options) { o.SplitStrategy = "octree" },
	}
	for index, mutate := range invalid {
		opts := DefaultOptions()
		mutate(&opts)
		if _, err := NewDefault(scene.New(), opts); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("[spec %d] expected ErrInvalidOptions; got %v", index, err)
		}
	}

	r, err := NewDefault(scene.New(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err = r.Trace(context.Background(), nil); err != ErrNotPrepared {
		t.Fatalf("expected ErrNotPrepared; got %v", err)
	}

	if err = r.Prepare(); err != nil {
		t.Fatal(err)
	}
	r.Close()
	if _, err = r.Trace(context.Background(), nil); err != ErrClosed {
		t.Fatalf("expected ErrClosed; got %v", err)
	}
	if err = r.Prepare(); err != ErrClosed {
		t.Fatalf("expected ErrClosed from Prepare; got %v", err)
	}
}

func TestTraceMatchesTracer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sc := testScene(rng, 500)
	queries := testQueries(rng, 1000)

	for _, split := range []string{SplitMedian, SplitSAH} {
		opts := DefaultOptions()
		opts.SplitStrategy = split
		opts.Workers = 4

		r, err := NewDefault(sc, opts)
		if err != nil {
			t.Fatal(err)
		}
		if err = r.Prepare(); err != nil {
			t.Fatal(err)
		}
		results, err := r.Trace(context.Background(), queries)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != len(queries) {
			t.Fatalf("[%s] expected %d results; got %d", split, len(queries), len(results))
		}

		tree, _, err := compiler.Compile(sc, opts.BuildOptions())
		if err != nil {
			t.Fatal(err)
		}
		tr := tracer.New(tree, opts.TraceOptions())
		for index, q := range queries {
			hit, found := tr.Intersect(q)
			if results[index].Found != found || results[index].Hit != hit {
				t.Fatalf("[%s] query %d: expected %v (found: %t); got %v (found: %t)", split, index, hit, found, results[index].Hit, results[index].Found)
			}
		}

		stats := r.Stats()
		if stats.Traversal.Rays != uint64(len(queries)) {
			t.Fatalf("[%s] expected %d traced rays; got %d", split, len(queries), stats.Traversal.Rays)
		}
		rays := 0
		for _, ws := range stats.Workers {
			rays += ws.Rays
		}
		if rays != len(queries) {
			t.Fatalf("[%s] expected workers to trace %d rays; got %d", split, len(queries), rays)
		}
		if stats.Tree.Nodes != stats.Build.Nodes || stats.Tree.Nodes == 0 {
			t.Fatalf("[%s] unexpected tree stats %+v", split, stats.Tree)
		}
		r.Close()
	}
}

func TestTraceInterrupted(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	r, err := NewDefault(testScene(rng, 50), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err = r.Prepare(); err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := r.Trace(ctx, testQueries(rng, 1000))
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted; got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results from a cancelled trace; got %d", len(results))
	}

	// An empty query list completes even with a cancelled context.
	if results, err = r.Trace(ctx, nil); err != nil || len(results) != 0 {
		t.Fatalf("expected empty trace to succeed; got %d results and error %v", len(results), err)
	}
}

func TestPrepareAfterSceneChange(t *testing.T) {
	sc := scene.New()
	moving := shapes.NewSphere(types.XYZ(0, 0, 10), 1)
	sc.Add(moving)
	for index := 0; index < 10; index++ {
		sc.Add(shapes.NewSphere(types.XYZ(float32(index)*3+20, 0, 0), 1))
	}

	r, err := NewDefault(sc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err = r.Prepare(); err != nil {
		t.Fatal(err)
	}

	query := []tracer.Query{{Ray: types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))}}
	results, err := r.Trace(context.Background(), query)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Found || math.Abs(float64(results[0].Hit.Depth-9)) > 1e-5 {
		t.Fatalf("expected hit at depth 9; got %+v", results[0])
	}

	moving.Center = types.XYZ(0, 0, 20)
	if err = r.Prepare(); err != nil {
		t.Fatal(err)
	}
	results, err = r.Trace(context.Background(), query)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Found || math.Abs(float64(results[0].Hit.Depth-19)) > 1e-5 {
		t.Fatalf("expected hit at depth 19 after moving the sphere; got %+v", results[0])
	}
}
