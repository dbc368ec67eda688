package tracer

import (
	"math"
	"testing"

	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/types"
)

func TestSlab(t *testing.T) {
	unit := scene.NewBBox(types.XYZ(2, -1, -1), types.XYZ(3, 1, 1))

	type spec struct {
		ray       types.Ray
		box       scene.BBox
		minDepth  float32
		maxDepth  float32
		expHit    bool
		expTEnter float32
	}
	specs := []spec{
		// entering from the -x face
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)), unit, 0, 100, true, 2},
		// entering from the +x face
		{types.NewRay(types.XYZ(7, 0, 0), types.XYZ(-1, 0, 0)), unit, 0, 100, true, 4},
		// origin inside the box
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)), scene.NewBBox(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1)), 0, 100, true, -1},
		// box beyond max depth
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)), unit, 0, 1, false, 0},
		// box behind the origin
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(-1, 0, 0)), unit, 0, 100, false, 0},
		// zero direction component with origin outside the slab
		{types.NewRay(types.XYZ(0, 5, 0), types.XYZ(1, 0, 0)), unit, 0, 100, false, 0},
		// diagonal ray through the box corner region
		{types.NewRay(types.XYZ(0, -2, 0), types.XYZ(1, 1, 0)), unit, 0, 100, true, 2},
		// denormal direction behaves like a zero direction
		{types.NewRay(types.XYZ(2.5, 0, -5), types.XYZ(math.SmallestNonzeroFloat32, 0, 1)), unit, 0, 100, true, 4},
	}

	for index, s := range specs {
		ri := NewRayInfo(s.ray)
		tEnter, hit := ri.Slab(s.box, s.minDepth, s.maxDepth)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && math.Abs(float64(tEnter-s.expTEnter)) > 1e-5 {
			t.Fatalf("[spec %d] expected entry distance %f; got %f", index, s.expTEnter, tEnter)
		}
	}
}

func TestRayInfoClassification(t *testing.T) {
	ri := NewRayInfo(types.NewRay(types.Vec3{}, types.XYZ(-2, 0, math.SmallestNonzeroFloat32)))
	if !ri.NonZero[0] || ri.Positive[0] || ri.InvDir[0] != -0.5 {
		t.Fatalf("unexpected x axis classification: %+v", ri)
	}
	if ri.NonZero[1] || ri.NonZero[2] {
		t.Fatalf("expected zero and denormal axes to use the containment test: %+v", ri)
	}
}
