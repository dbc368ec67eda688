package scene

import (
	"math"
	"testing"

	"github.com/acekiller/povray-sub002/types"
)

type fakeObject struct {
	box      BBox
	infinite bool
}

func (o *fakeObject) BBox() BBox                                   { return o.box }
func (o *fakeObject) Intersect(ray types.Ray, hits *HitList) bool { return false }
func (o *fakeObject) Opaque() bool                                 { return true }

type fakeUnbounded struct {
	fakeObject
}

func (o *fakeUnbounded) Infinite() bool { return o.infinite }

func TestSceneClassification(t *testing.T) {
	nan := float32(math.NaN())
	unit := NewBBox(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))

	type spec struct {
		obj         Object
		expInfinite bool
	}
	specs := []spec{
		{&fakeObject{box: unit}, false},
		{&fakeObject{box: HugeBBox()}, true},
		{&fakeObject{box: BBox{Min: types.XYZ(nan, 0, 0), Extent: types.XYZ(1, 1, 1)}}, true},
		{&fakeObject{box: BBox{Min: types.XYZ(0, 0, 0), Extent: types.XYZ(0, 0, 0)}}, false},
		{&fakeUnbounded{fakeObject{box: unit, infinite: true}}, true},
		{&fakeUnbounded{fakeObject{box: unit, infinite: false}}, false},
	}

	for index, s := range specs {
		sc := New()
		sc.Add(s.obj)
		if got := sc.NumInfinite() == 1; got != s.expInfinite {
			t.Fatalf("[spec %d] expected infinite classification to be %t; got %t", index, s.expInfinite, got)
		}
		if sc.NumFinite()+sc.NumInfinite() != 1 {
			t.Fatalf("[spec %d] expected object to be placed in exactly one set", index)
		}
		if len(sc.Objects()) != 1 {
			t.Fatalf("[spec %d] expected scene to track 1 object; got %d", index, len(sc.Objects()))
		}
	}
}

func TestSceneRecompute(t *testing.T) {
	obj := &fakeObject{box: NewBBox(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))}
	other := &fakeObject{box: NewBBox(types.XYZ(5, 5, 5), types.XYZ(6, 6, 6))}

	sc := New()
	sc.Add(obj, other)
	if sc.NumFinite() != 2 {
		t.Fatalf("expected 2 finite objects; got %d", sc.NumFinite())
	}

	// Move the first object and make the second one unbounded.
	obj.box = NewBBox(types.XYZ(10, 0, 0), types.XYZ(11, 1, 1))
	other.box = HugeBBox()

	// Stored boxes do not change until the scene is recomputed.
	if sc.Finite()[0].Box.Contains(types.XYZ(10.5, 0.5, 0.5)) {
		t.Fatal("expected stored bbox to remain unchanged before Recompute")
	}

	sc.Recompute()
	if sc.NumFinite() != 1 || sc.NumInfinite() != 1 {
		t.Fatalf("expected 1 finite and 1 infinite object; got %d and %d", sc.NumFinite(), sc.NumInfinite())
	}
	if !sc.Finite()[0].Box.Contains(types.XYZ(10.5, 0.5, 0.5)) {
		t.Fatalf("expected recomputed bbox to contain the moved object; got %v", sc.Finite()[0].Box)
	}
	if sc.Infinite()[0].Object != other {
		t.Fatal("expected the unbounded object to be moved to the infinite set")
	}
}

func TestHitListNearest(t *testing.T) {
	var hits HitList
	obj := &fakeObject{}
	for _, depth := range []float32{-2, 0.0005, 3, 1.5, 8} {
		hits.Add(depth, types.Vec3{}, obj)
	}

	type spec struct {
		minDepth, maxDepth float32
		expFound           bool
		expDepth           float32
	}
	specs := []spec{
		{0.001, 100, true, 1.5},
		{-10, 100, true, -2},
		{1.5, 100, true, 3},
		{0.001, 1.5, false, 0},
		{10, 100, false, 0},
	}

	for index, s := range specs {
		hit, found := hits.Nearest(s.minDepth, s.maxDepth)
		if found != s.expFound {
			t.Fatalf("[spec %d] expected found to be %t; got %t", index, s.expFound, found)
		}
		if found && hit.Depth != s.expDepth {
			t.Fatalf("[spec %d] expected nearest depth %f; got %f", index, s.expDepth, hit.Depth)
		}
	}

	hits.Reset()
	if hits.Len() != 0 {
		t.Fatalf("expected hit list to be empty after reset; got %d", hits.Len())
	}
}

func TestCameraRays(t *testing.T) {
	camera := NewCamera(90)
	camera.Position = types.XYZ(0, 0, 5)
	camera.LookAt = types.XYZ(0, 0, 0)
	camera.Update()

	center := camera.Ray(0.5, 0.5)
	if center.Origin != camera.Position {
		t.Fatalf("expected ray origin %v; got %v", camera.Position, center.Origin)
	}
	if d := center.Dir.Sub(types.XYZ(0, 0, -1)); d.Len() > 1e-5 {
		t.Fatalf("expected center ray to point at the look-at target; got %v", center.Dir)
	}

	// With a 90 degree FOV the top-left corner ray makes 45 degree angles
	// with the view axis along both image axes.
	corner := camera.Ray(0, 0)
	if corner.Dir[0] >= 0 || corner.Dir[1] <= 0 {
		t.Fatalf("expected top-left ray to point up and left; got %v", corner.Dir)
	}
	if diff := math.Abs(float64(corner.Dir[0] + corner.Dir[1])); diff > 1e-5 {
		t.Fatalf("expected symmetric corner ray; got %v", corner.Dir)
	}
	if l := corner.Dir.Len(); math.Abs(float64(l-1)) > 1e-5 {
		t.Fatalf("expected normalized ray direction; got length %f", l)
	}
}

func TestCameraYaw(t *testing.T) {
	camera := NewCamera(60)
	camera.Yaw = math.Pi / 2
	camera.Update()

	if camera.Yaw != 0 || camera.Pitch != 0 {
		t.Fatalf("expected pending rotation to be cleared; got pitch %f yaw %f", camera.Pitch, camera.Yaw)
	}
	if d := camera.LookAt.Sub(types.XYZ(-1, 0, 0)); d.Len() > 1e-5 {
		t.Fatalf("expected yawed camera to look along -X; got look-at %v", camera.LookAt)
	}
	if d := camera.Ray(0.5, 0.5).Dir.Sub(types.XYZ(-1, 0, 0)); d.Len() > 1e-5 {
		t.Fatalf("expected center ray to follow the view direction; got %v", camera.Ray(0.5, 0.5).Dir)
	}
}
