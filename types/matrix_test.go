package types

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if float32(math.Abs(float64(a[i]-b[i]))) > eps {
			return false
		}
	}
	return true
}

func TestMatrixTransforms(t *testing.T) {
	type spec struct {
		m     Mat4
		in    Vec3
		exp   Vec3
		isDir bool
	}
	specs := []spec{
		{Translate(XYZ(1, 2, 3)), XYZ(1, 1, 1), XYZ(2, 3, 4), false},
		{Translate(XYZ(1, 2, 3)), XYZ(1, 1, 1), XYZ(1, 1, 1), true},
		{Scale(XYZ(2, 3, 4)), XYZ(1, 1, 1), XYZ(2, 3, 4), false},
		{Rotate(XYZ(0, 0, 1), math.Pi/2), XYZ(1, 0, 0), XYZ(0, 1, 0), false},
		{Translate(XYZ(5, 0, 0)).Mul4(Rotate(XYZ(0, 0, 1), math.Pi/2)), XYZ(1, 0, 0), XYZ(5, 1, 0), false},
	}

	for index, s := range specs {
		var out Vec3
		if s.isDir {
			out = s.m.MulDir(s.in)
		} else {
			out = s.m.MulPoint(s.in)
		}
		if !vecNear(out, s.exp, 1e-5) {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, out)
		}
	}
}

func TestMatrixInverse(t *testing.T) {
	m := Translate(XYZ(1, -2, 3)).Mul4(Rotate(XYZ(1, 1, 0), 0.7)).Mul4(Scale(XYZ(2, 2, 2)))
	p := XYZ(0.5, -4, 9)
	back := m.Inv().MulPoint(m.MulPoint(p))
	if !vecNear(p, back, 1e-4) {
		t.Fatalf("expected inverse transform to map %v back to itself; got %v", p, back)
	}
}

func TestQuaternionRotate(t *testing.T) {
	q := QuatFromAxisAngle(XYZ(0, 1, 0), math.Pi)
	out := q.Rotate(XYZ(1, 0, 0))
	if !vecNear(out, XYZ(-1, 0, 0), 1e-5) {
		t.Fatalf("expected rotated vector to be (-1, 0, 0); got %v", out)
	}

	// Matrix and direct rotation must agree.
	viaMat := q.Mat4().MulDir(XYZ(0.3, 0.2, 0.1))
	direct := q.Rotate(XYZ(0.3, 0.2, 0.1))
	if !vecNear(viaMat, direct, 1e-5) {
		t.Fatalf("expected matrix rotation %v to match quaternion rotation %v", viaMat, direct)
	}

	if ident := QuatFromAxisAngle(XYZ(1, 0, 0), 0).Rotate(XYZ(1, 2, 3)); !vecNear(ident, XYZ(1, 2, 3), 1e-6) {
		t.Fatalf("expected identity rotation to be a no-op; got %v", ident)
	}
}

func TestVectorHelpers(t *testing.T) {
	if axis := XYZ(1, 5, 5).MaxAxis(); axis != 1 {
		t.Fatalf("expected ties to resolve to the lowest axis; got %d", axis)
	}
	if axis := XYZ(1, 2, 7).MaxAxis(); axis != 2 {
		t.Fatalf("expected axis 2; got %d", axis)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Fatal("expected zero vector normalization to return the zero vector")
	}
	nan := float32(math.NaN())
	if XYZ(0, nan, 0).IsFinite() {
		t.Fatal("expected vector with NaN component to be reported as non-finite")
	}
	if !XYZ(1, 2, 3).IsFinite() {
		t.Fatal("expected finite vector")
	}
}
