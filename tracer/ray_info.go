package tracer

import (
	"math"

	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/types"
)

// RayInfo caches the per-ray coefficients of the slab test. It is built
// once per traversal and never shared.
type RayInfo struct {
	Origin types.Vec3
	InvDir types.Vec3

	// False for axes where the ray direction is zero (or so small that its
	// reciprocal overflows). These axes use a containment test instead of a
	// division so no NaN reaches the interval comparisons.
	NonZero [3]bool

	// True for axes where the direction is positive; selects which box face
	// is the entry face.
	Positive [3]bool
}

// Precompute slab test coefficients for ray.
func NewRayInfo(ray types.Ray) RayInfo {
	ri := RayInfo{Origin: ray.Origin}
	for axis := 0; axis < 3; axis++ {
		d := ray.Dir[axis]
		if d == 0 {
			continue
		}
		inv := 1 / d
		if math.IsInf(float64(inv), 0) {
			continue
		}
		ri.InvDir[axis] = inv
		ri.NonZero[axis] = true
		ri.Positive[axis] = d > 0
	}
	return ri
}

// Intersect the ray with box. The box is hit if the ray parameter interval
// inside it is non-empty, ends at or after minDepth and starts at or before
// maxDepth. The returned entry distance may be negative when the ray origin
// lies inside the box.
func (ri *RayInfo) Slab(box scene.BBox, minDepth, maxDepth float32) (tEnter float32, hit bool) {
	tEnter = float32(math.Inf(-1))
	tExit := float32(math.Inf(1))
	max := box.Max()

	for axis := 0; axis < 3; axis++ {
		lo, hi := box.Min[axis], max[axis]
		o := ri.Origin[axis]

		if !ri.NonZero[axis] {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		var t0, t1 float32
		if ri.Positive[axis] {
			t0 = (lo - o) * ri.InvDir[axis]
			t1 = (hi - o) * ri.InvDir[axis]
		} else {
			t0 = (hi - o) * ri.InvDir[axis]
			t1 = (lo - o) * ri.InvDir[axis]
		}

		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
		if tEnter > tExit {
			return 0, false
		}
	}

	if tExit < minDepth || tEnter > maxDepth {
		return 0, false
	}
	return tEnter, true
}
