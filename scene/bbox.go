package scene

import (
	"math"

	"github.com/acekiller/povray-sub002/types"
)

const (
	// Boxes whose extent reaches this length along any axis are considered
	// unbounded.
	CriticalLength float32 = 1e17

	// Coordinate magnitude used for boxes of unbounded or broken objects.
	BoundHuge float32 = 2e17

	// Minimum extent assigned to degenerate box axes.
	minExtent float32 = 1e-4

	// Relative padding that absorbs float32 rounding in the slab test.
	relativePad float32 = 1e-5
)

// An axis-aligned bounding box stored as its min corner and its lengths
// along each axis. Extents are never negative.
type BBox struct {
	Min    types.Vec3
	Extent types.Vec3
}

// Create a bbox from two opposite corners given in any order.
func NewBBox(p0, p1 types.Vec3) BBox {
	return fromCorners(types.MinVec3(p0, p1), types.MaxVec3(p0, p1))
}

// Create the smallest bbox that contains all points.
func BBoxFromPoints(points ...types.Vec3) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = types.MinVec3(min, p)
		max = types.MaxVec3(max, p)
	}
	return fromCorners(min, max)
}

// Build a box from its corners. Extents are rounded up so that Min+Extent
// never falls below max in float32 arithmetic.
func fromCorners(min, max types.Vec3) BBox {
	box := BBox{Min: min, Extent: max.Sub(min)}
	for axis := 0; axis < 3; axis++ {
		for box.Min[axis]+box.Extent[axis] < max[axis] {
			box.Extent[axis] = math.Nextafter32(box.Extent[axis], float32(math.Inf(1)))
		}
	}
	return box
}

// The bbox spanning all of space, assigned to unbounded objects.
func HugeBBox() BBox {
	return BBox{
		Min:    types.Splat(-BoundHuge),
		Extent: types.Splat(2 * BoundHuge),
	}
}

// Get the max corner.
func (b BBox) Max() types.Vec3 {
	return b.Min.Add(b.Extent)
}

// Get the bbox center.
func (b BBox) Center() types.Vec3 {
	return b.Min.Add(b.Extent.Mul(0.5))
}

// Get the smallest bbox containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return fromCorners(types.MinVec3(b.Min, other.Min), types.MaxVec3(b.Max(), other.Max()))
}

// Check whether p lies inside the box or on its boundary.
func (b BBox) Contains(p types.Vec3) bool {
	max := b.Max()
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] || p[axis] > max[axis] {
			return false
		}
	}
	return true
}

// Check whether other lies entirely inside b.
func (b BBox) ContainsBox(other BBox) bool {
	return b.Contains(other.Min) && b.Contains(other.Max())
}

// True if all corner and extent components are finite numbers.
func (b BBox) IsFinite() bool {
	return b.Min.IsFinite() && b.Extent.IsFinite()
}

// True if the box is large enough to be treated as unbounded.
func (b BBox) IsHuge() bool {
	for axis := 0; axis < 3; axis++ {
		if b.Extent[axis] >= CriticalLength || b.Min[axis] <= -CriticalLength || b.Min[axis]+b.Extent[axis] >= CriticalLength {
			return true
		}
	}
	return false
}

// Transform the 8 box corners by m and return the axis aligned box that
// contains them. The result is never smaller than the transformed volume.
func (b BBox) Transform(m types.Mat4) BBox {
	max := b.Max()
	corners := make([]types.Vec3, 0, 8)
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c[0] = max[0]
		}
		if i&2 != 0 {
			c[1] = max[1]
		}
		if i&4 != 0 {
			c[2] = max[2]
		}
		corners = append(corners, m.MulPoint(c))
	}
	return BBoxFromPoints(corners...).Inflate(relativePad)
}

// Grow each axis by eps times the largest coordinate magnitude on that axis
// (at least eps). The result always contains b.
func (b BBox) Inflate(eps float32) BBox {
	if eps <= 0 {
		return b
	}
	min, max := b.Min, b.Max()
	for axis := 0; axis < 3; axis++ {
		mag := math.Max(math.Abs(float64(min[axis])), math.Abs(float64(max[axis])))
		amount := eps * float32(math.Max(1, mag))
		min[axis] -= amount
		max[axis] += amount
	}
	return fromCorners(min, max)
}

// Problems detected while sanitizing a bbox.
type Degeneracy uint8

const (
	// One or more axes had a zero length.
	ZeroExtent Degeneracy = 1 << iota

	// Extent was negative; the corners were swapped.
	InvertedExtent

	// NaN or infinite components; the box was replaced by HugeBBox.
	NonFiniteBounds
)

// Sanitize returns a conservative version of b suitable for tree building
// together with a description of any degeneracy that had to be corrected.
func (b BBox) Sanitize() (BBox, Degeneracy) {
	var flags Degeneracy
	if !b.IsFinite() {
		return HugeBBox(), NonFiniteBounds
	}

	out := b
	for axis := 0; axis < 3; axis++ {
		if out.Extent[axis] < 0 {
			out.Min[axis] += out.Extent[axis]
			out.Extent[axis] = -out.Extent[axis]
			flags |= InvertedExtent
		}
		if out.Extent[axis] == 0 {
			out.Min[axis] -= 0.5 * minExtent
			out.Extent[axis] = minExtent
			flags |= ZeroExtent
		}
	}

	if out.IsHuge() {
		return out, flags
	}
	return out.Inflate(relativePad), flags
}
