// Package shapes provides a few reference primitives used by the command
// line tools and the tests.
package shapes

import (
	"math"

	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/types"
)

// A sphere.
type Sphere struct {
	Center      types.Vec3
	Radius      float32
	Transparent bool
}

// Create an opaque sphere.
func NewSphere(center types.Vec3, radius float32) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) BBox() scene.BBox {
	r := types.Splat(s.Radius)
	return scene.NewBBox(s.Center.Sub(r), s.Center.Add(r))
}

func (s *Sphere) Opaque() bool {
	return !s.Transparent
}

func (s *Sphere) Intersect(ray types.Ray, hits *scene.HitList) bool {
	oc := ray.Origin.Sub(s.Center)
	a := float64(ray.Dir.Dot(ray.Dir))
	if a == 0 {
		return false
	}
	b := float64(oc.Dot(ray.Dir))
	c := float64(oc.Dot(oc)) - float64(s.Radius)*float64(s.Radius)
	disc := b*b - a*c
	if disc < 0 {
		return false
	}
	sq := math.Sqrt(disc)
	t0 := float32((-b - sq) / a)
	t1 := float32((-b + sq) / a)
	hits.Add(t0, ray.At(t0), s)
	if t1 != t0 {
		hits.Add(t1, ray.At(t1), s)
	}
	return true
}

// A box defined by two corners in object space and an object to world
// transformation.
type Box struct {
	Min, Max    types.Vec3
	Transparent bool

	transform    types.Mat4
	invTransform types.Mat4
	transformed  bool
}

// Create an opaque axis aligned box.
func NewBox(min, max types.Vec3) *Box {
	return &Box{
		Min:          types.MinVec3(min, max),
		Max:          types.MaxVec3(min, max),
		transform:    types.Ident4(),
		invTransform: types.Ident4(),
	}
}

// Create an opaque axis aligned cube with the given center and side length.
func NewCube(center types.Vec3, side float32) *Box {
	h := types.Splat(0.5 * side)
	return NewBox(center.Sub(h), center.Add(h))
}

// Apply a transformation on top of the current one. The scene must be
// recomputed afterwards.
func (b *Box) Transform(m types.Mat4) {
	b.transform = m.Mul4(b.transform)
	b.invTransform = b.transform.Inv()
	b.transformed = true
}

func (b *Box) BBox() scene.BBox {
	local := scene.NewBBox(b.Min, b.Max)
	if !b.transformed {
		return local
	}
	return local.Transform(b.transform)
}

func (b *Box) Opaque() bool {
	return !b.Transparent
}

func (b *Box) Intersect(ray types.Ray, hits *scene.HitList) bool {
	origin, dir := ray.Origin, ray.Dir
	if b.transformed {
		origin = b.invTransform.MulPoint(origin)
		dir = b.invTransform.MulDir(dir)
	}

	tNear, tFar := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o, d := float64(origin[axis]), float64(dir[axis])
		lo, hi := float64(b.Min[axis]), float64(b.Max[axis])
		if d == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		t0, t1 := (lo-o)/d, (hi-o)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = math.Max(tNear, t0)
		tFar = math.Min(tFar, t1)
		if tNear > tFar {
			return false
		}
	}

	hits.Add(float32(tNear), ray.At(float32(tNear)), b)
	if tFar != tNear {
		hits.Add(float32(tFar), ray.At(float32(tFar)), b)
	}
	return true
}

// An infinite plane with the points p satisfying dot(Normal, p) = Offset.
type Plane struct {
	Normal      types.Vec3
	Offset      float32
	Transparent bool
}

// Create an opaque plane.
func NewPlane(normal types.Vec3, offset float32) *Plane {
	return &Plane{Normal: normal.Normalize(), Offset: offset}
}

func (p *Plane) BBox() scene.BBox {
	return scene.HugeBBox()
}

func (p *Plane) Infinite() bool {
	return true
}

func (p *Plane) Opaque() bool {
	return !p.Transparent
}

func (p *Plane) Intersect(ray types.Ray, hits *scene.HitList) bool {
	denom := p.Normal.Dot(ray.Dir)
	if denom == 0 {
		return false
	}
	t := (p.Offset - p.Normal.Dot(ray.Origin)) / denom
	hits.Add(t, ray.At(t), p)
	return true
}
