package types

// A ray with an origin and a direction. The direction does not need to be
// normalized; all depths are expressed in units of its length.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// Get the point at the given depth along the ray.
func (r Ray) At(depth float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(depth))
}
