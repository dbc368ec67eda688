package scene

import "github.com/acekiller/povray-sub002/types"

// The Object interface is implemented by all primitives that can be placed
// in a scene.
type Object interface {
	// Compute a bounding box that contains every point a valid
	// intersection with this object can return.
	BBox() BBox

	// Append all intersections between ray and the object to hits. Returns
	// true if at least one intersection was added.
	Intersect(ray types.Ray, hits *HitList) bool

	// Opaque objects block shadow rays.
	Opaque() bool
}

// Objects implementing Unbounded and returning true are never placed in
// the BVH regardless of the box they report.
type Unbounded interface {
	Infinite() bool
}

// A single ray/object intersection.
type Intersection struct {
	// Distance along the ray in units of the ray direction length.
	Depth float32

	// Intersection point in world space.
	Point types.Vec3

	Object Object
}

// A reusable list of intersections. A HitList is owned by a single
// traversal and must not be shared between goroutines.
type HitList struct {
	Hits []Intersection
}

// Append an intersection.
func (l *HitList) Add(depth float32, point types.Vec3, obj Object) {
	l.Hits = append(l.Hits, Intersection{Depth: depth, Point: point, Object: obj})
}

// Drop all entries while keeping the allocated storage.
func (l *HitList) Reset() {
	l.Hits = l.Hits[:0]
}

// Get the number of entries.
func (l *HitList) Len() int {
	return len(l.Hits)
}

// Find the entry with the smallest depth inside the open interval
// (minDepth, maxDepth).
func (l *HitList) Nearest(minDepth, maxDepth float32) (Intersection, bool) {
	var best Intersection
	found := false
	for _, hit := range l.Hits {
		if hit.Depth > minDepth && hit.Depth < maxDepth {
			best = hit
			maxDepth = hit.Depth
			found = true
		}
	}
	return best, found
}

// An object together with the sanitized bbox the scene stores for it.
type Entry struct {
	Object Object
	Box    BBox
}

// Get the entry bbox.
func (e Entry) BBox() BBox {
	return e.Box
}

// Get the entry bbox center.
func (e Entry) Center() types.Vec3 {
	return e.Box.Center()
}
