package scene

import (
	"github.com/acekiller/povray-sub002/log"
)

// A Scene holds the objects to be rendered split into the finite set that
// participates in the BVH and the infinite set that is tested for every ray.
type Scene struct {
	logger log.Logger

	objects  []Object
	finite   []Entry
	infinite []Entry
}

// Create an empty scene.
func New() *Scene {
	return &Scene{
		logger: log.New("scene"),
	}
}

// Add objects to the scene. Each object bbox is queried once, sanitized and
// used to classify the object as finite or infinite.
func (sc *Scene) Add(objects ...Object) {
	for _, obj := range objects {
		sc.objects = append(sc.objects, obj)
		sc.classify(obj, len(sc.objects)-1)
	}
}

// Query the bbox of every object again and rebuild the finite/infinite
// partition. This must be called after transforming scene objects and before
// compiling a new tree.
func (sc *Scene) Recompute() {
	sc.finite = sc.finite[:0]
	sc.infinite = sc.infinite[:0]
	for index, obj := range sc.objects {
		sc.classify(obj, index)
	}
}

func (sc *Scene) classify(obj Object, index int) {
	box, flags := obj.BBox().Sanitize()
	if flags&NonFiniteBounds != 0 {
		sc.logger.Warningf("object %d (%T) reported a non-finite bbox; treating it as unbounded", index, obj)
	} else if flags&InvertedExtent != 0 {
		sc.logger.Warningf("object %d (%T) reported an inverted bbox; swapping corners", index, obj)
	} else if flags&ZeroExtent != 0 {
		sc.logger.Debugf("object %d (%T) has a zero-length bbox axis; enlarging it", index, obj)
	}

	entry := Entry{Object: obj, Box: box}
	if u, ok := obj.(Unbounded); (ok && u.Infinite()) || box.IsHuge() {
		sc.infinite = append(sc.infinite, entry)
		return
	}
	sc.finite = append(sc.finite, entry)
}

// Get all scene objects in insertion order.
func (sc *Scene) Objects() []Object {
	return sc.objects
}

// Get the entries eligible for the BVH.
func (sc *Scene) Finite() []Entry {
	return sc.finite
}

// Get the entries that bypass the BVH.
func (sc *Scene) Infinite() []Entry {
	return sc.infinite
}

// Number of bounded objects.
func (sc *Scene) NumFinite() int {
	return len(sc.finite)
}

// Number of unbounded objects.
func (sc *Scene) NumInfinite() int {
	return len(sc.infinite)
}
