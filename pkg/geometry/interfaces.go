package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Shape is the closed set of primitives a scene can hold. The unexported
// method keeps other packages from adding variants, so every switch over
// shapes in this module can stay exhaustive.
type Shape interface {
	Center() core.Vec3
	Validate() error
	shape()
}

// Hit intersects a ray with any shape variant
func Hit(s Shape, ray core.Ray, tMin, tMax float32) (*HitRecord, bool) {
	switch obj := s.(type) {
	case *Sphere:
		return obj.Hit(ray, tMin, tMax)
	default:
		return nil, false
	}
}
