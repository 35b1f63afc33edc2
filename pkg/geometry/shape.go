package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// HitRecord contains information about a ray-object intersection. The hit
// object's surface attributes are copied so the record stays valid without
// a reference back into the scene.
type HitRecord struct {
	T          float32   // Parameter t along the ray
	Point      core.Vec3 // Point of intersection
	Center     core.Vec3 // Center of the hit object, used to rebuild the normal
	Color      core.Vec3 // Surface color in [0,255] space
	Specular   float32   // Phong exponent, 0 disables highlights
	Reflective float32   // Fraction of color taken from the mirror bounce
	Refractive float32   // Refractive index tag
}

// Normal returns the outward unit surface normal at the hit point.
// It is the zero vector when the hit point coincides with the center.
func (h *HitRecord) Normal() core.Vec3 {
	return h.Point.Subtract(h.Center).Normalize()
}
