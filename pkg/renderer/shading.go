package renderer

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// ReferenceRefractiveIndex is the index at which a surface is treated as
// non-refracting. Any other value enables the experimental refraction ray.
const ReferenceRefractiveIndex float32 = 1.0

// ShadingConfig holds the ray parameter intervals used while tracing
type ShadingConfig struct {
	MinT          float32 // Lower bound for camera and bounce rays
	MaxT          float32 // Upper bound for camera and bounce rays
	ShadowEpsilon float32 // Lower bound for shadow rays, avoids self-shadowing
	ShadowMaxT    float32 // Upper bound for shadow rays, in units of the unnormalized light vector
}

// DefaultShadingConfig returns the intervals used by the renderer
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{
		MinT:          0.001,
		MaxT:          math32.Inf(1),
		ShadowEpsilon: 0.001,
		ShadowMaxT:    100,
	}
}

// LocalIntensity computes the scalar light intensity at point: ambient plus
// shadow-tested diffuse and Phong specular terms for every light. normal must
// be unit length, view points from the surface toward the viewer.
func (rt *Raytracer) LocalIntensity(point, normal, view core.Vec3, specular float32) float32 {
	var intensity float32

	for _, light := range rt.scene.GetLights() {
		switch l := light.(type) {
		case *lights.Ambient:
			intensity += l.Intensity

		case *lights.Positional:
			// Left unnormalized: t=1 along the shadow ray is the light itself
			toLight := l.Center.Subtract(point)
			normalLen := normal.Length()
			toLightLen := toLight.Length()
			if normalLen == 0 || toLightLen == 0 {
				continue
			}

			rt.counters.shadowRays++
			shadowRay := core.NewRay(point, toLight)
			if _, blocked := rt.scene.NearestIntersection(shadowRay, rt.shading.ShadowEpsilon, rt.shading.ShadowMaxT); blocked {
				continue
			}

			nDotL := normal.Dot(toLight)
			if nDotL > 0 {
				intensity += l.Intensity * nDotL / (normalLen * toLightLen)
			}

			if specular > 0 {
				reflected := reflectRay(toLight, normal)
				rDotV := reflected.Dot(view)
				denom := reflected.Length() * view.Length()
				if rDotV > 0 && denom > 0 {
					intensity += l.Intensity * math32.Pow(rDotV/denom, specular)
				}
			}
		}
	}

	return intensity
}

// reflectRay mirrors v about normal: 2N(N·v) - v. v points away from the
// surface, and so does the result.
func reflectRay(v, normal core.Vec3) core.Vec3 {
	return normal.Multiply(2 * normal.Dot(v)).Subtract(v)
}
