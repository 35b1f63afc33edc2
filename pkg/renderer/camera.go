package renderer

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look-from)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	VFov          float32   // Vertical field of view in degrees
	AspectRatio   float32   // Width / height
	Aperture      float32   // Lens radius, 0 disables depth of field
	FocusDistance float32   // Distance to the focus plane, 0 = distance to LookAt
}

// Camera generates rays for rendering. It is immutable once built; a new
// viewpoint means a new camera.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Camera basis vectors
	lensRadius      float32
	config          CameraConfig
}

// NewCamera creates a camera from configuration
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math32.Pi / 180
	h := math32.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	if u.IsZero() {
		// Up is parallel to the view direction; pick any perpendicular axis
		u = core.NewVec3(0, 0, 1).Cross(w).Normalize()
		if u.IsZero() {
			u = core.NewVec3(1, 0, 0)
		}
	}
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture,
		config:          config,
	}
}

// NewCameraFromVectors builds a camera from explicit view parameters
func NewCameraFromVectors(lookFrom, lookAt, up core.Vec3, vfovDegrees, aspectRatio, aperture, focusDistance float32) *Camera {
	return NewCamera(CameraConfig{
		Center:        lookFrom,
		LookAt:        lookAt,
		Up:            up,
		VFov:          vfovDegrees,
		AspectRatio:   aspectRatio,
		Aperture:      aperture,
		FocusDistance: focusDistance,
	})
}

// GetRay generates a ray for screen coordinates (s, t) in [0,1), where t=0
// is the bottom edge. The origin is jittered on the lens disk when the camera
// has an aperture and random is non-nil. The direction is always unit length.
func (c *Camera) GetRay(s, t float32, random *rand.Rand) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 && random != nil {
		rd := core.RandomInUnitDisk(random).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction.Normalize())
}

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// MergeCameraConfig overlays the non-zero fields of override on base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}
