package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/palette"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewOriginalScene recreates the first hand-authored demo: a cluster of
// small palette-colored spheres in front of a larger one
func NewOriginalScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 0.2, 2.5),
		LookAt:        core.NewVec3(0, 0.1, -0.5),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   4.0 / 3.0,
		VFov:          90.0,
		Aperture:      0.01, // Slight depth of field
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New("original")
	s.CameraConfig = cameraConfig
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 8,
		MaxDepth:        2,
	}
	s.Width = 800
	s.Height = 600

	glossy := geometry.Material{Specular: 200, Reflective: 0.25, Refractive: 1.0}
	matte := geometry.Material{Specular: 0, Reflective: 0, Refractive: 1.0}

	s.Push(geometry.NewSphere(core.NewVec3(-0.2, 0.0, -1.0), 0.7, palette.OrangeYellowCrayola, glossy))
	s.Push(geometry.NewSphere(core.NewVec3(400, 400, 51), 5.0, palette.MiddleYellow, matte))
	s.Push(geometry.NewSphere(core.NewVec3(0.1, -0.3, 0.0), 0.1, palette.CaribbeanGreen, glossy))
	s.Push(geometry.NewSphere(core.NewVec3(-0.3, 0.0, 0.0), 0.15, palette.Space, glossy))
	s.Push(geometry.NewSphere(core.NewVec3(0.5, 1.0, 0.0), 0.2, palette.DeepMagenta, glossy))
	// Same sphere again: on equal hit distances the first one inserted wins
	s.Push(geometry.NewSphere(core.NewVec3(0.5, 1.0, 0.0), 0.2, palette.Purple, glossy))

	s.AddLight(lights.NewAmbient(0.25, white))
	s.AddLight(lights.NewPositional(core.NewVec3(2, 2, 2), 0.55, white))
	s.AddLight(lights.NewPositional(core.NewVec3(-3, 1, 1), 0.2, white))

	return s
}
