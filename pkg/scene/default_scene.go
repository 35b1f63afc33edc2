package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

var white = core.NewVec3(255, 255, 255)

// NewDefaultScene creates three shiny spheres resting on a large yellow
// ground sphere, lit by an ambient light and two point lights
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, 1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 4.0 / 3.0,
		VFov:        53.13, // Viewport of height 1 at distance 1
		Aperture:    0.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New("default")
	s.CameraConfig = cameraConfig
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 4,
		MaxDepth:        2,
	}
	s.Width = 600
	s.Height = 450

	s.Push(geometry.NewSphere(core.NewVec3(0, -1, 3), 1, core.NewVec3(255, 0, 0),
		geometry.Material{Specular: 500, Reflective: 0.2, Refractive: 1.0}))
	s.Push(geometry.NewSphere(core.NewVec3(2, 0, 4), 1, core.NewVec3(0, 0, 255),
		geometry.Material{Specular: 500, Reflective: 0.3, Refractive: 1.0}))
	s.Push(geometry.NewSphere(core.NewVec3(-2, 0, 4), 1, core.NewVec3(0, 255, 0),
		geometry.Material{Specular: 10, Reflective: 0.4, Refractive: 1.0}))

	// Ground
	s.Push(geometry.NewSphere(core.NewVec3(0, -5001, 0), 5000, core.NewVec3(255, 255, 0),
		geometry.Material{Specular: 1000, Reflective: 0.5, Refractive: 1.0}))

	s.AddLight(lights.NewAmbient(0.2, white))
	s.AddLight(lights.NewPositional(core.NewVec3(2, 1, 0), 0.6, white))
	s.AddLight(lights.NewPositional(core.NewVec3(1, 4, 4), 0.2, white))

	return s
}

// NewEmptyScene creates a scene with lights but no objects; every pixel
// shows the background
func NewEmptyScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewDefaultScene(cameraOverrides...)
	s.Name = "empty"
	s.Shapes = make([]geometry.Shape, 0)
	return s
}
