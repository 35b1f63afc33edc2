package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/palette"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering. It is built once and
// treated as read-only while a frame renders.
type Scene struct {
	Name           string
	Shapes         []geometry.Shape // Objects in insertion order
	Lights         []lights.Light   // Lights in insertion order
	Background     core.Vec3        // Color returned for rays that hit nothing
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Width          int // Recommended image width
	Height         int // Recommended image height
}

// New creates an empty scene with the default background and a camera at
// the origin looking down +z
func New(name string) *Scene {
	return &Scene{
		Name:       name,
		Shapes:     make([]geometry.Shape, 0),
		Lights:     make([]lights.Light, 0),
		Background: palette.Background,
		CameraConfig: renderer.CameraConfig{
			Center:      core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, 1),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        90,
			AspectRatio: 4.0 / 3.0,
		},
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Width:          400,
		Height:         300,
	}
}

// Push appends a shape to the scene
func (s *Scene) Push(shape geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// AddLight appends a light to the scene
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// NthObjectCenter returns the center of the object at index, or false when
// the index is out of range
func (s *Scene) NthObjectCenter(index int) (core.Vec3, bool) {
	if index < 0 || index >= len(s.Shapes) {
		return core.Vec3{}, false
	}
	return s.Shapes[index].Center(), true
}

// NearestIntersection finds the closest hit in (tMin, tMax). Objects are
// tested in insertion order against a bound that shrinks to each hit found,
// so on equal distances the earlier object wins.
func (s *Scene) NearestIntersection(ray core.Ray, tMin, tMax float32) (*geometry.HitRecord, bool) {
	var closestHit *geometry.HitRecord
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		if hit, isHit := geometry.Hit(shape, ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// GetLights returns the scene lights
func (s *Scene) GetLights() []lights.Light {
	return s.Lights
}

// GetBackground returns the background color
func (s *Scene) GetBackground() core.Vec3 {
	return s.Background
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// Camera builds the camera described by the scene's camera configuration
// for the given image aspect ratio
func (s *Scene) Camera(width, height int) *renderer.Camera {
	config := s.CameraConfig
	if width > 0 && height > 0 {
		config.AspectRatio = float32(width) / float32(height)
	}
	return renderer.NewCamera(config)
}

// AimCamera returns the scene camera re-aimed at the object with the given
// index. Out-of-range indices keep the configured look-at target; the
// second return value reports whether the object was found.
func (s *Scene) AimCamera(index, width, height int) (*renderer.Camera, bool) {
	center, ok := s.NthObjectCenter(index)
	if !ok {
		return s.Camera(width, height), false
	}

	config := s.CameraConfig
	config.LookAt = center
	config.FocusDistance = 0
	if width > 0 && height > 0 {
		config.AspectRatio = float32(width) / float32(height)
	}
	return renderer.NewCamera(config), true
}

// Validate checks every shape and light, reporting all problems at once
func (s *Scene) Validate() error {
	var errs []error
	for i, shape := range s.Shapes {
		if err := shape.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("shape %d: %w", i, err))
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("light %d (%s): %w", i, light.Type(), err))
		}
	}
	return errors.Join(errs...)
}

// Resolve applies render overrides to the scene's recommendations. Zero
// width, height or samples and negative depth keep the scene's values; when
// only one dimension is given the other follows the scene's aspect ratio.
func (s *Scene) Resolve(width, height, samples, depth int) (int, int, renderer.SamplingConfig) {
	switch {
	case width <= 0 && height <= 0:
		width, height = s.Width, s.Height
	case height <= 0:
		height = max(1, (width*s.Height+s.Width/2)/s.Width)
	case width <= 0:
		width = max(1, (height*s.Width+s.Height/2)/s.Height)
	}

	sampling := s.SamplingConfig
	if samples > 0 {
		sampling.SamplesPerPixel = samples
	}
	if depth >= 0 {
		sampling.MaxDepth = depth
	}
	return width, height, sampling
}
