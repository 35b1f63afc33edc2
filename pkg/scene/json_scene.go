package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// NewFromDescription builds a scene from a parsed scene file. Sections the
// file omits keep the defaults of New.
func NewFromDescription(desc *loaders.SceneDescription) *Scene {
	s := New(desc.Name)

	if desc.Background != nil {
		s.Background = *desc.Background
	}
	if desc.Camera != nil {
		s.CameraConfig = *desc.Camera
	}
	if desc.Width > 0 && desc.Height > 0 {
		s.Width, s.Height = desc.Width, desc.Height
	}
	s.CameraConfig.AspectRatio = float32(s.Width) / float32(s.Height)
	if desc.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = desc.Samples
	}
	if desc.Depth > 0 {
		s.SamplingConfig.MaxDepth = desc.Depth
	}

	for _, sphere := range desc.Spheres {
		s.Push(sphere)
	}
	for _, light := range desc.Lights {
		s.AddLight(light)
	}
	return s
}

// LoadJSONScene loads and validates a scene file
func LoadJSONScene(filename string) (*Scene, error) {
	desc, err := loaders.LoadSceneJSON(filename)
	if err != nil {
		return nil, err
	}
	s := NewFromDescription(desc)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return s, nil
}
