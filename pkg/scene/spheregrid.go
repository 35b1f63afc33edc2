package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB in [0,255] space
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(float32(r*255), float32(g*255), float32(blue*255))
}

// DefaultGridSize is the grid size used when the scene is created by name
const DefaultGridSize = 10

// NewSphereGridScene creates a gridSize x gridSize grid of spheres on a
// ground sphere. Shininess varies along one axis and reflectivity along the
// other; every third sphere carries a glass refractive index.
func NewSphereGridScene(gridSize int, cameraOverrides ...renderer.CameraConfig) *Scene {
	if gridSize < 2 {
		gridSize = 2
	}

	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(4.5, 6, 18),
		LookAt:        core.NewVec3(4.5, 0.8, 4.5),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.02, // Small depth of field for some focus variation
		FocusDistance: 0.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New("sphere-grid")
	s.CameraConfig = cameraConfig
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 8,
		MaxDepth:        3,
	}
	s.Width = 800
	s.Height = 450

	s.Push(geometry.NewSphere(core.NewVec3(4.5, -1000, 4.5), 1000, core.NewVec3(128, 128, 128),
		geometry.Material{Specular: 0, Reflective: 0.1, Refractive: 1.0}))

	// Fit the grid into roughly 9x9 units
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(float32(x), float32(sphereRadius), float32(z))

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, 0.15, hue)

			material := geometry.Material{
				Specular:   float32(10 + 990*float64(i)/float64(gridSize-1)),
				Reflective: float32(0.6 * float64(j) / float64(gridSize-1)),
				Refractive: 1.0,
			}
			if (i+j)%3 == 0 {
				material.Refractive = 1.5
			}

			s.Push(geometry.NewSphere(position, float32(sphereRadius), color, material))
		}
	}

	s.AddLight(lights.NewAmbient(0.15, white))
	s.AddLight(lights.NewPositional(core.NewVec3(20, 25, 20), 0.6, white))
	s.AddLight(lights.NewPositional(core.NewVec3(-10, 15, 10), 0.25, white))

	return s
}
