package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel   int  // Number of rays per pixel
	MaxDepth          int  // Maximum reflection depth
	DisableRefraction bool // Skip the experimental refraction ray
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 4,
		MaxDepth:        2,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	NearestIntersection(ray core.Ray, tMin, tMax float32) (*geometry.HitRecord, bool)
	GetLights() []lights.Light
	GetBackground() core.Vec3
}

// rayCounters tracks traced rays; each Raytracer is owned by one goroutine
type rayCounters struct {
	primaryRays   int
	secondaryRays int
	shadowRays    int
}

// Raytracer traces rays through a read-only scene. A Raytracer is not safe
// for concurrent use; workers each own one.
type Raytracer struct {
	scene    Scene
	camera   *Camera
	width    int
	height   int
	config   SamplingConfig
	shading  ShadingConfig
	counters rayCounters
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, camera *Camera, width, height int) *Raytracer {
	return &Raytracer{
		scene:   scene,
		camera:  camera,
		width:   width,
		height:  height,
		config:  DefaultSamplingConfig(),
		shading: DefaultShadingConfig(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetShadingConfig updates the ray intervals used while tracing
func (rt *Raytracer) SetShadingConfig(config ShadingConfig) {
	rt.shading = config
}

// TraceRay returns the color seen along ray, following at most depth
// reflection bounces
func (rt *Raytracer) TraceRay(ray core.Ray, depth int) core.Vec3 {
	return rt.traceRecursive(ray, rt.shading.MinT, rt.shading.MaxT, depth)
}

func (rt *Raytracer) traceRecursive(ray core.Ray, tMin, tMax float32, depth int) core.Vec3 {
	hit, isHit := rt.scene.NearestIntersection(ray, tMin, tMax)
	if !isHit {
		return rt.scene.GetBackground()
	}

	normal := hit.Normal()
	view := ray.Direction.Negate()
	localColor := hit.Color.Multiply(rt.LocalIntensity(hit.Point, normal, view, hit.Specular))

	if hit.Reflective <= 0 || depth <= 0 || normal.IsZero() {
		return localColor
	}

	rt.counters.secondaryRays++
	reflected := core.NewRay(hit.Point, reflectRay(view, normal))
	reflectedColor := rt.traceRecursive(reflected, rt.shading.MinT, rt.shading.MaxT, depth-1)

	color := localColor.Multiply(1 - hit.Reflective).Add(reflectedColor.Multiply(hit.Reflective))

	// Experimental: the "refracted" ray uses the reflection formula with a
	// flipped normal and is added without a weight. Not Snell's law.
	if !rt.config.DisableRefraction && hit.Refractive != ReferenceRefractiveIndex {
		rt.counters.secondaryRays++
		refracted := core.NewRay(hit.Point, reflectRay(view, normal.Negate()))
		color = color.Add(rt.traceRecursive(refracted, rt.shading.MinT, rt.shading.MaxT, depth-1))
	}

	return color
}

// SamplePixel averages SamplesPerPixel camera rays through pixel (i, j),
// where j=0 is the top row. A single sample goes through the pixel center;
// more samples are jittered within the pixel footprint.
func (rt *Raytracer) SamplePixel(i, j int, random *rand.Rand) core.Vec3 {
	samples := max(1, rt.config.SamplesPerPixel)
	colorAccum := core.Vec3{}

	for sample := 0; sample < samples; sample++ {
		var offsetX, offsetY float32 = 0.5, 0.5
		if samples > 1 {
			offsetX, offsetY = random.Float32(), random.Float32()
		}

		s := (float32(i) + offsetX) / float32(rt.width)
		t := (float32(rt.height-1-j) + offsetY) / float32(rt.height)

		rt.counters.primaryRays++
		ray := rt.camera.GetRay(s, t, random)
		colorAccum = colorAccum.Add(rt.TraceRay(ray, rt.config.MaxDepth))
	}

	return colorAccum.Multiply(1.0 / float32(samples))
}

// RenderBounds renders the pixels inside bounds into a private row-major
// buffer of bounds.Dx()*bounds.Dy() pixels
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, random *rand.Rand) ([]core.RGB, RenderStats) {
	rt.counters = rayCounters{}
	pixels := make([]core.RGB, 0, bounds.Dx()*bounds.Dy())

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			pixels = append(pixels, rt.SamplePixel(i, j, random).ToRGB())
		}
	}

	pixelCount := bounds.Dx() * bounds.Dy()
	stats := RenderStats{
		TotalPixels:   pixelCount,
		TotalSamples:  pixelCount * max(1, rt.config.SamplesPerPixel),
		PrimaryRays:   rt.counters.primaryRays,
		SecondaryRays: rt.counters.secondaryRays,
		ShadowRays:    rt.counters.shadowRays,
		Bands:         1,
	}
	stats.finalize()
	return pixels, stats
}
