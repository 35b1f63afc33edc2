package renderer

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

func threeSphereScene() *MockScene {
	return &MockScene{
		shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, -1, 3), 1, core.NewVec3(255, 0, 0),
				geometry.Material{Specular: 500, Reflective: 0.2, Refractive: 1}),
			geometry.NewSphere(core.NewVec3(2, 0, 4), 1, core.NewVec3(0, 0, 255),
				geometry.Material{Specular: 500, Reflective: 0.3, Refractive: 1.5}),
			geometry.NewSphere(core.NewVec3(0, -5001, 0), 5000, core.NewVec3(255, 255, 0),
				geometry.Material{Specular: 1000, Reflective: 0.5, Refractive: 1}),
		},
		lights: []lights.Light{
			lights.NewAmbient(0.2, white),
			lights.NewPositional(core.NewVec3(2, 1, 0), 0.6, white),
		},
		background: core.NewVec3(243, 183, 127),
	}
}

func testCamera(width, height int, aperture float32) *Camera {
	return NewCameraFromVectors(
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0),
		53.13, float32(width)/float32(height), aperture, 0)
}

func TestRender_EmptySceneIsBackground(t *testing.T) {
	background := core.NewVec3(10, 20, 30)
	scene := &MockScene{background: background}

	frame, err := Render(scene, testCamera(8, 6, 0), 8, 6, 1, 2)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(frame.Pixels) != 8*6 {
		t.Fatalf("Expected %d pixels, got %d", 8*6, len(frame.Pixels))
	}

	want := background.ToRGB()
	for i, p := range frame.Pixels {
		if p != want {
			t.Fatalf("Pixel %d = %v, want %v", i, p, want)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		aperture float32
	}{
		{"single sample pinhole", 1, 0},
		{"jittered samples", 4, 0},
		{"jittered samples with lens", 4, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := threeSphereScene()
			camera := testCamera(32, 24, tt.aperture)

			first, err := Render(scene, camera, 32, 24, tt.samples, 2)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			second, err := Render(scene, camera, 32, 24, tt.samples, 2)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("Repeated renders differ (-first +second):\n%s", diff)
			}
		})
	}
}

func TestFrameRenderer_WorkerCountDoesNotChangeImage(t *testing.T) {
	scene := threeSphereScene()
	camera := testCamera(24, 20, 0)
	sampling := SamplingConfig{SamplesPerPixel: 2, MaxDepth: 3}

	render := func(workers, bandHeight int) *PixelBuffer {
		config := DefaultFrameConfig()
		config.NumWorkers = workers
		config.BandHeight = bandHeight
		frame, _, err := NewFrameRenderer(scene, camera, 24, 20, sampling, config, nil).Render()
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		return frame
	}

	single := render(1, 8)
	parallel := render(4, 8)
	if diff := cmp.Diff(single, parallel); diff != "" {
		t.Errorf("Single and parallel renders differ (-single +parallel):\n%s", diff)
	}
}

func TestFrameRenderer_SingleSampleMatchesTracer(t *testing.T) {
	scene := threeSphereScene()
	camera := testCamera(16, 12, 0)
	sampling := SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2}

	frame, _, err := NewFrameRenderer(scene, camera, 16, 12, sampling, DefaultFrameConfig(), nil).Render()
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	rt := NewRaytracer(scene, camera, 16, 12)
	rt.SetSamplingConfig(sampling)
	for j := 0; j < 12; j++ {
		for i := 0; i < 16; i++ {
			want := rt.SamplePixel(i, j, nil).ToRGB()
			if got := frame.At(i, j); got != want {
				t.Fatalf("Pixel (%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestFrameRenderer_Stats(t *testing.T) {
	scene := threeSphereScene()
	config := DefaultFrameConfig()
	config.BandHeight = 5
	config.NumWorkers = 2
	logger := &recordingLogger{}

	_, stats, err := NewFrameRenderer(scene, testCamera(10, 12, 0), 10, 12,
		SamplingConfig{SamplesPerPixel: 3, MaxDepth: 1}, config, logger).Render()
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if stats.TotalPixels != 120 || stats.TotalSamples != 360 {
		t.Errorf("Expected 120 pixels and 360 samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
	}
	if stats.AverageSamples != 3 {
		t.Errorf("Expected 3 average samples, got %g", stats.AverageSamples)
	}
	if stats.PrimaryRays != 360 {
		t.Errorf("Expected 360 primary rays, got %d", stats.PrimaryRays)
	}
	if stats.Bands != 3 || stats.Workers != 2 {
		t.Errorf("Expected 3 bands and 2 workers, got %d and %d", stats.Bands, stats.Workers)
	}
	if stats.ShadowRays == 0 {
		t.Error("Expected shadow rays toward the positional light")
	}
	if len(logger.lines) != 2 || !strings.HasPrefix(logger.lines[0], "Rendering") {
		t.Errorf("Expected start and completion log lines, got %q", logger.lines)
	}
}

func TestFrameRenderer_Validate(t *testing.T) {
	scene := threeSphereScene()
	camera := testCamera(4, 4, 0)

	tests := []struct {
		name    string
		width   int
		height  int
		samples int
		depth   int
		wantErr error
	}{
		{"zero width", 0, 4, 1, 1, ErrInvalidDimensions},
		{"negative height", 4, -1, 1, 1, ErrInvalidDimensions},
		{"zero samples", 4, 4, 0, 1, ErrInvalidSamples},
		{"negative depth", 4, 4, 1, -1, ErrInvalidDepth},
		{"depth zero is valid", 4, 4, 1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Render(scene, camera, tt.width, tt.height, tt.samples, tt.depth)
			if tt.wantErr == nil {
				if err != nil || frame == nil {
					t.Errorf("Expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if frame != nil {
				t.Error("Expected nil frame on error")
			}
		})
	}
}

func TestNewBandGrid(t *testing.T) {
	bands := NewBandGrid(10, 25, 8)

	want := []image.Rectangle{
		image.Rect(0, 0, 10, 8),
		image.Rect(0, 8, 10, 16),
		image.Rect(0, 16, 10, 24),
		image.Rect(0, 24, 10, 25),
	}
	if len(bands) != len(want) {
		t.Fatalf("Expected %d bands, got %d", len(want), len(bands))
	}
	for i, band := range bands {
		if band.ID != i || band.Bounds != want[i] {
			t.Errorf("Band %d = id %d %v, want %v", i, band.ID, band.Bounds, want[i])
		}
	}
}

func TestPixelBuffer_Image(t *testing.T) {
	pb := NewPixelBuffer(2, 2)
	pb.Set(1, 0, core.RGB{R: 255, G: 128, B: 1})

	img := pb.Image()
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	c := img.RGBAAt(1, 0)
	if c.R != 255 || c.G != 128 || c.B != 1 || c.A != 255 {
		t.Errorf("Unexpected pixel %v", c)
	}
	if black := img.RGBAAt(0, 1); black.R != 0 || black.A != 255 {
		t.Errorf("Expected opaque black, got %v", black)
	}
}
