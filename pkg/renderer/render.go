package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

var (
	ErrInvalidDimensions = errors.New("width and height must be positive")
	ErrInvalidSamples    = errors.New("samples per pixel must be positive")
	ErrInvalidDepth      = errors.New("max depth must not be negative")
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

// FrameConfig controls how a frame is split across workers
type FrameConfig struct {
	BandHeight int           // Rows per band
	NumWorkers int           // Number of parallel workers (0 = use CPU count)
	Shading    ShadingConfig // Ray intervals
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		BandHeight: 8,
		NumWorkers: 0,
		Shading:    DefaultShadingConfig(),
	}
}

// FrameRenderer renders one complete frame of a scene in parallel. The scene
// and camera must not be mutated while Render runs.
type FrameRenderer struct {
	scene         Scene
	camera        *Camera
	width, height int
	sampling      SamplingConfig
	config        FrameConfig
	logger        core.Logger
}

// NewFrameRenderer creates a frame renderer. A nil logger discards output.
func NewFrameRenderer(scene Scene, camera *Camera, width, height int, sampling SamplingConfig, config FrameConfig, logger core.Logger) *FrameRenderer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &FrameRenderer{
		scene:    scene,
		camera:   camera,
		width:    width,
		height:   height,
		sampling: sampling,
		config:   config,
		logger:   logger,
	}
}

// Validate checks the frame parameters
func (fr *FrameRenderer) Validate() error {
	if fr.width <= 0 || fr.height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, fr.width, fr.height)
	}
	if fr.sampling.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSamples, fr.sampling.SamplesPerPixel)
	}
	if fr.sampling.MaxDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, fr.sampling.MaxDepth)
	}
	if fr.scene == nil || fr.camera == nil {
		return errors.New("scene and camera are required")
	}
	return nil
}

// Render computes every pixel and returns the assembled frame. Bands are
// rendered into private buffers and copied into the frame in row-major order.
func (fr *FrameRenderer) Render() (*PixelBuffer, RenderStats, error) {
	if err := fr.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	bands := NewBandGrid(fr.width, fr.height, fr.config.BandHeight)
	pool := NewWorkerPool(fr.scene, fr.camera, fr.width, fr.height,
		fr.sampling, fr.config.Shading, len(bands), fr.config.NumWorkers)

	fr.logger.Printf("Rendering %dx%d, %d samples/pixel, depth %d (%d bands, %d workers)...\n",
		fr.width, fr.height, fr.sampling.SamplesPerPixel, fr.sampling.MaxDepth, len(bands), pool.GetNumWorkers())

	pool.Start()
	for taskID, band := range bands {
		pool.SubmitTask(BandTask{Band: band, TaskID: taskID})
	}

	frame := NewPixelBuffer(fr.width, fr.height)
	stats := RenderStats{Workers: pool.GetNumWorkers()}

	var renderErr error
	for i := 0; i < len(bands); i++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = errors.New("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			renderErr = result.Error
			break
		}

		band := bands[result.TaskID]
		offset := band.Bounds.Min.Y * fr.width
		copy(frame.Pixels[offset:offset+len(result.Pixels)], result.Pixels)
		stats.Merge(result.Stats)
	}
	pool.Stop()

	if renderErr != nil {
		return nil, RenderStats{}, renderErr
	}

	stats.Duration = time.Since(startTime)
	fr.logger.Printf("Render completed in %v (%d primary, %d secondary, %d shadow rays)\n",
		stats.Duration, stats.PrimaryRays, stats.SecondaryRays, stats.ShadowRays)

	return frame, stats, nil
}

// Render renders scene through camera into a width x height frame using
// default band and worker settings
func Render(scene Scene, camera *Camera, width, height, samplesPerPixel, maxDepth int) (*PixelBuffer, error) {
	sampling := SamplingConfig{
		SamplesPerPixel: samplesPerPixel,
		MaxDepth:        maxDepth,
	}
	frame, _, err := NewFrameRenderer(scene, camera, width, height, sampling, DefaultFrameConfig(), nil).Render()
	return frame, err
}
