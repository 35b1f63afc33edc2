package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// options holds the parsed command line. Zero sizes and sample counts and a
// negative depth defer to the environment, then to the scene.
type options struct {
	sceneType    string
	width        int
	height       int
	samples      int
	depth        int
	workers      int
	target       int
	noRefraction bool
	thumbnail    int
	upload       bool
	envFile      string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.sceneType, "scene", "default", "Scene id ('default', 'original', 'sphere-grid', 'empty'), scene file name, or path to a .json scene")
	flag.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&opts.depth, "depth", -1, "Maximum reflection depth (-1 = scene default)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&opts.target, "target", -1, "Aim the camera at the object with this index (-1 = scene look-at)")
	refraction := flag.Bool("refraction", true, "Trace the experimental refraction ray for refractive surfaces")
	flag.IntVar(&opts.thumbnail, "thumbnail", 0, "Also save a thumbnail with this longest edge (0 = off)")
	flag.BoolVar(&opts.upload, "upload", false, "Upload the render to the configured S3 bucket")
	flag.StringVar(&opts.envFile, "env", ".env", "Environment file with RAYTRACER_* settings")
	help := flag.Bool("help", false, "Show help information")
	list := flag.Bool("list", false, "List available scenes")
	flag.Parse()
	opts.noRefraction = !*refraction

	if *help {
		showHelp()
		return
	}
	if *list {
		if err := listScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	fmt.Println("  default     - Three reflective spheres on a yellow ground sphere")
	fmt.Println("  original    - Palette spheres with a shallow depth of field")
	fmt.Println("  sphere-grid - Grid sweeping specular and reflective coefficients")
	fmt.Println("  empty       - No objects, background only")
	fmt.Println("  <name>      - scenes/<name>.json")
	fmt.Println()
	fmt.Println("Settings can also come from RAYTRACER_* environment variables or the -env file.")
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

func listScenes() error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-20s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

// run renders one frame and writes it out
func run(opts options, logger core.Logger) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	applyConfig(&opts, cfg)

	selectedScene, err := createScene(opts.sceneType)
	if err != nil {
		return err
	}
	logger.Printf("Using %s scene (%d objects, %d lights)...\n",
		selectedScene.Name, selectedScene.GetPrimitiveCount(), len(selectedScene.GetLights()))

	width, height, sampling := selectedScene.Resolve(opts.width, opts.height, opts.samples, opts.depth)
	sampling.DisableRefraction = opts.noRefraction

	camera := selectedScene.Camera(width, height)
	if opts.target >= 0 {
		var found bool
		camera, found = selectedScene.AimCamera(opts.target, width, height)
		if !found {
			logger.Printf("Object %d not found (scene has %d); keeping the scene camera\n",
				opts.target, selectedScene.GetPrimitiveCount())
		}
	}

	frameConfig := renderer.DefaultFrameConfig()
	frameConfig.NumWorkers = opts.workers

	frame, stats, err := renderer.NewFrameRenderer(selectedScene, camera, width, height, sampling, frameConfig, logger).Render()
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	img := frame.Image()
	logger.Printf("Average luminance: %.3f over %d pixels\n", renderer.CalculateAverageLuminance(img), stats.TotalPixels)

	outputDir := filepath.Join(cfg.OutputDir, outputName(opts.sceneType))
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	if err := publish.SavePNG(filename, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)

	if opts.thumbnail > 0 {
		thumbPath := publish.ThumbnailPath(filename)
		if err := publish.SavePNG(thumbPath, publish.Thumbnail(img, opts.thumbnail)); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbPath)
	}

	if opts.upload {
		uploader, err := publish.NewS3Uploader(cfg, logger)
		if err != nil {
			return err
		}
		data, err := publish.EncodePNG(img)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(filepath.Join(outputName(opts.sceneType), filepath.Base(filename)))
		if _, err := uploader.Upload(context.Background(), key, data); err != nil {
			return err
		}
	}

	return nil
}

// applyConfig fills options left at their defaults from the environment
func applyConfig(opts *options, cfg config.Config) {
	if opts.width <= 0 {
		opts.width = cfg.Width
	}
	if opts.height <= 0 {
		opts.height = cfg.Height
	}
	if opts.samples <= 0 {
		opts.samples = cfg.Samples
	}
	if opts.depth < 0 {
		opts.depth = cfg.Depth
	}
	if opts.workers <= 0 {
		opts.workers = cfg.Workers
	}
	if opts.thumbnail <= 0 {
		opts.thumbnail = cfg.ThumbnailSize
	}
}

// createScene resolves a scene id, a bare scene file name or a .json path
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}

	s, err := scene.Create(sceneType)
	if err == nil {
		return s, nil
	}

	// Bare names fall back to scenes/<name>.json
	if dir := scene.ScenesDir(); dir != "" && !strings.ContainsAny(sceneType, `/\:`) {
		if _, statErr := os.Stat(filepath.Join(dir, sceneType+".json")); statErr == nil {
			return scene.Create("json:" + sceneType)
		}
	}
	return nil, err
}

// outputName derives the output sub-directory for a scene argument
func outputName(sceneType string) string {
	name := strings.TrimPrefix(sceneType, "json:")
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
