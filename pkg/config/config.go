// Package config loads runtime settings for the raytracer binaries from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the CLI and the web server. Command-line
// flags override these values.
type Config struct {
	OutputDir     string
	Width         int // 0 = scene's recommended size
	Height        int // 0 = scene's recommended size
	Samples       int // 0 = scene's sampling config
	Depth         int // -1 = scene's sampling config
	Workers       int // 0 = one per CPU
	Port          int
	ThumbnailSize int // Longest edge of the thumbnail, 0 disables it

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		OutputDir:     "output",
		Depth:         -1,
		Port:          8080,
		ThumbnailSize: 0,
		S3Region:      "us-east-1",
		S3Prefix:      "renders",
	}
}

// Load reads envFile into the process environment when it exists, then builds
// a Config from RAYTRACER_* variables over the defaults. An empty envFile
// means ".env". Variables already set in the environment take precedence over
// the file.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	cfg.OutputDir = getEnv("RAYTRACER_OUTPUT_DIR", cfg.OutputDir)
	cfg.S3Endpoint = getEnv("RAYTRACER_S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3Region = getEnv("RAYTRACER_S3_REGION", cfg.S3Region)
	cfg.S3Bucket = getEnv("RAYTRACER_S3_BUCKET", cfg.S3Bucket)
	cfg.S3AccessKey = getEnv("RAYTRACER_S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = getEnv("RAYTRACER_S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3Prefix = getEnv("RAYTRACER_S3_PREFIX", cfg.S3Prefix)

	ints := []struct {
		key   string
		value *int
	}{
		{"RAYTRACER_WIDTH", &cfg.Width},
		{"RAYTRACER_HEIGHT", &cfg.Height},
		{"RAYTRACER_SAMPLES", &cfg.Samples},
		{"RAYTRACER_DEPTH", &cfg.Depth},
		{"RAYTRACER_WORKERS", &cfg.Workers},
		{"RAYTRACER_PORT", &cfg.Port},
		{"RAYTRACER_THUMBNAIL_SIZE", &cfg.ThumbnailSize},
	}
	var errs []error
	for _, v := range ints {
		if err := getEnvInt(v.key, v.value); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges
func (c Config) Validate() error {
	var errs []error
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("image size must not be negative, got %dx%d", c.Width, c.Height))
	}
	if c.Samples < 0 {
		errs = append(errs, fmt.Errorf("samples must not be negative, got %d", c.Samples))
	}
	if c.Depth < -1 {
		errs = append(errs, fmt.Errorf("depth must be -1 (scene default) or more, got %d", c.Depth))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be in 1..65535, got %d", c.Port))
	}
	if c.ThumbnailSize < 0 {
		errs = append(errs, fmt.Errorf("thumbnail size must not be negative, got %d", c.ThumbnailSize))
	}
	if c.S3Bucket != "" && (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		errs = append(errs, errors.New("S3 access key and secret key must be set together"))
	}
	return errors.Join(errs...)
}

// S3Enabled reports whether renders can be uploaded
func (c Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// getEnv returns the environment value for key, or fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, dst *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, value)
	}
	*dst = parsed
	return nil
}
