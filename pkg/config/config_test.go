package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allKeys = []string{
	"RAYTRACER_OUTPUT_DIR", "RAYTRACER_WIDTH", "RAYTRACER_HEIGHT", "RAYTRACER_SAMPLES",
	"RAYTRACER_DEPTH", "RAYTRACER_WORKERS", "RAYTRACER_PORT", "RAYTRACER_THUMBNAIL_SIZE",
	"RAYTRACER_S3_ENDPOINT", "RAYTRACER_S3_REGION", "RAYTRACER_S3_BUCKET",
	"RAYTRACER_S3_ACCESS_KEY", "RAYTRACER_S3_SECRET_KEY", "RAYTRACER_S3_PREFIX",
}

// clearEnv unsets every RAYTRACER_* variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
	if cfg.S3Enabled() {
		t.Error("Expected S3 disabled by default")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		"RAYTRACER_WIDTH=640",
		"RAYTRACER_HEIGHT=480",
		"RAYTRACER_SAMPLES=16",
		"RAYTRACER_S3_BUCKET=renders",
		"RAYTRACER_S3_ACCESS_KEY=key",
		"RAYTRACER_S3_SECRET_KEY=secret",
		"RAYTRACER_S3_ENDPOINT=http://localhost:9000",
	}, "\n")
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	// The process environment wins over the file
	os.Setenv("RAYTRACER_SAMPLES", "2")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Width = 640
	want.Height = 480
	want.Samples = 2
	want.S3Bucket = "renders"
	want.S3AccessKey = "key"
	want.S3SecretKey = "secret"
	want.S3Endpoint = "http://localhost:9000"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
	if !cfg.S3Enabled() {
		t.Error("Expected S3 enabled")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"not a number", "RAYTRACER_WIDTH", "wide", `invalid RAYTRACER_WIDTH: "wide"`},
		{"negative samples", "RAYTRACER_SAMPLES", "-4", "samples must not be negative"},
		{"negative depth", "RAYTRACER_DEPTH", "-2", "depth must be -1 (scene default) or more"},
		{"port range", "RAYTRACER_PORT", "70000", "port must be in 1..65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			os.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_S3Credentials(t *testing.T) {
	cfg := Default()
	cfg.S3Bucket = "renders"
	cfg.S3AccessKey = "key"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for access key without secret")
	}
	if cfg.S3Enabled() {
		t.Error("Expected S3 disabled with partial credentials")
	}
}
