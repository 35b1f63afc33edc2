// Package publish writes finished frames to disk and object storage.
package publish

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
)

// EncodePNG encodes img as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG writes img to path, creating parent directories as needed
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img so its longest edge is size pixels, keeping the
// aspect ratio. Images already within size are returned unchanged.
func Thumbnail(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	if size <= 0 || (bounds.Dx() <= size && bounds.Dy() <= size) {
		return img
	}

	// A zero dimension tells resize to preserve the aspect ratio
	if bounds.Dx() >= bounds.Dy() {
		return resize.Resize(uint(size), 0, img, resize.Bilinear)
	}
	return resize.Resize(0, uint(size), img, resize.Bilinear)
}

// ThumbnailPath derives the thumbnail file name for an output path:
// render.png becomes render_thumb.png
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "_thumb" + ext
}
