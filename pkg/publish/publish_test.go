package publish

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-whitted-raytracer/pkg/config"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodePNG(t *testing.T) {
	img := solidImage(4, 3, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}
	r, g, b, _ := decoded.At(2, 1).RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
		t.Errorf("Unexpected pixel (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestSavePNG_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "default", "render.png")
	if err := SavePNG(path, solidImage(2, 2, color.RGBA{A: 255})); err != nil {
		t.Fatalf("SavePNG() error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty file at %s: %v", path, err)
	}
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name         string
		w, h, size   int
		wantW, wantH int
	}{
		{"landscape", 800, 600, 200, 200, 150},
		{"portrait", 300, 600, 100, 50, 100},
		{"already small", 100, 80, 200, 100, 80},
		{"disabled", 800, 600, 0, 800, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(solidImage(tt.w, tt.h, color.RGBA{G: 255, A: 255}), tt.size)
			if thumb.Bounds().Dx() != tt.wantW || thumb.Bounds().Dy() != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, thumb.Bounds().Dx(), thumb.Bounds().Dy())
			}
		})
	}
}

func TestThumbnailPath(t *testing.T) {
	got := ThumbnailPath(filepath.Join("output", "default", "render_20240101_120000.png"))
	want := filepath.Join("output", "default", "render_20240101_120000_thumb.png")
	if got != want {
		t.Errorf("ThumbnailPath() = %q, want %q", got, want)
	}
}

// mockPutter records the last upload
type mockPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockPutter) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected upload deadline")
	}
	m.input = input
	m.body, _ = io.ReadAll(input.Body)
	return &s3.PutObjectOutput{}, m.err
}

type captureLogger struct{ count int }

func (l *captureLogger) Printf(string, ...interface{}) { l.count++ }

func TestS3Uploader_Upload(t *testing.T) {
	putter := &mockPutter{}
	logger := &captureLogger{}
	uploader := NewS3UploaderWithClient(putter, "bucket", "renders", logger)

	key, err := uploader.Upload(context.Background(), "default/render.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if key != "renders/default/render.png" {
		t.Errorf("Expected prefixed key, got %q", key)
	}
	if aws.StringValue(putter.input.Bucket) != "bucket" || aws.StringValue(putter.input.Key) != key {
		t.Errorf("Unexpected put input: %v", putter.input)
	}
	if aws.StringValue(putter.input.ContentType) != "image/png" || aws.Int64Value(putter.input.ContentLength) != 9 {
		t.Errorf("Unexpected content headers: %v", putter.input)
	}
	if string(putter.body) != "png-bytes" {
		t.Errorf("Unexpected body %q", putter.body)
	}
	if logger.count != 1 {
		t.Errorf("Expected one log line, got %d", logger.count)
	}
}

func TestS3Uploader_UploadError(t *testing.T) {
	cause := errors.New("access denied")
	uploader := NewS3UploaderWithClient(&mockPutter{err: cause}, "bucket", "", nil)

	_, err := uploader.Upload(context.Background(), "render.png", []byte("x"))
	if !errors.Is(err, cause) {
		t.Errorf("Expected wrapped cause, got %v", err)
	}
}

func TestNewS3Uploader_NotConfigured(t *testing.T) {
	_, err := NewS3Uploader(config.Default(), nil)
	if !errors.Is(err, ErrS3NotConfigured) {
		t.Errorf("Expected ErrS3NotConfigured, got %v", err)
	}
}

func TestNewS3Uploader_Configured(t *testing.T) {
	cfg := config.Default()
	cfg.S3Bucket = "bucket"
	cfg.S3AccessKey = "key"
	cfg.S3SecretKey = "secret"
	cfg.S3Endpoint = "http://localhost:9000"

	uploader, err := NewS3Uploader(cfg, nil)
	if err != nil {
		t.Fatalf("NewS3Uploader() error: %v", err)
	}
	if uploader.Key("a.png") != "renders/a.png" {
		t.Errorf("Unexpected key %q", uploader.Key("a.png"))
	}
}
