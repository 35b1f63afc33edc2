package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PixelBuffer is a finished frame: Width*Height pixels in row-major order,
// row 0 at the top
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []core.RGB
}

// NewPixelBuffer allocates a black frame
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.RGB, width*height),
	}
}

// At returns the pixel at column x, row y
func (pb *PixelBuffer) At(x, y int) core.RGB {
	return pb.Pixels[y*pb.Width+x]
}

// Set writes the pixel at column x, row y
func (pb *PixelBuffer) Set(x, y int, c core.RGB) {
	pb.Pixels[y*pb.Width+x] = c
}

// Image converts the buffer into an opaque RGBA image
func (pb *PixelBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pb.Width, pb.Height))
	for y := 0; y < pb.Height; y++ {
		for x := 0; x < pb.Width; x++ {
			p := pb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}
