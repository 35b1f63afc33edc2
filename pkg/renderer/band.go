package renderer

import (
	"image"
	"math/rand"
)

// Band is a horizontal strip of full-width rows rendered as one task
type Band struct {
	ID     int             // Unique band identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Random *rand.Rand      // Band-specific random generator for deterministic results
}

// NewBand creates a new band with the specified bounds
func NewBand(id int, bounds image.Rectangle) *Band {
	random := rand.New(rand.NewSource(int64(id + 42))) // +42 to avoid seed 0

	return &Band{
		ID:     id,
		Bounds: bounds,
		Random: random,
	}
}

// NewBandGrid splits the image into bands of bandHeight rows, top to bottom
func NewBandGrid(width, height, bandHeight int) []*Band {
	if bandHeight <= 0 {
		bandHeight = 1
	}

	var bands []*Band
	bandID := 0
	for y0 := 0; y0 < height; y0 += bandHeight {
		y1 := min(y0+bandHeight, height) // Don't exceed image bounds
		bands = append(bands, NewBand(bandID, image.Rect(0, y0, width, y1)))
		bandID++
	}

	return bands
}
