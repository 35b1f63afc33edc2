package core

// RGB is an 8-bit pixel as handed to the display layer
type RGB struct {
	R, G, B uint8
}

// ToRGB converts a color in [0,255] space to an 8-bit pixel. Channels are
// clamped to [0,255] first and then truncated, so overlit highlights
// saturate to white instead of wrapping.
func (v Vec3) ToRGB() RGB {
	c := v.Clamp(0, 255)
	return RGB{R: uint8(c.X), G: uint8(c.Y), B: uint8(c.Z)}
}

// Vec3FromRGB lifts an 8-bit pixel back into float color space
func Vec3FromRGB(c RGB) Vec3 {
	return Vec3{X: float32(c.R), Y: float32(c.G), Z: float32(c.B)}
}
