package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Ambient adds a flat term to every shaded point, independent of position
type Ambient struct {
	Intensity float32
	Color     core.Vec3
}

// NewAmbient creates an ambient light
func NewAmbient(intensity float32, color core.Vec3) *Ambient {
	return &Ambient{Intensity: intensity, Color: color}
}

func (a *Ambient) light() {}

func (a *Ambient) Type() LightType { return LightTypeAmbient }

func (a *Ambient) GetIntensity() float32 { return a.Intensity }

func (a *Ambient) GetColor() core.Vec3 { return a.Color }

// Validate rejects negative intensity or color channels
func (a *Ambient) Validate() error {
	return validateEmission(a.Intensity, a.Color)
}

func validateEmission(intensity float32, color core.Vec3) error {
	if intensity < 0 {
		return fmt.Errorf("intensity must be non-negative, got %g", intensity)
	}
	if color.X < 0 || color.Y < 0 || color.Z < 0 {
		return fmt.Errorf("color channels must be non-negative, got %v", color)
	}
	return nil
}
