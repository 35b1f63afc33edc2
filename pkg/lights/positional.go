package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Positional is a point light. Its contribution has no distance falloff and
// is gated only by shadow visibility.
type Positional struct {
	Center    core.Vec3
	Intensity float32
	Color     core.Vec3
}

// NewPositional creates a point light at center
func NewPositional(center core.Vec3, intensity float32, color core.Vec3) *Positional {
	return &Positional{Center: center, Intensity: intensity, Color: color}
}

func (p *Positional) light() {}

func (p *Positional) Type() LightType { return LightTypePositional }

func (p *Positional) GetIntensity() float32 { return p.Intensity }

func (p *Positional) GetColor() core.Vec3 { return p.Color }

// Validate rejects negative intensity or color channels
func (p *Positional) Validate() error {
	return validateEmission(p.Intensity, p.Color)
}
