package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypeAmbient    LightType = "ambient"
	LightTypePositional LightType = "positional"
)

// Light is the closed set of light variants. Shading switches over the
// concrete types; the unexported method prevents outside implementations.
type Light interface {
	Type() LightType
	GetIntensity() float32
	GetColor() core.Vec3
	Validate() error
	light()
}
