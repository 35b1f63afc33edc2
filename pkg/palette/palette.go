// Package palette names the colors used to author scenes.
package palette

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Background is the peach sky shown where rays escape the scene
var Background = core.NewVec3(243, 183, 127)

// Palette colors used by the built-in scenes, in [0,255] space
var (
	ParadisePink        = core.NewVec3(239, 71, 111)
	OrangeYellowCrayola = core.NewVec3(255, 209, 102)
	CaribbeanGreen      = core.NewVec3(6, 214, 160)
	Aquamarine          = core.NewVec3(76, 224, 179)
	Cyclamen            = core.NewVec3(232, 106, 14)
	MiddleYellow        = core.NewVec3(247, 231, 51)
	Pink                = core.NewVec3(247, 37, 133)
	Blue                = core.NewVec3(0, 150, 199)
	Purple              = core.NewVec3(114, 9, 183)
	DeepPurple          = core.NewVec3(72, 12, 168)
	Space               = core.NewVec3(63, 55, 201)
	DeepMagenta         = core.NewVec3(181, 23, 158)
	Black               = core.NewVec3(0, 0, 32)
)

var paletteNames = map[string]core.Vec3{
	"paradise-pink":         ParadisePink,
	"orange-yellow-crayola": OrangeYellowCrayola,
	"caribbean-green":       CaribbeanGreen,
	"aquamarine-crayola":    Aquamarine,
	"cyclamen":              Cyclamen,
	"middle-yellow":         MiddleYellow,
	"pink-crayola":          Pink,
	"blue-ncs":              Blue,
	"purple-x11":            Purple,
	"deep-purple":           DeepPurple,
	"space":                 Space,
	"deep-magenta":          DeepMagenta,
	"night":                 Black,
}

// Named resolves a color name. Palette names are tried first, then the
// SVG 1.1 color keywords ("coral", "steelblue", ...).
func Named(name string) (core.Vec3, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := paletteNames[key]; ok {
		return c, nil
	}
	if c, ok := colornames.Map[strings.ReplaceAll(key, "-", "")]; ok {
		return core.Vec3FromRGB(core.RGB{R: c.R, G: c.G, B: c.B}), nil
	}
	return core.Vec3{}, fmt.Errorf("unknown color name %q", name)
}
