package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/palette"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrInvalidSceneFile is returned for documents that are not a JSON object
var ErrInvalidSceneFile = errors.New("invalid scene file")

// SceneDescription is the parsed content of a JSON scene file. Optional
// sections are nil or zero when absent so callers can fall back to defaults.
type SceneDescription struct {
	Name        string
	Description string
	Group       string

	Background *core.Vec3
	Camera     *renderer.CameraConfig
	Width      int
	Height     int
	Samples    int
	Depth      int

	Spheres []*geometry.Sphere // In file order
	Lights  []lights.Light     // In file order
}

// LoadSceneJSON reads and parses a scene file from disk
func LoadSceneJSON(filename string) (*SceneDescription, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	desc, err := ParseSceneJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return desc, nil
}

// ParseSceneJSON parses a scene document
func ParseSceneJSON(data []byte) (*SceneDescription, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidSceneFile)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidSceneFile)
	}

	desc := &SceneDescription{
		Name:        doc.Get("name").String(),
		Description: doc.Get("description").String(),
		Group:       doc.Get("group").String(),
		Width:       int(doc.Get("width").Int()),
		Height:      int(doc.Get("height").Int()),
		Samples:     int(doc.Get("samples").Int()),
		Depth:       int(doc.Get("depth").Int()),
	}

	if bg := doc.Get("background"); bg.Exists() {
		color, err := parseColor(bg)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		desc.Background = &color
	}

	if cam := doc.Get("camera"); cam.Exists() {
		config, err := parseCamera(cam)
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		desc.Camera = &config
	}

	spheres := doc.Get("spheres")
	if spheres.Exists() && !spheres.IsArray() {
		return nil, fmt.Errorf("%w: spheres must be an array", ErrInvalidSceneFile)
	}
	for i, s := range spheres.Array() {
		sphere, err := parseSphere(s)
		if err != nil {
			return nil, fmt.Errorf("spheres[%d]: %w", i, err)
		}
		desc.Spheres = append(desc.Spheres, sphere)
	}

	lightList := doc.Get("lights")
	if lightList.Exists() && !lightList.IsArray() {
		return nil, fmt.Errorf("%w: lights must be an array", ErrInvalidSceneFile)
	}
	for i, l := range lightList.Array() {
		light, err := parseLight(l)
		if err != nil {
			return nil, fmt.Errorf("lights[%d]: %w", i, err)
		}
		desc.Lights = append(desc.Lights, light)
	}

	return desc, nil
}

func parseCamera(r gjson.Result) (renderer.CameraConfig, error) {
	config := renderer.CameraConfig{
		Up:   core.NewVec3(0, 1, 0),
		VFov: 90,
	}

	var err error
	if config.Center, err = requireVec3(r, "from"); err != nil {
		return config, err
	}
	if config.LookAt, err = requireVec3(r, "at"); err != nil {
		return config, err
	}
	if up := r.Get("up"); up.Exists() {
		if config.Up, err = parseVec3(up); err != nil {
			return config, fmt.Errorf("up: %w", err)
		}
	}
	if vfov := r.Get("vfov"); vfov.Exists() {
		config.VFov = float32(vfov.Float())
		if config.VFov <= 0 || config.VFov >= 180 {
			return config, fmt.Errorf("vfov must be in (0,180), got %g", config.VFov)
		}
	}
	config.Aperture = float32(r.Get("aperture").Float())
	config.FocusDistance = float32(r.Get("focus").Float())
	if config.Aperture < 0 {
		return config, fmt.Errorf("aperture must be non-negative, got %g", config.Aperture)
	}
	return config, nil
}

func parseSphere(r gjson.Result) (*geometry.Sphere, error) {
	center, err := requireVec3(r, "center")
	if err != nil {
		return nil, err
	}

	radius := r.Get("radius")
	if radius.Type != gjson.Number {
		return nil, errors.New("radius must be a number")
	}

	color := core.NewVec3(255, 255, 255)
	if c := r.Get("color"); c.Exists() {
		if color, err = parseColor(c); err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
	} else if c := r.Get("colorName"); c.Exists() {
		if color, err = palette.Named(c.String()); err != nil {
			return nil, fmt.Errorf("colorName: %w", err)
		}
	}

	material := geometry.Matte
	material.Specular = float32(r.Get("specular").Float())
	material.Reflective = float32(r.Get("reflective").Float())
	if refr := r.Get("refractive"); refr.Exists() {
		material.Refractive = float32(refr.Float())
	}

	sphere := geometry.NewSphere(center, float32(radius.Float()), color, material)
	if err := sphere.Validate(); err != nil {
		return nil, err
	}
	return sphere, nil
}

func parseLight(r gjson.Result) (lights.Light, error) {
	intensity := r.Get("intensity")
	if intensity.Type != gjson.Number {
		return nil, errors.New("intensity must be a number")
	}

	color := core.NewVec3(255, 255, 255)
	if c := r.Get("color"); c.Exists() {
		var err error
		if color, err = parseColor(c); err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
	}

	var light lights.Light
	switch lights.LightType(r.Get("type").String()) {
	case lights.LightTypeAmbient:
		light = lights.NewAmbient(float32(intensity.Float()), color)
	case lights.LightTypePositional:
		center, err := requireVec3(r, "center")
		if err != nil {
			return nil, err
		}
		light = lights.NewPositional(center, float32(intensity.Float()), color)
	default:
		return nil, fmt.Errorf("unknown light type %q", r.Get("type").String())
	}

	if err := light.Validate(); err != nil {
		return nil, err
	}
	return light, nil
}

// parseColor accepts an [r,g,b] triple in 0..255 or a palette name
func parseColor(r gjson.Result) (core.Vec3, error) {
	if r.Type == gjson.String {
		return palette.Named(r.String())
	}
	return parseVec3(r)
}

func requireVec3(r gjson.Result, field string) (core.Vec3, error) {
	value := r.Get(field)
	if !value.Exists() {
		return core.Vec3{}, fmt.Errorf("missing %s", field)
	}
	v, err := parseVec3(value)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func parseVec3(r gjson.Result) (core.Vec3, error) {
	if !r.IsArray() {
		return core.Vec3{}, fmt.Errorf("expected [x, y, z], got %s", r.Raw)
	}
	values := r.Array()
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(values))
	}
	for i, v := range values {
		if v.Type != gjson.Number {
			return core.Vec3{}, fmt.Errorf("component %d is not a number: %s", i, v.Raw)
		}
	}
	return core.NewVec3(float32(values[0].Float()), float32(values[1].Float()), float32(values[2].Float())), nil
}

// validateFilePath rejects empty names and anything but .json files
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".json" {
		return fmt.Errorf("scene file must have .json extension, got %q", ext)
	}
	return nil
}
