package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit            bool                   `json:"hit"`
	ObjectIndex    int                    `json:"objectIndex"`
	MaterialType   string                 `json:"materialType,omitempty"`
	GeometryType   string                 `json:"geometryType,omitempty"`
	Point          [3]float32             `json:"point"`
	Normal         [3]float32             `json:"normal"`
	Distance       float32                `json:"distance"`
	LocalIntensity float32                `json:"localIntensity"`
	LocalColor     string                 `json:"localColor,omitempty"`
	Properties     map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit         bool
	HitRecord   *geometry.HitRecord
	Shape       geometry.Shape // nil when the hit could not be attributed
	ObjectIndex int            // Insertion index of Shape, -1 when unknown
	Ray         core.Ray
}

// inspectPixel casts the center ray of pixel (pixelX, pixelY), row 0 at the
// top, and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, camera *renderer.Camera, width, height, pixelX, pixelY int) InspectResult {
	shading := renderer.DefaultShadingConfig()

	s := (float32(pixelX) + 0.5) / float32(width)
	t := (float32(height-1-pixelY) + 0.5) / float32(height)
	ray := camera.GetRay(s, t, nil)

	hit, isHit := sceneObj.NearestIntersection(ray, shading.MinT, shading.MaxT)
	if !isHit {
		return InspectResult{Ray: ray, ObjectIndex: -1}
	}

	// NearestIntersection returns a record, not the shape; the first shape
	// at the same distance is the one it kept
	for i, shape := range sceneObj.Shapes {
		if shapeHit, ok := geometry.Hit(shape, ray, shading.MinT, hit.T+0.001); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Shape: shape, ObjectIndex: i, Ray: ray}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit, ObjectIndex: -1, Ray: ray}
}

// extractMaterialInfo classifies the surface attributes of a hit
func (s *Server) extractMaterialInfo(hit *geometry.HitRecord) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"color":      colorHex(hit.Color),
		"specular":   hit.Specular,
		"reflective": hit.Reflective,
		"refractive": hit.Refractive,
	}

	switch {
	case hit.Refractive != renderer.ReferenceRefractiveIndex:
		return "refractive", properties
	case hit.Reflective > 0:
		return "reflective", properties
	case hit.Specular > 0:
		return "shiny", properties
	default:
		return "matte", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float32{geom.Position.X, geom.Position.Y, geom.Position.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	query := r.URL.Query()
	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	// Inspection logs nothing to the console
	job, err := s.prepareRender("inspect", req, discardLogger{})
	if err != nil {
		writeJSONError(w, statusForSceneError(err), err.Error())
		return
	}

	if pixelX < 0 || pixelX >= job.width || pixelY < 0 || pixelY >= job.height {
		writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("Pixel coordinates out of bounds for %dx%d image", job.width, job.height))
		return
	}

	result := inspectPixel(job.scene, job.camera, job.width, job.height, pixelX, pixelY)

	w.Header().Set("Content-Type", "application/json")
	if !result.Hit {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(InspectResponse{Hit: false, ObjectIndex: -1})
		return
	}

	hit := result.HitRecord
	normal := hit.Normal()
	raytracer := renderer.NewRaytracer(job.scene, job.camera, job.width, job.height)
	intensity := raytracer.LocalIntensity(hit.Point, normal, result.Ray.Direction.Negate(), hit.Specular)

	materialType, materialProps := s.extractMaterialInfo(hit)
	geometryType, geometryProps := s.extractGeometryInfo(result.Shape)

	response := InspectResponse{
		Hit:            true,
		ObjectIndex:    result.ObjectIndex,
		MaterialType:   materialType,
		GeometryType:   geometryType,
		Point:          [3]float32{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:         [3]float32{normal.X, normal.Y, normal.Z},
		Distance:       hit.T,
		LocalIntensity: intensity,
		LocalColor:     colorHex(hit.Color.Multiply(intensity)),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// colorHex formats a color in [0,255] space, clamping out-of-range channels
func colorHex(c core.Vec3) string {
	rgb := c.ToRGB()
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}
