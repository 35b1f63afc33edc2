package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned by Create for names that match no scene
var ErrUnknownScene = errors.New("unknown scene")

const (
	builtinGroup    = "Built-in Scenes"
	jsonGroup       = "Scene Files"
	jsonScenePrefix = "json:"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

var builtinScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		Description: "Three reflective spheres on a yellow ground sphere",
	},
	{
		ID:          "original",
		Name:        "Original Demo",
		Description: "Palette spheres with a shallow depth of field",
	},
	{
		ID:          "sphere-grid",
		Name:        "Sphere Grid",
		Description: "Grid of spheres sweeping specular and reflective coefficients",
	},
	{
		ID:          "empty",
		Name:        "Empty Scene",
		Description: "Lights and camera only; every pixel shows the background",
	},
}

// ScenesDir returns the first scenes directory found relative to the
// working directory, or "" when there is none
func ScenesDir() string {
	for _, path := range []string{"scenes", "../scenes", "../../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListJSONScenes scans dir for *.json scene files. An empty dir means
// ScenesDir().
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		dir = ScenesDir()
	}
	if dir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Skip broken files but keep listing the rest
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneMetadata loads a scene file and extracts its listing metadata.
// Name falls back to the title-cased filename and group to "Scene Files".
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:       jsonScenePrefix + base,
		Name:     titleCase(base),
		Group:    jsonGroup,
		Type:     "json",
		FilePath: filePath,
	}

	desc, err := loaders.LoadSceneJSON(filePath)
	if err != nil {
		return info, err
	}
	if desc.Name != "" && desc.Name != base {
		info.Name = desc.Name
	}
	if desc.Group != "" {
		info.Group = desc.Group
	}
	info.Description = desc.Description
	info.DisplayName = info.Name
	return info, nil
}

// ListAllScenes returns built-in and file scenes, grouped by category with
// the built-in group first
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, info := range builtinScenes {
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	jsonScenes, err := ListJSONScenes("")
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, jsonScenes...)

	groupMap := make(map[string][]SceneInfo)
	var groupNames []string
	for _, info := range allScenes {
		if _, seen := groupMap[info.Group]; !seen && info.Group != builtinGroup {
			groupNames = append(groupNames, info.Group)
		}
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: groupMap[builtinGroup]})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// Create builds the scene with the given id. Built-in ids are listed by
// ListAllScenes; "json:<name>" loads <name>.json from the scenes directory
// and any path ending in .json is loaded directly.
func Create(id string) (*Scene, error) {
	switch id {
	case "default", "":
		return NewDefaultScene(), nil
	case "original":
		return NewOriginalScene(), nil
	case "sphere-grid":
		return NewSphereGridScene(DefaultGridSize), nil
	case "empty":
		return NewEmptyScene(), nil
	}

	if strings.HasPrefix(id, jsonScenePrefix) {
		dir := ScenesDir()
		if dir == "" {
			return nil, fmt.Errorf("%w: %s (no scenes directory)", ErrUnknownScene, id)
		}
		name := filepath.Base(strings.TrimPrefix(id, jsonScenePrefix))
		return LoadJSONScene(filepath.Join(dir, name+".json"))
	}
	if strings.EqualFold(filepath.Ext(id), ".json") {
		return LoadJSONScene(id)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownScene, id)
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
