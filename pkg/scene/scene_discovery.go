package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Lookup for names that match no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Lookup
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"`
}

type builtin struct {
	info    SceneInfo
	factory func() *Scene
}

var builtins = map[string]builtin{
	"cornell": {
		info: SceneInfo{
			ID:          "cornell",
			DisplayName: titleCase("cornell"),
			Description: "Cornell box built from spheres with a mirror ball and a glass ball",
		},
		factory: NewCornellScene,
	},
	"lightbox": {
		info: SceneInfo{
			ID:          "lightbox",
			DisplayName: titleCase("lightbox"),
			Description: "White diffuse sphere enclosing the camera with one small light",
		},
		factory: NewLightboxScene,
	},
}

// Lookup creates a fresh instance of the named built-in scene
func Lookup(name string) (*Scene, error) {
	entry, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return entry.factory(), nil
}

// Names returns the sorted IDs of all built-in scenes
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns metadata for all built-in scenes, sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, name := range Names() {
		scenes = append(scenes, builtins[name].info)
	}
	return scenes
}

// titleCase converts "my-scene_name" into "My Scene Name"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
