package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/df07/go-smallpt/pkg/scene"
)

// Server serves renders of the built-in scenes over HTTP
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = defaultScene
	}

	sceneObj, err := scene.Lookup(sceneName)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":                     sceneObj.Width,
			"height":                    sceneObj.Height,
			"samplesPerSubpixel":        config.SamplesPerSubpixel,
			"maxDepth":                  config.MaxDepth,
			"russianRouletteMinBounces": config.RussianRouletteMinBounces,
			"fresnelSplitDepth":         config.FresnelSplitDepth,
			"spheres":                   len(sceneObj.Spheres),
			"lights":                    sceneObj.EmissiveCount(),
		},
		"limits": map[string]interface{}{
			"width":              map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":             map[string]int{"min": minImageSize, "max": maxImageSize},
			"samplesPerSubpixel": map[string]int{"min": 1, "max": maxSamplesPerSubpixel},
			"workers":            map[string]int{"min": 0, "max": maxWorkers},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
