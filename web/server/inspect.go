package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/geometry"
	"github.com/df07/go-smallpt/pkg/scene"
)

// pixelCenter maps through the tent filter to the middle of sub-pixel (0,0), which is the pixel center
var pixelCenter = core.NewVec2(0.875, 0.875)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// inspectPixel casts a ray through the center of pixel (pixelX, pixelY), with
// pixelY counted from the top of the image, and reports the first sphere hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) (InspectResponse, error) {
	camera, err := geometry.NewCamera(sceneObj.CameraConfig, width, height)
	if err != nil {
		return InspectResponse{}, err
	}

	ray := camera.GetRay(pixelX, height-1-pixelY, 0, 0, pixelCenter)
	hit, isHit := sceneObj.Hit(ray)
	if !isHit {
		return InspectResponse{Hit: false, SphereIndex: -1}, nil
	}

	point := ray.At(hit.T)
	normal := hit.Sphere.Normal(point)

	return InspectResponse{
		Hit:          true,
		SphereIndex:  hit.Index,
		MaterialType: hit.Sphere.Material.String(),
		Point:        vecArray(point),
		Normal:       vecArray(normal),
		Distance:     hit.T,
		FrontFace:    normal.Dot(ray.Direction) < 0,
		Properties:   sphereProperties(hit.Sphere),
	}, nil
}

// sphereProperties extracts the geometry and material values of a sphere
func sphereProperties(sphere *geometry.Sphere) map[string]interface{} {
	color := sphere.Albedo
	if sphere.IsEmissive() {
		color = sphere.Emission
	}

	return map[string]interface{}{
		"center":   vecArray(sphere.Center),
		"radius":   sphere.Radius,
		"albedo":   vecArray(sphere.Albedo),
		"emission": vecArray(sphere.Emission),
		"emissive": sphere.IsEmissive(),
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(min(color.X, 1)*255), int(min(color.Y, 1)*255), int(min(color.Z, 1)*255)),
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	response, err := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}
