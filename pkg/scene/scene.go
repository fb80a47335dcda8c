package scene

import (
	"math"

	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/geometry"
)

// Scene contains all the elements needed for rendering.
// It is shared read-only by every render task and must not be modified once rendering starts.
type Scene struct {
	Name           string
	Spheres        []geometry.Sphere // Scanned in order by Hit
	CameraConfig   geometry.CameraConfig
	SamplingConfig core.SamplingConfig
	Width, Height  int // Default image size
}

// Hit records the closest intersection found by Scene.Hit
type Hit struct {
	Index  int              // Position of the sphere in Scene.Spheres
	T      float64          // Distance along the ray
	Sphere *geometry.Sphere // The sphere that was hit
}

// Hit finds the closest sphere along the ray by a linear scan.
// On equal distances the sphere that comes first in Spheres wins.
func (s *Scene) Hit(ray core.Ray) (Hit, bool) {
	closest := Hit{Index: -1, T: math.Inf(1)}

	for i := range s.Spheres {
		if t, isHit := s.Spheres[i].Intersect(ray); isHit && t < closest.T {
			closest = Hit{Index: i, T: t, Sphere: &s.Spheres[i]}
		}
	}

	return closest, closest.Index >= 0
}

// EmissiveCount returns the number of light-emitting spheres
func (s *Scene) EmissiveCount() int {
	count := 0
	for _, sphere := range s.Spheres {
		if sphere.IsEmissive() {
			count++
		}
	}
	return count
}
