package integrator

import (
	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving at the ray origin along -ray.Direction.
	// Repeated calls return different samples of the same expected value.
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}
