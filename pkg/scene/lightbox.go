package scene

import (
	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/geometry"
	"github.com/df07/go-smallpt/pkg/material"
)

// Light placement inside the lightbox, exported for tests that reason about brightness
var (
	LightboxLightCenter = core.NewVec3(-1, 1, -10)
	LightboxLightRadius = 1.0
)

// NewLightboxScene creates a single white diffuse sphere enclosing the camera,
// lit by one small emissive sphere slightly up and to the left of the view direction.
func NewLightboxScene() *Scene {
	black := core.NewVec3(0, 0, 0)

	spheres := []geometry.Sphere{
		geometry.NewSphere(20, core.NewVec3(0, 0, 0), black, core.NewVec3(0.75, 0.75, 0.75), material.Diffuse),
		geometry.NewSphere(LightboxLightRadius, LightboxLightCenter, core.NewVec3(8, 8, 8), black, material.Diffuse),
	}

	return &Scene{
		Name:    "lightbox",
		Spheres: spheres,
		CameraConfig: geometry.CameraConfig{
			Position:  core.NewVec3(0, 0, 0),
			Direction: core.NewVec3(0, 0, -1),
			FovScale:  geometry.DefaultFovScale,
		},
		SamplingConfig: core.DefaultSamplingConfig(),
		Width:          64,
		Height:         64,
	}
}
