package scene

import (
	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/geometry"
	"github.com/df07/go-smallpt/pkg/material"
)

// NewCornellScene creates the classic smallpt Cornell box.
// The walls are huge spheres whose surfaces are nearly flat inside the box.
func NewCornellScene() *Scene {
	black := core.NewVec3(0, 0, 0)
	white := core.NewVec3(0.75, 0.75, 0.75)
	nearWhite := core.NewVec3(0.999, 0.999, 0.999)

	spheres := []geometry.Sphere{
		geometry.NewSphere(1e5, core.NewVec3(1e5+1, 40.8, 81.6), black, core.NewVec3(0.75, 0.25, 0.25), material.Diffuse),  // Left
		geometry.NewSphere(1e5, core.NewVec3(-1e5+99, 40.8, 81.6), black, core.NewVec3(0.25, 0.25, 0.75), material.Diffuse), // Right
		geometry.NewSphere(1e5, core.NewVec3(50, 40.8, 1e5), black, white, material.Diffuse),                                 // Back
		geometry.NewSphere(1e5, core.NewVec3(50, 40.8, -1e5+170), black, black, material.Diffuse),                            // Front
		geometry.NewSphere(1e5, core.NewVec3(50, 1e5, 81.6), black, white, material.Diffuse),                                 // Bottom
		geometry.NewSphere(1e5, core.NewVec3(50, -1e5+81.6, 81.6), black, white, material.Diffuse),                           // Top
		geometry.NewSphere(16.5, core.NewVec3(27, 16.5, 47), black, nearWhite, material.Specular),                            // Mirror
		geometry.NewSphere(16.5, core.NewVec3(73, 16.5, 78), black, nearWhite, material.Refractive),                          // Glass
		geometry.NewSphere(600, core.NewVec3(50, 681.6-0.27, 81.6), core.NewVec3(12, 12, 12), black, material.Diffuse),       // Light
	}

	return &Scene{
		Name:    "cornell",
		Spheres: spheres,
		CameraConfig: geometry.CameraConfig{
			Position:   core.NewVec3(50, 52, 295.6),
			Direction:  core.NewVec3(0, -0.042612, -1),
			FovScale:   geometry.DefaultFovScale,
			NearOffset: 140, // Start rays inside the box, past the front wall
		},
		SamplingConfig: core.DefaultSamplingConfig(),
		Width:          1024,
		Height:         768,
	}
}
