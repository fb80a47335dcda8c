package integrator

import (
	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/material"
	"github.com/df07/go-smallpt/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with Russian roulette
type PathTracingIntegrator struct {
	config core.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config core.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the radiance for a primary ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.radiance(ray, scene, sampler, 0)
}

// radiance is the recursive estimator. depth counts the bounces taken so far.
func (pt *PathTracingIntegrator) radiance(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	if pt.config.MaxDepth > 0 && depth >= pt.config.MaxDepth {
		return core.Vec3{}
	}

	hit, isHit := scene.Hit(ray)
	if !isHit {
		return core.Vec3{}
	}

	sphere := hit.Sphere
	emission := sphere.Emission
	albedo := sphere.Albedo

	terminate, scale := pt.ApplyRussianRoulette(depth, albedo, sampler)
	if terminate {
		return emission
	}
	albedo = albedo.Multiply(scale)

	point := ray.At(hit.T)
	normal := sphere.Normal(point)
	oriented := normal
	if normal.Dot(ray.Direction) >= 0 {
		oriented = normal.Negate() // Hit from inside
	}

	switch sphere.Material {
	case material.Diffuse:
		dir := core.SampleCosineHemisphere(oriented, sampler.Get2D())
		return pt.bounce(emission, albedo, core.NewRay(point, dir), scene, sampler, depth)

	case material.Specular:
		reflected := core.NewRay(point, material.Reflect(ray.Direction, normal))
		return pt.bounce(emission, albedo, reflected, scene, sampler, depth)

	case material.Refractive:
		return pt.calculateDielectricColor(ray, point, normal, oriented, emission, albedo, scene, sampler, depth)
	}

	return emission
}

// bounce returns emission + albedo * L(next)
func (pt *PathTracingIntegrator) bounce(emission, albedo core.Vec3, next core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	return emission.Add(albedo.MultiplyVec(pt.radiance(next, scene, sampler, depth+1)))
}

// calculateDielectricColor splits the path into Fresnel-weighted reflection and refraction
func (pt *PathTracingIntegrator) calculateDielectricColor(ray core.Ray, point, normal, oriented, emission, albedo core.Vec3, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	reflected := core.NewRay(point, material.Reflect(ray.Direction, normal))

	refraction := material.Refract(ray.Direction, normal, oriented)
	if refraction.TotalInternal {
		return pt.bounce(emission, albedo, reflected, scene, sampler, depth)
	}
	transmitted := core.NewRay(point, refraction.Direction)
	re := refraction.Reflectance
	tr := refraction.Transmittance()

	// Near the camera trace both branches for lower variance
	if depth < pt.config.FresnelSplitDepth {
		incoming := pt.radiance(reflected, scene, sampler, depth+1).Multiply(re).
			Add(pt.radiance(transmitted, scene, sampler, depth+1).Multiply(tr))
		return emission.Add(albedo.MultiplyVec(incoming))
	}

	// Deeper, follow one branch chosen with a probability biased toward reflection
	p := 0.25 + 0.5*re
	if sampler.Get1D() < p {
		return pt.bounce(emission, albedo.Multiply(re/p), reflected, scene, sampler, depth)
	}
	return pt.bounce(emission, albedo.Multiply(tr/(1-p)), transmitted, scene, sampler, depth)
}

// ApplyRussianRoulette decides whether a path ends at this depth.
// Survival probability is the largest albedo channel; survivors are scaled by 1/p to stay unbiased.
// Returns (shouldTerminate, albedoScale) and consumes a sample only once roulette is active.
func (pt *PathTracingIntegrator) ApplyRussianRoulette(depth int, albedo core.Vec3, sampler core.Sampler) (bool, float64) {
	if depth <= pt.config.RussianRouletteMinBounces {
		return false, 1.0
	}

	p := albedo.MaxComponent()
	if sampler.Get1D() >= p {
		return true, 0.0
	}
	return false, 1.0 / p
}
