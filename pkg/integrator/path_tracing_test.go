package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/geometry"
	"github.com/df07/go-smallpt/pkg/material"
	"github.com/df07/go-smallpt/pkg/scene"
)

// fixedSampler returns the same value for every sample and counts how many were drawn
type fixedSampler struct {
	value float64
	draws int
}

func (f *fixedSampler) Get1D() float64 {
	f.draws++
	return f.value
}

func (f *fixedSampler) Get2D() core.Vec2 {
	f.draws += 2
	return core.NewVec2(f.value, f.value)
}

// createEnclosureScene creates a closed diffuse sphere with uniform emission around the origin
func createEnclosureScene(emission, albedo core.Vec3) *scene.Scene {
	return &scene.Scene{
		Spheres: []geometry.Sphere{
			geometry.NewSphere(10, core.NewVec3(0, 0, 0), emission, albedo, material.Diffuse),
		},
	}
}

func averageRadiance(integrator Integrator, sc *scene.Scene, ray core.Ray, samples int, seed int64) core.Vec3 {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	sum := core.Vec3{}
	for i := 0; i < samples; i++ {
		sum = sum.Add(integrator.RayColor(ray, sc, sampler))
	}
	return sum.Multiply(1.0 / float64(samples))
}

func assertVecNear(t *testing.T, label string, got, want core.Vec3, tolerance float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tolerance || math.Abs(got.Y-want.Y) > tolerance || math.Abs(got.Z-want.Z) > tolerance {
		t.Errorf("%s: expected %v (±%g), got %v", label, want, tolerance, got)
	}
}

// TestPathTracingMissIsBlack tests that rays escaping the scene carry no light
func TestPathTracingMissIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator(core.DefaultSamplingConfig())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	empty := &scene.Scene{}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if got := integrator.RayColor(ray, empty, sampler); got != (core.Vec3{}) {
		t.Errorf("Expected black for empty scene, got %v", got)
	}
}

// TestPathTracingLightOnly tests that a lone light returns exactly its emission
func TestPathTracingLightOnly(t *testing.T) {
	emission := core.NewVec3(4, 2, 1)
	sc := &scene.Scene{Spheres: []geometry.Sphere{
		geometry.NewSphere(1, core.NewVec3(0, 0, -5), emission, core.Vec3{}, material.Diffuse),
	}}
	integrator := NewPathTracingIntegrator(core.DefaultSamplingConfig())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	for i := 0; i < 50; i++ {
		if got := integrator.RayColor(ray, sc, sampler); got != emission {
			t.Fatalf("Expected emission %v, got %v", emission, got)
		}
	}
}

// TestPathTracingDepthCap tests that the hard depth cap truncates the recursion
func TestPathTracingDepthCap(t *testing.T) {
	sc := createEnclosureScene(core.NewVec3(1, 1, 1), core.NewVec3(0.5, 0.5, 0.5))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		maxDepth int
		expected float64
	}{
		{1, 1},      // emission only
		{2, 1.5},    // 1 + 0.5
		{3, 1.75},   // 1 + 0.5 + 0.25
		{40, 2 - 2*math.Pow(0.5, 40)},
	}

	for _, tt := range tests {
		config := core.DefaultSamplingConfig()
		config.MaxDepth = tt.maxDepth
		config.RussianRouletteMinBounces = math.MaxInt
		integrator := NewPathTracingIntegrator(config)

		got := integrator.RayColor(ray, sc, sampler)
		assertVecNear(t, "depth cap", got, core.NewVec3(tt.expected, tt.expected, tt.expected), 1e-12)
	}
}

// TestPathTracingRussianRouletteUnbiased compares roulette against the analytic enclosure solution L = E/(1-a)
func TestPathTracingRussianRouletteUnbiased(t *testing.T) {
	tests := []struct {
		name   string
		albedo core.Vec3
	}{
		{"grey", core.NewVec3(0.5, 0.5, 0.5)},
		{"coloured", core.NewVec3(0.5, 0.3, 0.1)},
	}

	ray := core.NewRay(core.NewVec3(1, 2, 3), core.NewVec3(0, 0, 1))
	emission := core.NewVec3(1, 1, 1)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := createEnclosureScene(emission, tt.albedo)
			analytic := core.NewVec3(1/(1-tt.albedo.X), 1/(1-tt.albedo.Y), 1/(1-tt.albedo.Z))

			// Without roulette every path is identical, so a single sample is the full answer
			noRoulette := core.DefaultSamplingConfig()
			noRoulette.MaxDepth = 80
			noRoulette.RussianRouletteMinBounces = math.MaxInt
			reference := averageRadiance(NewPathTracingIntegrator(noRoulette), sc, ray, 10, 1)
			assertVecNear(t, "no roulette", reference, analytic, 1e-9)

			withRoulette := core.DefaultSamplingConfig()
			withRoulette.MaxDepth = 0
			estimate := averageRadiance(NewPathTracingIntegrator(withRoulette), sc, ray, 20000, 2)
			assertVecNear(t, "roulette", estimate, reference, 0.02)
		})
	}
}

// TestApplyRussianRoulette tests the survival rule and its compensation factor
func TestApplyRussianRoulette(t *testing.T) {
	integrator := NewPathTracingIntegrator(core.DefaultSamplingConfig())
	albedo := core.NewVec3(0.2, 0.8, 0.4)

	// At or below the threshold roulette is inactive and draws nothing
	sampler := &fixedSampler{value: 0.99}
	for depth := 0; depth <= 5; depth++ {
		terminate, scale := integrator.ApplyRussianRoulette(depth, albedo, sampler)
		if terminate || scale != 1 {
			t.Errorf("Depth %d: expected no roulette, got terminate=%t scale=%f", depth, terminate, scale)
		}
	}
	if sampler.draws != 0 {
		t.Errorf("Expected no samples drawn below the threshold, got %d", sampler.draws)
	}

	terminate, scale := integrator.ApplyRussianRoulette(6, albedo, &fixedSampler{value: 0.5})
	if terminate {
		t.Error("Expected path to survive when u < max albedo")
	}
	if math.Abs(scale-1.25) > 1e-12 {
		t.Errorf("Expected compensation 1/0.8 = 1.25, got %f", scale)
	}

	if terminate, _ := integrator.ApplyRussianRoulette(6, albedo, &fixedSampler{value: 0.9}); !terminate {
		t.Error("Expected path to terminate when u > max albedo")
	}

	// Black surfaces always terminate, never divide by zero
	if terminate, _ := integrator.ApplyRussianRoulette(6, core.Vec3{}, &fixedSampler{value: 0}); !terminate {
		t.Error("Expected black albedo to always terminate")
	}
}

// TestPathTracingTerminatedPathReturnsEmission tests that a terminated path keeps only emission
func TestPathTracingTerminatedPathReturnsEmission(t *testing.T) {
	emission := core.NewVec3(0.3, 0.2, 0.1)
	sc := createEnclosureScene(emission, core.NewVec3(0.5, 0.5, 0.5))

	config := core.DefaultSamplingConfig()
	config.RussianRouletteMinBounces = -1 // roulette from the first hit
	integrator := NewPathTracingIntegrator(config)

	got := integrator.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), sc, &fixedSampler{value: 0.99})
	if got != emission {
		t.Errorf("Expected emission %v, got %v", emission, got)
	}
}

// TestPathTracingSpecularMaterial tests that a mirror reflects the light behind the viewer
func TestPathTracingSpecularMaterial(t *testing.T) {
	sc := &scene.Scene{Spheres: []geometry.Sphere{
		geometry.NewSphere(1, core.NewVec3(0, 0, 0), core.Vec3{}, core.NewVec3(0.8, 0.6, 0.4), material.Specular),
		geometry.NewSphere(5, core.NewVec3(0, 0, 20), core.NewVec3(1, 1, 1), core.Vec3{}, material.Diffuse),
	}}
	integrator := NewPathTracingIntegrator(core.DefaultSamplingConfig())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Head-on: the reflection returns straight into the light
	got := integrator.RayColor(core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)), sc, sampler)
	assertVecNear(t, "mirror toward light", got, core.NewVec3(0.8, 0.6, 0.4), 1e-12)

	// Grazing at 45°: the reflection heads along +X into empty space
	dir := core.NewVec3(0, 0, -1)
	offset := math.Sqrt2 / 2
	got = integrator.RayColor(core.NewRay(core.NewVec3(offset, 0, 10), dir), sc, sampler)
	if got != (core.Vec3{}) {
		t.Errorf("Expected black for reflection into empty space, got %v", got)
	}
}

// TestPathTracingSpecularConsumesNoRandomness tests that mirrors are deterministic
func TestPathTracingSpecularConsumesNoRandomness(t *testing.T) {
	sc := &scene.Scene{Spheres: []geometry.Sphere{
		geometry.NewSphere(1, core.NewVec3(0, 0, 0), core.Vec3{}, core.NewVec3(0.9, 0.9, 0.9), material.Specular),
	}}
	integrator := NewPathTracingIntegrator(core.DefaultSamplingConfig())
	sampler := &fixedSampler{value: 0.5}

	integrator.RayColor(core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)), sc, sampler)
	if sampler.draws != 0 {
		t.Errorf("Expected no random samples for a mirror bounce, got %d", sampler.draws)
	}
}

// TestPathTracingDielectricConservesEnergy tests that clear glass in a uniform environment is invisible on average
func TestPathTracingDielectricConservesEnergy(t *testing.T) {
	sc := &scene.Scene{Spheres: []geometry.Sphere{
		geometry.NewSphere(10, core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.Vec3{}, material.Diffuse),
		geometry.NewSphere(1, core.NewVec3(0, 0, 0), core.Vec3{}, core.NewVec3(1, 1, 1), material.Refractive),
	}}
	integrator := NewPathTracingIntegrator(core.DefaultSamplingConfig())

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)),   // head-on
		core.NewRay(core.NewVec3(0.9, 0, 5), core.NewVec3(0, 0, -1)), // near grazing
	}

	for i, ray := range rays {
		got := averageRadiance(integrator, sc, ray, 20000, int64(i))
		assertVecNear(t, "glass", got, core.NewVec3(1, 1, 1), 0.03)
	}
}

// TestPathTracingDiffuseReceivesLight tests that a diffuse surface facing a light picks up its glow
func TestPathTracingDiffuseReceivesLight(t *testing.T) {
	sc := &scene.Scene{Spheres: []geometry.Sphere{
		geometry.NewSphere(1e4, core.NewVec3(0, -1e4, 0), core.Vec3{}, core.NewVec3(0.5, 0.5, 0.5), material.Diffuse), // floor
		geometry.NewSphere(1e4, core.NewVec3(0, 1e4+10, 0), core.NewVec3(1, 1, 1), core.Vec3{}, material.Diffuse),     // glowing sky
	}}
	integrator := NewPathTracingIntegrator(core.DefaultSamplingConfig())

	// A diffuse floor under a uniform glowing ceiling reflects roughly albedo * 1
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	got := averageRadiance(integrator, sc, ray, 5000, 42)
	assertVecNear(t, "floor", got, core.NewVec3(0.5, 0.5, 0.5), 0.05)
}
