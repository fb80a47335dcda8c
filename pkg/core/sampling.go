package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; every row task owns its own instance.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleCosineHemisphere generates a cosine-weighted random direction in the hemisphere around normal.
// normal must be a unit vector; the result is a unit vector.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)

	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(1.0 - sample.Y)

	tangent, bitangent := OrthonormalBasis(normal)

	// Transform to world space
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(z)).Normalize()
}

// OrthonormalBasis returns two unit tangents completing w (a unit vector) to a right-handed frame.
// The seed axis is whichever of X or Y is further from parallel to w, so the cross product never vanishes.
func OrthonormalBasis(w Vec3) (u, v Vec3) {
	var seed Vec3
	if math.Abs(w.X) > 0.1 {
		seed = NewVec3(0, 1, 0)
	} else {
		seed = NewVec3(1, 0, 0)
	}
	u = seed.Cross(w).Normalize()
	v = w.Cross(u)
	return u, v
}

// SampleTent maps a uniform sample in [0, 1) to a tent (triangle) distributed offset in [-1, 1)
func SampleTent(u float64) float64 {
	r := 2.0 * u
	if r < 1.0 {
		return math.Sqrt(r) - 1.0
	}
	return 1.0 - math.Sqrt(2.0-r)
}
