package geometry

import (
	"math"

	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/material"
)

// Epsilon is the minimum hit distance, keeping secondary rays from re-hitting their origin surface
const Epsilon = 1e-4

// Sphere is a scene primitive carrying its own emission and reflectance
type Sphere struct {
	Radius   float64
	Center   core.Vec3
	Emission core.Vec3     // Radiant self-emission, zero for non-lights
	Albedo   core.Vec3     // Reflectance, each channel in [0, 1]
	Material material.Kind // How the surface scatters light
}

// NewSphere creates a new sphere
func NewSphere(radius float64, center, emission, albedo core.Vec3, kind material.Kind) Sphere {
	return Sphere{
		Radius:   radius,
		Center:   center,
		Emission: emission,
		Albedo:   albedo,
		Material: kind,
	}
}

// Intersect returns the smallest distance t > Epsilon at which the ray meets the sphere.
// The near root is tried first; the far root is used when the ray starts inside the sphere.
func (s Sphere) Intersect(ray core.Ray) (float64, bool) {
	// A degenerate sphere has no surface normal
	if s.Radius <= 0 {
		return 0, false
	}

	// Solve t² - 2t(op·d) + op·op - r² = 0 for a unit direction d
	op := s.Center.Subtract(ray.Origin)
	b := op.Dot(ray.Direction)
	discriminant := b*b - op.Dot(op) + s.Radius*s.Radius

	if discriminant < 0 {
		return 0, false
	}

	delta := math.Sqrt(discriminant)
	if t := b - delta; t > Epsilon {
		return t, true
	}
	if t := b + delta; t > Epsilon {
		return t, true
	}
	return 0, false
}

// Normal returns the outward unit normal at a point on the sphere surface
func (s Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Multiply(1.0 / s.Radius)
}

// IsEmissive reports whether the sphere emits light
func (s Sphere) IsEmissive() bool {
	return !s.Emission.IsZero()
}
