package material

import (
	"math"

	"github.com/df07/go-smallpt/pkg/core"
)

// Indices of refraction used by Refractive surfaces
const (
	AirIndex   = 1.0
	GlassIndex = 1.5
)

// Reflect mirrors direction d about the surface normal n: r = d - 2(n·d)n
func Reflect(d, n core.Vec3) core.Vec3 {
	return d.Subtract(n.Multiply(2 * n.Dot(d)))
}

// Refraction describes how a ray splits at a dielectric boundary
type Refraction struct {
	TotalInternal bool      // No transmitted ray exists
	Direction     core.Vec3 // Unit transmitted direction, zero when TotalInternal
	Reflectance   float64   // Schlick Fresnel reflectance Re
}

// Transmittance returns the fraction of light carried by the refracted ray
func (r Refraction) Transmittance() float64 {
	return 1 - r.Reflectance
}

// Refract applies Snell's law at a boundary between air and glass.
// d is the unit incoming direction, n the outward normal and nl the normal oriented against d.
func Refract(d, n, nl core.Vec3) Refraction {
	into := n.Dot(nl) > 0 // Ray enters the glass
	nc, nt := AirIndex, GlassIndex

	nnt := nt / nc
	if into {
		nnt = nc / nt
	}

	ddn := d.Dot(nl)
	cos2t := 1 - nnt*nnt*(1-ddn*ddn)
	if cos2t < 0 {
		return Refraction{TotalInternal: true, Reflectance: 1}
	}

	sign := -1.0
	if into {
		sign = 1.0
	}
	dir := d.Multiply(nnt).Subtract(n.Multiply(sign * (ddn*nnt + math.Sqrt(cos2t)))).Normalize()

	// Entering uses the incident angle, exiting uses the transmitted angle
	var c float64
	if into {
		c = 1 + ddn
	} else {
		c = 1 - dir.Dot(n)
	}

	return Refraction{
		Direction:   dir,
		Reflectance: Schlick(nc, nt, c),
	}
}

// Schlick approximates the Fresnel reflectance between media n1 and n2, where c is 1 - cos θ
func Schlick(n1, n2, c float64) float64 {
	a := n2 - n1
	b := n2 + n1
	r0 := a * a / (b * b)
	return r0 + (1-r0)*math.Pow(c, 5)
}
