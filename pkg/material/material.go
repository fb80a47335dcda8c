package material

import (
	"fmt"
	"strings"
)

// Kind identifies how a surface scatters light. The set is closed.
type Kind int

const (
	Diffuse    Kind = iota // Ideal Lambertian reflector
	Specular               // Ideal mirror
	Refractive             // Dielectric such as glass
)

// String returns the lower-case name of the material kind
func (k Kind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Specular:
		return "specular"
	case Refractive:
		return "refractive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a material name (as produced by String) back into a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diffuse", "diff":
		return Diffuse, nil
	case "specular", "spec", "mirror":
		return Specular, nil
	case "refractive", "refr", "glass", "dielectric":
		return Refractive, nil
	default:
		return 0, fmt.Errorf("unknown material kind %q", name)
	}
}
