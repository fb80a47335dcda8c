package geometry

import (
	"fmt"

	"github.com/df07/go-smallpt/pkg/core"
)

// DefaultFovScale is the half-width of the image plane at unit distance (about 54° horizontal)
const DefaultFovScale = 0.5135

// CameraConfig describes a pinhole camera whose horizontal axis is the world X axis
type CameraConfig struct {
	Position   core.Vec3 // Eye position
	Direction  core.Vec3 // View direction, normalized by NewCamera
	FovScale   float64   // Image plane scale, 0 means DefaultFovScale
	NearOffset float64   // Primary rays start this far along the unnormalized pixel direction
}

// Camera generates primary rays for a fixed image resolution
type Camera struct {
	position   core.Vec3
	direction  core.Vec3
	cx, cy     core.Vec3 // Image plane axes, scaled by the field of view
	nearOffset float64
	width      int
	height     int
}

// NewCamera creates a camera for a width x height image.
// The view direction must not be zero or parallel to the X axis, otherwise the vertical axis is undefined.
func NewCamera(config CameraConfig, width, height int) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if config.Direction.LengthSquared() == 0 {
		return nil, fmt.Errorf("camera direction must be non-zero")
	}

	fov := config.FovScale
	if fov == 0 {
		fov = DefaultFovScale
	}
	if fov < 0 {
		return nil, fmt.Errorf("invalid field of view scale %f", fov)
	}

	direction := config.Direction.Normalize()
	cx := core.NewVec3(float64(width)*fov/float64(height), 0, 0)
	up := cx.Cross(direction)
	if up.LengthSquared() < 1e-18 {
		return nil, fmt.Errorf("camera direction %v is parallel to the horizontal axis", config.Direction)
	}
	cy := up.Normalize().Multiply(fov)

	return &Camera{
		position:   config.Position,
		direction:  direction,
		cx:         cx,
		cy:         cy,
		nearOffset: config.NearOffset,
		width:      width,
		height:     height,
	}, nil
}

// Width returns the image width the camera was built for
func (c *Camera) Width() int { return c.width }

// Height returns the image height the camera was built for
func (c *Camera) Height() int { return c.height }

// GetRay returns a primary ray through sub-pixel (sx, sy) of pixel (x, y), where y counts up from the bottom row.
// The sample is mapped through a tent filter to jitter the ray within a 2x2 sub-pixel grid.
func (c *Camera) GetRay(x, y, sx, sy int, sample core.Vec2) core.Ray {
	dx := core.SampleTent(sample.X)
	dy := core.SampleTent(sample.Y)

	u := ((float64(sx)+0.5+dx)/2+float64(x))/float64(c.width) - 0.5
	v := ((float64(sy)+0.5+dy)/2+float64(y))/float64(c.height) - 0.5

	d := c.cx.Multiply(u).Add(c.cy.Multiply(v)).Add(c.direction)
	return core.NewRay(c.position.Add(d.Multiply(c.nearOffset)), d.Normalize())
}
