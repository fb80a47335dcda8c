package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-smallpt/pkg/core"
)

// Gamma is the display gamma applied by ToInt
const Gamma = 2.2

// RGB is an encoded pixel in R, G, B order
type RGB [3]uint8

// FrameBuffer holds the linear radiance of every pixel.
// Pixels is row-major with row 0 at the top of the image.
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// Row is a writable view of one scanline of a FrameBuffer
type Row struct {
	Y      int         // Row index, 0 = top of the image
	Offset int         // Index of the first pixel in FrameBuffer.Pixels
	Pixels []core.Vec3 // Capacity-bounded, so appends never reach the next row
}

// NewFrameBuffer allocates a zeroed frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// Rows splits the buffer into one non-overlapping handle per scanline
func (fb *FrameBuffer) Rows() []Row {
	rows := make([]Row, fb.Height)
	for y := range rows {
		start := y * fb.Width
		end := start + fb.Width
		rows[y] = Row{Y: y, Offset: start, Pixels: fb.Pixels[start:end:end]}
	}
	return rows
}

// At returns the pixel at column x of row y (row 0 = top)
func (fb *FrameBuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x]
}

// Encode clamps and gamma-encodes every pixel, top row first
func (fb *FrameBuffer) Encode() []RGB {
	out := make([]RGB, len(fb.Pixels))
	for i, p := range fb.Pixels {
		out[i] = RGB{ToInt(p.X), ToInt(p.Y), ToInt(p.Z)}
	}
	return out
}

// Image converts the buffer to an RGBA image for the standard encoders
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Encode() {
		img.SetRGBA(i%fb.Width, i/fb.Width, color.RGBA{R: p[0], G: p[1], B: p[2], A: 255})
	}
	return img
}

// Clamp limits x to [0, 1]. NaN maps to 0.
func Clamp(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ToInt gamma-encodes a linear channel value to 0..255
func ToInt(x float64) uint8 {
	return uint8(math.Pow(Clamp(x), 1/Gamma)*255 + 0.5)
}
