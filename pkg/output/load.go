package output

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/df07/go-smallpt/pkg/renderer"
)

// ImageData contains a loaded 8-bit image, row-major with row 0 at the top
type ImageData struct {
	Width  int
	Height int
	Pixels []renderer.RGB
}

// At returns the pixel at column x of row y
func (d *ImageData) At(x, y int) renderer.RGB {
	return d.Pixels[y*d.Width+x]
}

// LoadImage reads any format this package writes. PPM is detected by its
// magic number; PNG, BMP and TIFF go through the registered image decoders.
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads an image from r
func Decode(r io.Reader) (*ImageData, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err == nil && string(magic) == "P3" {
		return decodePPM(br)
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	data := &ImageData{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: make([]renderer.RGB, bounds.Dx()*bounds.Dy()),
	}

	for y := 0; y < data.Height; y++ {
		for x := 0; x < data.Width; x++ {
			// RGBA returns 16-bit channels
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			data.Pixels[y*data.Width+x] = renderer.RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
		}
	}

	return data, nil
}

func decodePPM(r io.Reader) (*ImageData, error) {
	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(r, &magic, &width, &height, &maxVal); err != nil {
		return nil, fmt.Errorf("failed to read PPM header: %w", err)
	}
	if width <= 0 || height <= 0 || maxVal != 255 {
		return nil, fmt.Errorf("unsupported PPM header %dx%d max %d", width, height, maxVal)
	}

	data := &ImageData{
		Width:  width,
		Height: height,
		Pixels: make([]renderer.RGB, width*height),
	}

	for i := range data.Pixels {
		var red, green, blue int
		if _, err := fmt.Fscan(r, &red, &green, &blue); err != nil {
			return nil, fmt.Errorf("failed to read PPM pixel %d: %w", i, err)
		}
		if red < 0 || red > 255 || green < 0 || green > 255 || blue < 0 || blue > 255 {
			return nil, fmt.Errorf("PPM pixel %d out of range: %d %d %d", i, red, green, blue)
		}
		data.Pixels[i] = renderer.RGB{uint8(red), uint8(green), uint8(blue)}
	}

	return data, nil
}
