// Package output serializes rendered frames to image files.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/df07/go-smallpt/pkg/renderer"
)

// ErrUnknownFormat is returned for an unsupported image format or file extension
var ErrUnknownFormat = errors.New("unknown image format")

// Format identifies an image file format
type Format string

const (
	PPM  Format = "ppm"  // Plain-text P3 portable pixmap
	PNG  Format = "png"  // Lossless PNG
	BMP  Format = "bmp"  // Uncompressed 24-bit BMP
	TIFF Format = "tiff" // Deflate-compressed TIFF
)

var extensions = map[string]Format{
	".ppm":  PPM,
	".png":  PNG,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
}

// FormatFromPath picks the format from the file extension, case-insensitively
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q (supported: %s)", ErrUnknownFormat, ext, strings.Join(Extensions(), ", "))
	}
	return format, nil
}

// ParseFormat resolves a format name such as "png"
func ParseFormat(name string) (Format, error) {
	format, ok := extensions["."+strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return format, nil
}

// Extensions returns the supported file extensions, sorted
func Extensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Write encodes the frame buffer in the given format
func Write(w io.Writer, fb *renderer.FrameBuffer, format Format) error {
	if format == PPM {
		return WritePPM(w, fb)
	}
	return WriteImage(w, fb.Image(), format)
}

// WriteImage encodes an 8-bit image in the given format
func WriteImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PPM:
		return writePPM(w, img)
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WritePPM writes a plain-text P3 pixmap, top row first
func WritePPM(w io.Writer, fb *renderer.FrameBuffer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d\n%d\n255\n", fb.Width, fb.Height)
	for _, p := range fb.Encode() {
		fmt.Fprintf(bw, "%d %d %d ", p[0], p[1], p[2])
	}
	return bw.Flush()
}

func writePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d\n%d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			fmt.Fprintf(bw, "%d %d %d ", r>>8, g>>8, b>>8)
		}
	}
	return bw.Flush()
}

// Upscale enlarges an image by an integer factor with nearest-neighbour
// sampling, so every rendered pixel stays a sharp block
func Upscale(img image.Image, factor int) *image.RGBA {
	bounds := img.Bounds()
	if factor < 1 {
		factor = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// Save writes the frame buffer to path, creating parent directories.
// The format follows the file extension.
func Save(path string, fb *renderer.FrameBuffer) error {
	return save(path, func(w io.Writer, format Format) error {
		return Write(w, fb, format)
	})
}

// SaveImage writes an 8-bit image to path like Save
func SaveImage(path string, img image.Image) error {
	return save(path, func(w io.Writer, format Format) error {
		return WriteImage(w, img, format)
	})
}

func save(path string, encode func(io.Writer, Format) error) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := encode(file, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return file.Close()
}
