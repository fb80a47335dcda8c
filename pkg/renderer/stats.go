package renderer

import (
	"time"

	"github.com/df07/go-smallpt/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of radiance estimates
	SamplesPerPixel int           // 4 sub-pixels times samples per sub-pixel
	Rows            int           // Number of row tasks submitted
	Workers         int           // Size of the worker pool
	Duration        time.Duration // Wall time of the render
}

// SamplesPerSecond returns the radiance estimate throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// CalculateAverageLuminance returns the mean linear luminance of the buffer after clamping
func CalculateAverageLuminance(fb *FrameBuffer) float64 {
	if len(fb.Pixels) == 0 {
		return 0
	}

	total := 0.0
	for _, p := range fb.Pixels {
		clamped := core.NewVec3(Clamp(p.X), Clamp(p.Y), Clamp(p.Z))
		total += clamped.Luminance()
	}
	return total / float64(len(fb.Pixels))
}
