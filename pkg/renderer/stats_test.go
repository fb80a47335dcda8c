package renderer

import (
	"testing"
	"time"

	"github.com/df07/go-smallpt/pkg/core"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red (0.299) + Green (0.587) + Blue (0.114) + Black (0) = 1.0 / 4 = 0.25
	fb := NewFrameBuffer(2, 2)
	fb.Pixels[0] = core.NewVec3(1, 0, 0)
	fb.Pixels[1] = core.NewVec3(0, 1, 0)
	fb.Pixels[2] = core.NewVec3(0, 0, 1)
	fb.Pixels[3] = core.NewVec3(0, 0, 0)

	avgLum := CalculateAverageLuminance(fb)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminance %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_ClampsBrightPixels(t *testing.T) {
	fb := NewFrameBuffer(1, 1)
	fb.Pixels[0] = core.NewVec3(8, 8, 8)

	avgLum := CalculateAverageLuminance(fb)
	if avgLum < 0.9999 || avgLum > 1.0001 {
		t.Errorf("Expected average luminance 1.0, got %f", avgLum)
	}
}

func TestRenderStats_SamplesPerSecond(t *testing.T) {
	stats := RenderStats{TotalSamples: 1000, Duration: 2 * time.Second}
	if stats.SamplesPerSecond() != 500 {
		t.Errorf("Expected 500 samples/s, got %f", stats.SamplesPerSecond())
	}

	if (RenderStats{TotalSamples: 10}).SamplesPerSecond() != 0 {
		t.Error("Expected 0 samples/s for a zero duration")
	}
}
