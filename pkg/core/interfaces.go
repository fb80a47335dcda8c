package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// SamplingConfig contains the light transport settings shared by the integrator and the renderer
type SamplingConfig struct {
	SamplesPerSubpixel        int // Samples taken in each of the 2x2 sub-pixels
	MaxDepth                  int // Hard recursion cap, 0 disables it
	RussianRouletteMinBounces int // Russian roulette applies once depth exceeds this
	FresnelSplitDepth         int // Dielectrics below this depth trace both branches
}

// DefaultSamplingConfig returns the settings of the classic smallpt renderer
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerSubpixel:        1,
		MaxDepth:                  256, // Safety net for albedo channels of exactly 1
		RussianRouletteMinBounces: 5,
		FresnelSplitDepth:         2,
	}
}
