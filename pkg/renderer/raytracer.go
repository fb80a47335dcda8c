package renderer

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/geometry"
	"github.com/df07/go-smallpt/pkg/integrator"
	"github.com/df07/go-smallpt/pkg/scene"
)

// SubpixelGrid is the number of sub-pixels along each axis of a pixel
const SubpixelGrid = 2

// RenderConfig contains the frame-level rendering configuration
type RenderConfig struct {
	Width              int   // Image width in pixels
	Height             int   // Image height in pixels
	SamplesPerSubpixel int   // Radiance estimates per sub-pixel
	NumWorkers         int   // Worker goroutines, 0 = runtime.NumCPU()
	Seed               int64 // Row r draws from a sampler seeded Seed + r
	ProgressInterval   int   // Log progress every this many percent of rows, 0 disables it

	// Progress is called after every finished row with the number of rows done so far.
	// It runs on worker goroutines and must be safe for concurrent use.
	Progress func(done, total int)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:              1024,
		Height:             768,
		SamplesPerSubpixel: 1,
		NumWorkers:         0,
		Seed:               0,
		ProgressInterval:   10,
	}
}

// Validate checks the configuration for values that cannot be rendered
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d: width and height must be positive", c.Width, c.Height)
	}
	if c.SamplesPerSubpixel <= 0 {
		return fmt.Errorf("invalid samples per sub-pixel %d: must be positive", c.SamplesPerSubpixel)
	}
	if c.ProgressInterval < 0 || c.ProgressInterval > 100 {
		return fmt.Errorf("invalid progress interval %d: must be between 0 and 100", c.ProgressInterval)
	}
	return nil
}

// Raytracer renders a scene into a frame buffer, one row task per scanline
type Raytracer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	integrator integrator.Integrator
	config     RenderConfig
	logger     core.Logger
}

// NewRaytracer creates a raytracer for the scene. A nil integrator selects the
// path tracer configured from the scene's sampling settings.
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	camera, err := geometry.NewCamera(s.CameraConfig, config.Width, config.Height)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	if integ == nil {
		sampling := s.SamplingConfig
		sampling.SamplesPerSubpixel = config.SamplesPerSubpixel
		integ = integrator.NewPathTracingIntegrator(sampling)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Raytracer{
		scene:      s,
		camera:     camera,
		integrator: integ,
		config:     config,
		logger:     logger,
	}, nil
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// Render traces the full frame and returns it once every row task has finished
func (rt *Raytracer) Render() (*FrameBuffer, RenderStats) {
	startTime := time.Now()

	fb := NewFrameBuffer(rt.config.Width, rt.config.Height)
	rows := fb.Rows()

	pool := NewWorkerPool(rt.config.NumWorkers, len(rows))
	rt.logger.Printf("Rendering %s: %dx%d, %d spp (%d per sub-pixel) using %d workers...\n",
		rt.scene.Name, fb.Width, fb.Height, SubpixelGrid*SubpixelGrid*rt.config.SamplesPerSubpixel,
		rt.config.SamplesPerSubpixel, pool.GetNumWorkers())

	pool.Start()

	var done atomic.Int64
	for _, row := range rows {
		pool.Submit(func() {
			sampler := core.NewSeededSampler(rt.config.Seed + int64(row.Y))
			rt.renderRow(row, sampler)
			rt.reportProgress(int(done.Add(1)), len(rows))
		})
	}

	// Join: the buffer is only read after every row task has returned
	pool.Stop()

	samplesPerPixel := SubpixelGrid * SubpixelGrid * rt.config.SamplesPerSubpixel
	stats := RenderStats{
		TotalPixels:     len(fb.Pixels),
		TotalSamples:    len(fb.Pixels) * samplesPerPixel,
		SamplesPerPixel: samplesPerPixel,
		Rows:            len(rows),
		Workers:         pool.GetNumWorkers(),
		Duration:        time.Since(startTime),
	}

	rt.logger.Printf("Render completed in %v (%.0f samples/s)\n", stats.Duration, stats.SamplesPerSecond())

	return fb, stats
}

// renderRow fills one scanline. Buffer row 0 is the top of the image while
// the camera counts y from the bottom.
func (rt *Raytracer) renderRow(row Row, sampler core.Sampler) {
	y := rt.config.Height - 1 - row.Y
	spp := rt.config.SamplesPerSubpixel
	invSamples := 1.0 / float64(spp)
	subpixelWeight := 1.0 / float64(SubpixelGrid*SubpixelGrid)

	for x := range row.Pixels {
		var pixel core.Vec3
		for sy := 0; sy < SubpixelGrid; sy++ {
			for sx := 0; sx < SubpixelGrid; sx++ {
				var radiance core.Vec3
				for s := 0; s < spp; s++ {
					ray := rt.camera.GetRay(x, y, sx, sy, sampler.Get2D())
					radiance = radiance.Add(rt.integrator.RayColor(ray, rt.scene, sampler).Multiply(invSamples))
				}
				clamped := core.NewVec3(Clamp(radiance.X), Clamp(radiance.Y), Clamp(radiance.Z))
				pixel = pixel.Add(clamped.Multiply(subpixelWeight))
			}
		}
		row.Pixels[x] = pixel
	}
}

// reportProgress logs every ProgressInterval percent of completed rows and
// forwards the count to the configured callback
func (rt *Raytracer) reportProgress(done, total int) {
	if rt.config.Progress != nil {
		rt.config.Progress(done, total)
	}

	interval := rt.config.ProgressInterval
	if interval <= 0 {
		return
	}

	percent := done * 100 / total
	previous := (done - 1) * 100 / total
	if percent/interval != previous/interval {
		rt.logger.Printf("Rendering (%d spp) %3d%% (%d/%d rows)\n",
			SubpixelGrid*SubpixelGrid*rt.config.SamplesPerSubpixel, percent, done, total)
	}
}
