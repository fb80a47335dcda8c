package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/output"
	"github.com/df07/go-smallpt/pkg/renderer"
	"github.com/df07/go-smallpt/pkg/scene"
)

// Config holds the parsed command line
type Config struct {
	SceneType          string
	Width              int
	Height             int
	SamplesPerSubpixel int
	NumWorkers         int
	Seed               int64
	OutputPath         string
	Zoom               int
	Help               bool
}

func main() {
	config, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if config.Help {
		showHelp()
		return
	}

	if err := run(config, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// newFlagSet binds the command line flags to config
func newFlagSet(config *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("smallpt", flag.ContinueOnError)
	fs.StringVar(&config.SceneType, "scene", "cornell", "Scene type: "+strings.Join(scene.Names(), ", "))
	fs.IntVar(&config.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&config.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&config.SamplesPerSubpixel, "samples", 0, "Samples per sub-pixel (overrides the positional total)")
	fs.IntVar(&config.NumWorkers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.Int64Var(&config.Seed, "seed", 0, "Base random seed; row r uses seed+r")
	fs.StringVar(&config.OutputPath, "output", "", "Output file (.ppm, .png, .bmp, .tif); default output/<scene>/render_<timestamp>.ppm")
	fs.IntVar(&config.Zoom, "zoom", 1, "Enlarge the saved image by this integer factor (nearest neighbour)")
	fs.BoolVar(&config.Help, "help", false, "Show help information")
	return fs
}

// parseFlags reads the flags plus one optional positional argument: the total
// samples per pixel, which is split evenly across the 2x2 sub-pixel grid
func parseFlags(args []string) (Config, error) {
	config := Config{}
	fs := newFlagSet(&config)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch fs.NArg() {
	case 0:
		if config.SamplesPerSubpixel == 0 {
			config.SamplesPerSubpixel = 1
		}
	case 1:
		total, err := strconv.Atoi(fs.Arg(0))
		if err != nil || total < 0 {
			return Config{}, fmt.Errorf("invalid sample count %q: must be a non-negative integer", fs.Arg(0))
		}
		if config.SamplesPerSubpixel == 0 {
			config.SamplesPerSubpixel = max(total/4, 1)
		}
	default:
		return Config{}, fmt.Errorf("expected at most one positional argument, got %d", fs.NArg())
	}

	return config, nil
}

func showHelp() {
	fmt.Println("smallpt path tracer")
	fmt.Println("Usage: smallpt [options] [samples-per-pixel]")
	fmt.Println()
	fmt.Println("Options:")
	fs := newFlagSet(&Config{})
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-10s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("The positional sample count is per pixel and is divided by 4 for the 2x2 sub-pixel grid.")
}

// run renders the configured scene and writes the image
func run(config Config, logger core.Logger) error {
	sceneObj, err := createScene(config.SceneType)
	if err != nil {
		return err
	}

	renderConfig := renderer.DefaultRenderConfig()
	renderConfig.Width = sceneObj.Width
	renderConfig.Height = sceneObj.Height
	if config.Width > 0 {
		renderConfig.Width = config.Width
	}
	if config.Height > 0 {
		renderConfig.Height = config.Height
	}
	renderConfig.SamplesPerSubpixel = config.SamplesPerSubpixel
	renderConfig.NumWorkers = config.NumWorkers
	renderConfig.Seed = config.Seed

	outputPath := config.OutputPath
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = filepath.Join("output", config.SceneType, fmt.Sprintf("render_%s.ppm", timestamp))
	}
	if _, err := output.FormatFromPath(outputPath); err != nil {
		return err
	}

	raytracer, err := renderer.NewRaytracer(sceneObj, nil, renderConfig, logger)
	if err != nil {
		return err
	}

	fb, stats := raytracer.Render()
	logger.Printf("Samples per pixel: %d, total samples: %d, average luminance: %.4f\n",
		stats.SamplesPerPixel, stats.TotalSamples, renderer.CalculateAverageLuminance(fb))

	if config.Zoom > 1 {
		err = output.SaveImage(outputPath, output.Upscale(fb.Image(), config.Zoom))
	} else {
		err = output.Save(outputPath, fb)
	}
	if err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", outputPath)
	return nil
}

// createScene creates a scene based on the scene type string
func createScene(sceneType string) (*scene.Scene, error) {
	return scene.Lookup(sceneType)
}
