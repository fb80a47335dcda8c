package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-smallpt/pkg/core"
	"github.com/df07/go-smallpt/pkg/output"
	"github.com/df07/go-smallpt/pkg/renderer"
	"github.com/df07/go-smallpt/pkg/scene"
)

const (
	defaultScene          = "cornell"
	minImageSize          = 1
	maxImageSize          = 2048
	maxSamplesPerSubpixel = 4096
	maxWorkers            = 256
	maxZoom               = 16
)

var contentTypes = map[output.Format]string{
	output.PPM:  "image/x-portable-pixmap",
	output.PNG:  "image/png",
	output.BMP:  "image/bmp",
	output.TIFF: "image/tiff",
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene              string        `json:"scene"`
	Width              int           `json:"width"`
	Height             int           `json:"height"`
	SamplesPerSubpixel int           `json:"samplesPerSubpixel"`
	Workers            int           `json:"workers"`
	Seed               int64         `json:"seed"`
	Format             output.Format `json:"format"`
	Zoom               int           `json:"zoom"`
}

// ProgressUpdate is sent after every finished row
type ProgressUpdate struct {
	RowsDone  int   `json:"rowsDone"`
	TotalRows int   `json:"totalRows"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int64   `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	Workers          int     `json:"workers"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// parseRenderRequest parses request parameters, falling back to the scene defaults for the image size
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	query := r.URL.Query()

	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = defaultScene
	}

	sceneObj, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, nil, err
	}

	if req.Width, err = parseIntParam(query, "width", sceneObj.Width, minImageSize, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(query, "height", sceneObj.Height, minImageSize, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.SamplesPerSubpixel, err = parseIntParam(query, "spp", 1, 1, maxSamplesPerSubpixel); err != nil {
		return nil, nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, maxWorkers); err != nil {
		return nil, nil, err
	}

	if req.Zoom, err = parseIntParam(query, "zoom", 1, 1, maxZoom); err != nil {
		return nil, nil, err
	}

	seed, err := parseIntParam(query, "seed", 0, 0, int(^uint32(0)>>1))
	if err != nil {
		return nil, nil, err
	}
	req.Seed = int64(seed)

	req.Format = output.PNG
	if name := query.Get("format"); name != "" {
		if req.Format, err = output.ParseFormat(name); err != nil {
			return nil, nil, err
		}
	}

	return req, sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// newRaytracer builds the raytracer for a parsed request
func newRaytracer(req *RenderRequest, sceneObj *scene.Scene, logger core.Logger, progress func(done, total int)) (*renderer.Raytracer, error) {
	config := renderer.DefaultRenderConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.SamplesPerSubpixel = req.SamplesPerSubpixel
	config.NumWorkers = req.Workers
	config.Seed = req.Seed
	config.Progress = progress

	return renderer.NewRaytracer(sceneObj, nil, config, logger)
}

// handleImage renders synchronously and returns the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	raytracer, err := newRaytracer(req, sceneObj, NewWebLogger(newRenderID(), nil), nil)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	fb, _ := raytracer.Render()

	var buf bytes.Buffer
	if req.Zoom > 1 {
		err = output.WriteImage(&buf, output.Upscale(fb.Image(), req.Zoom), req.Format)
	} else {
		err = output.Write(&buf, fb, req.Format)
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRender renders while streaming console and row progress events via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Single writer goroutine owns the response
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	progress := func(done, total int) {
		data, _ := json.Marshal(ProgressUpdate{
			RowsDone:  done,
			TotalRows: total,
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
		// Drop progress rather than stall a worker on a slow client
		select {
		case sseEventChan <- SSEEvent{Type: "progress", Data: string(data)}:
		default:
		}
	}

	raytracer, err := newRaytracer(req, sceneObj, NewWebLogger(newRenderID(), consoleChan), progress)
	if err != nil {
		close(consoleChan)
		<-consoleDone
		s.sendEvent(ctx, sseEventChan, "error", err.Error())
		return
	}

	fb, stats := raytracer.Render()

	close(consoleChan)
	<-consoleDone

	imageData, err := imageToBase64PNG(fb)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	data, err := json.Marshal(CompleteUpdate{
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:      stats.TotalPixels,
			TotalSamples:     int64(stats.TotalSamples),
			SamplesPerPixel:  stats.SamplesPerPixel,
			Workers:          stats.Workers,
			SamplesPerSecond: stats.SamplesPerSecond(),
			AverageLuminance: renderer.CalculateAverageLuminance(fb),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", err.Error())
		return
	}
	s.sendEvent(ctx, sseEventChan, "complete", string(data))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType, data string) {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// writeSSEEvents writes all SSE events from a single goroutine
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	clientGone := false
	for event := range sseEventChan {
		// Keep draining after a disconnect so senders never block
		if clientGone || ctx.Err() != nil {
			clientGone = true
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			clientGone = true
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards logger output until the console channel is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		s.sendEvent(ctx, sseEventChan, "console", string(data))
	}
}

// imageToBase64PNG converts a frame to base64-encoded PNG
func imageToBase64PNG(fb *renderer.FrameBuffer) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, fb.Image()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}
