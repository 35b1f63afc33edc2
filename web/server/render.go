package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderRequest represents the parameters for a render request. Zero sizes
// and sample counts and a negative depth fall back to the server
// configuration, then to the scene.
type RenderRequest struct {
	Scene      string `json:"scene"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Samples    int    `json:"samples"`
	Depth      int    `json:"depth"`
	Target     int    `json:"target"` // Object index to aim at, -1 keeps the scene camera
	Refraction bool   `json:"refraction"`
	Thumbnail  int    `json:"thumbnail"`
	Upload     bool   `json:"upload"`
}

// RenderSummary describes a finished render
type RenderSummary struct {
	RenderID         string  `json:"renderId"`
	Scene            string  `json:"scene"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	MaxDepth         int     `json:"maxDepth"`
	Objects          int     `json:"objects"`
	PrimaryRays      int     `json:"primaryRays"`
	SecondaryRays    int     `json:"secondaryRays"`
	ShadowRays       int     `json:"shadowRays"`
	AverageLuminance float64 `json:"averageLuminance"`
	DurationMs       int64   `json:"durationMs"`
	ImageData        string  `json:"imageData,omitempty"`
	ObjectKey        string  `json:"objectKey,omitempty"`
}

// SSEEvent represents a server-sent event
type SSEEvent struct {
	Type string
	Data string
}

// renderJob is a prepared frame: scene, camera and resolved settings
type renderJob struct {
	id       string
	request  *RenderRequest
	scene    *scene.Scene
	camera   *renderer.Camera
	width    int
	height   int
	sampling renderer.SamplingConfig
}

type renderOutcome struct {
	img   *image.RGBA
	stats renderer.RenderStats
	err   error
}

// handleRender renders a frame and responds with the PNG. Render details are
// reported in X-Render-* headers.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Upload && s.uploader == nil {
		writeJSONError(w, http.StatusBadRequest, publish.ErrS3NotConfigured.Error())
		return
	}

	renderID := uuid.NewString()
	logger := NewWebLogger(renderID, nil)

	job, err := s.prepareRender(renderID, req, logger)
	if err != nil {
		writeJSONError(w, statusForSceneError(err), err.Error())
		return
	}

	outcome := s.runRender(job, logger)
	if outcome.err != nil {
		writeJSONError(w, http.StatusInternalServerError, outcome.err.Error())
		return
	}

	var img image.Image = outcome.img
	if req.Thumbnail > 0 {
		img = publish.Thumbnail(img, req.Thumbnail)
	}
	data, err := publish.EncodePNG(img)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := job.summary(outcome)
	if req.Upload {
		key, err := s.uploader.Upload(r.Context(), job.objectName(), data)
		if err != nil {
			writeJSONError(w, http.StatusBadGateway, err.Error())
			return
		}
		summary.ObjectKey = key
		w.Header().Set("X-Render-Object-Key", key)
	}

	setSummaryHeaders(w, summary)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleRenderStream renders a frame while streaming console output as
// server-sent events. The stream ends with a "complete" event carrying the
// summary and base64 PNG, or an "error" event.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine owns the response
	sseEventChan := make(chan SSEEvent, eventBuffer)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()

	consoleChan, logger, renderID := s.setupConsoleLogging()
	consoleStop := make(chan struct{})
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan, consoleStop)
	}()

	// consoleChan is never closed: an abandoned render may still log to it
	stopConsole := sync.OnceFunc(func() {
		close(consoleStop)
		<-consoleDone
	})
	defer func() {
		stopConsole()
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	job, err := s.prepareRender(renderID, req, logger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	done := make(chan renderOutcome, 1)
	go func() {
		done <- s.runRender(job, logger)
	}()

	var outcome renderOutcome
	select {
	case outcome = <-done:
	case <-ctx.Done():
		log.Printf("[%s] client disconnected, abandoning render", renderID)
		return
	}

	// Flush console output ahead of the final event
	stopConsole()

	if outcome.err != nil {
		s.handleError(ctx, sseEventChan, outcome.err.Error())
		return
	}

	summary := job.summary(outcome)
	summary.ImageData, err = s.imageToBase64PNG(outcome.img)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("failed to encode summary: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates the console channel and logger for one render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger, string) {
	renderID := uuid.NewString()
	consoleChan := make(chan ConsoleMessage, consoleBuffer)
	return consoleChan, NewWebLogger(renderID, consoleChan), renderID
}

// writeSSEEvents writes events until the channel closes or the client leaves
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Check if client is still connected before writing
			select {
			case <-ctx.Done():
				return
			default:
			}

			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events. After stop
// is closed it drains what is already buffered and returns.
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent, stop <-chan struct{}) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			s.forwardConsoleMessage(ctx, consoleMsg, sseEventChan)

		case <-stop:
			for {
				select {
				case consoleMsg := <-consoleChan:
					s.forwardConsoleMessage(ctx, consoleMsg, sseEventChan)
				default:
					return
				}
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

func (s *Server) forwardConsoleMessage(ctx context.Context, consoleMsg ConsoleMessage, sseEventChan chan SSEEvent) {
	data, err := json.Marshal(consoleMsg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
	case <-ctx.Done():
	default:
		// Channel full, skip message to avoid blocking
	}
}

// handleError sends an error event to the client
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}

// parseRenderRequest parses and validates render parameters from the query
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}

	var errs []error
	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, MaxImageSize); err != nil {
		errs = append(errs, err)
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, MaxImageSize); err != nil {
		errs = append(errs, err)
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, MaxSamples); err != nil {
		errs = append(errs, err)
	}
	if req.Depth, err = parseIntParam(query, "depth", -1, 0, MaxDepth); err != nil {
		errs = append(errs, err)
	}
	if req.Target, err = parseIntParam(query, "target", -1, -1, MaxTarget); err != nil {
		errs = append(errs, err)
	}
	if req.Thumbnail, err = parseIntParam(query, "thumbnail", 0, 0, MaxThumbnail); err != nil {
		errs = append(errs, err)
	}
	if req.Refraction, err = parseBoolParam(query, "refraction", true); err != nil {
		errs = append(errs, err)
	}
	if req.Upload, err = parseBoolParam(query, "upload", false); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if req.Scene == "" {
		req.Scene = DefaultScene
	}
	s.applyConfigDefaults(req)
	return req, nil
}

// applyConfigDefaults fills parameters the client left out from the
// server configuration
func (s *Server) applyConfigDefaults(req *RenderRequest) {
	if req.Width == 0 {
		req.Width = s.config.Width
	}
	if req.Height == 0 {
		req.Height = s.config.Height
	}
	if req.Samples == 0 {
		req.Samples = s.config.Samples
	}
	if req.Depth < 0 {
		req.Depth = s.config.Depth
	}
}

// prepareRender builds the scene and camera for a request
func (s *Server) prepareRender(renderID string, req *RenderRequest, logger core.Logger) (*renderJob, error) {
	sc, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}

	width, height, sampling := sc.Resolve(req.Width, req.Height, req.Samples, req.Depth)
	sampling.DisableRefraction = !req.Refraction

	camera := sc.Camera(width, height)
	if req.Target >= 0 {
		aimed, ok := sc.AimCamera(req.Target, width, height)
		if !ok {
			return nil, fmt.Errorf("object %d not found (scene has %d objects)", req.Target, sc.GetPrimitiveCount())
		}
		camera = aimed
	}

	logger.Printf("Render %s: %s scene at %dx%d, %d spp, depth %d\n",
		renderID, sc.Name, width, height, sampling.SamplesPerPixel, sampling.MaxDepth)

	return &renderJob{
		id:       renderID,
		request:  req,
		scene:    sc,
		camera:   camera,
		width:    width,
		height:   height,
		sampling: sampling,
	}, nil
}

// runRender renders the job's frame
func (s *Server) runRender(job *renderJob, logger core.Logger) renderOutcome {
	frameConfig := renderer.DefaultFrameConfig()
	frameConfig.NumWorkers = s.config.Workers

	frame, stats, err := renderer.NewFrameRenderer(job.scene, job.camera, job.width, job.height, job.sampling, frameConfig, logger).Render()
	if err != nil {
		return renderOutcome{err: fmt.Errorf("render failed: %w", err)}
	}
	return renderOutcome{img: frame.Image(), stats: stats}
}

func (j *renderJob) summary(outcome renderOutcome) RenderSummary {
	return RenderSummary{
		RenderID:         j.id,
		Scene:            j.request.Scene,
		Width:            j.width,
		Height:           j.height,
		SamplesPerPixel:  j.sampling.SamplesPerPixel,
		MaxDepth:         j.sampling.MaxDepth,
		Objects:          j.scene.GetPrimitiveCount(),
		PrimaryRays:      outcome.stats.PrimaryRays,
		SecondaryRays:    outcome.stats.SecondaryRays,
		ShadowRays:       outcome.stats.ShadowRays,
		AverageLuminance: renderer.CalculateAverageLuminance(outcome.img),
		DurationMs:       outcome.stats.Duration.Milliseconds(),
	}
}

// objectName is the upload key of the job's image, before the bucket prefix
func (j *renderJob) objectName() string {
	day := time.Now().UTC().Format("2006-01-02")
	return fmt.Sprintf("%s/%s.png", day, j.id)
}

func setSummaryHeaders(w http.ResponseWriter, summary RenderSummary) {
	w.Header().Set("X-Render-Id", summary.RenderID)
	w.Header().Set("X-Render-Size", fmt.Sprintf("%dx%d", summary.Width, summary.Height))
	w.Header().Set("X-Render-Samples", strconv.Itoa(summary.SamplesPerPixel))
	w.Header().Set("X-Render-Depth", strconv.Itoa(summary.MaxDepth))
	w.Header().Set("X-Render-Primary-Rays", strconv.Itoa(summary.PrimaryRays))
	w.Header().Set("X-Render-Secondary-Rays", strconv.Itoa(summary.SecondaryRays))
	w.Header().Set("X-Render-Shadow-Rays", strconv.Itoa(summary.ShadowRays))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(summary.DurationMs, 10))
}

// statusForSceneError maps scene lookup failures to a client error
func statusForSceneError(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
