package scanner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"resellscan/internal/models"

	"go.uber.org/zap"
)

// Mode selects how barcodes enter the controller.
type Mode string

const (
	ModeCamera Mode = "camera"
	ModeManual Mode = "manual"
)

// Config tunes the controller. PollInterval is the spacing between decode
// attempts while scanning; HistoryLimit caps the local scan log.
type Config struct {
	PollInterval time.Duration
	HistoryLimit int
}

// Controller owns the scan capture lifecycle: camera acquisition, the
// frame-polling loop, barcode decoding, the resolve-and-record pipeline,
// the capped scan history and its filter. One controller serves one user
// on one device.
//
// At most one resolve pipeline invocation is in flight at a time: the
// polling loop stops itself before resolving, and manual submissions are
// rejected while a resolution is outstanding.
type Controller struct {
	source   FrameSource
	decoder  Decoder
	resolver Resolver
	fallback Fallback
	chimer   Chimer
	logger   *zap.Logger
	userID   string

	pollInterval time.Duration

	mu        sync.Mutex
	mode      Mode
	scanning  bool
	resolving bool
	sound     bool
	current   *models.ScanResult
	cameraErr string
	history   *History
	filter    Filter
	loopStop  context.CancelFunc
	loopDone  chan struct{}
}

func NewController(
	source FrameSource,
	decoder Decoder,
	resolver Resolver,
	fallback Fallback,
	chimer Chimer,
	cfg Config,
	userID string,
	logger *zap.Logger,
) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 16 * time.Millisecond
	}
	if fallback == nil {
		fallback = DefaultFallback()
	}
	return &Controller{
		source:       source,
		decoder:      decoder,
		resolver:     resolver,
		fallback:     fallback,
		chimer:       chimer,
		logger:       logger,
		userID:       userID,
		pollInterval: cfg.PollInterval,
		mode:         ModeCamera,
		sound:        true,
		history:      NewHistory(cfg.HistoryLimit),
		filter:       NewFilter(),
	}
}

// Start performs the mount-time side effect for the current mode: camera
// mode acquires the device, manual mode leaves it released.
func (c *Controller) Start(ctx context.Context) {
	if c.Mode() == ModeCamera {
		c.openCamera(ctx)
	}
}

// SetMode switches between camera and manual capture. Entering camera mode
// acquires the device; leaving it stops any running scan and releases the
// device.
func (c *Controller) SetMode(ctx context.Context, mode Mode) {
	c.mu.Lock()
	if c.mode == mode {
		c.mu.Unlock()
		return
	}
	c.mode = mode
	c.mu.Unlock()

	if mode == ModeCamera {
		c.openCamera(ctx)
		return
	}
	c.StopScan()
	c.source.Close()
}

func (c *Controller) openCamera(ctx context.Context) {
	c.mu.Lock()
	c.cameraErr = ""
	c.mu.Unlock()

	err := c.source.Open(ctx)
	if err == nil {
		return
	}

	msg := "Camera is unavailable."
	switch {
	case errors.Is(err, ErrCameraUnsupported):
		msg = "Camera capture is not supported on this device."
	case errors.Is(err, ErrCameraDenied):
		msg = "Camera access was denied. Please enable it in your device settings."
	}
	c.logger.Warn("camera acquisition failed", zap.Error(err))

	c.mu.Lock()
	c.cameraErr = msg
	c.scanning = false
	c.mu.Unlock()
}

// StartScan clears the displayed result and starts the decode polling loop.
// It is a no-op while a scan or resolution is already in progress, or
// outside camera mode.
func (c *Controller) StartScan(ctx context.Context) {
	c.mu.Lock()
	if c.mode != ModeCamera || c.scanning || c.resolving {
		c.mu.Unlock()
		return
	}
	if c.decoder == nil {
		c.cameraErr = "Barcode scanning is not supported on this device."
		c.mu.Unlock()
		return
	}
	c.scanning = true
	c.current = nil

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.loopStop = cancel
	c.loopDone = done
	c.mu.Unlock()

	go func() {
		raw, ok := c.pollLoop(loopCtx)
		c.mu.Lock()
		c.scanning = false
		c.loopStop = nil
		c.loopDone = nil
		if ok {
			c.resolving = true
		}
		c.mu.Unlock()
		close(done)
		if !ok {
			return
		}
		c.process(ctx, raw)
		c.mu.Lock()
		c.resolving = false
		c.mu.Unlock()
	}()
}

// pollLoop attempts one decode per tick until a barcode is found or the
// loop is cancelled. A not-ready source and a decode miss both just wait
// for the next tick.
func (c *Controller) pollLoop(ctx context.Context) (string, bool) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", false
		case <-ticker.C:
		}

		if !c.source.Ready() {
			continue
		}
		frame, err := c.source.Frame()
		if err != nil {
			continue
		}
		detections, err := c.decoder.Decode(frame)
		if err != nil || len(detections) == 0 {
			// Barcode not found yet, keep polling.
			continue
		}

		// A stop that raced the decode wins: discard the detection.
		select {
		case <-ctx.Done():
			return "", false
		default:
		}
		return detections[0].RawValue, true
	}
}

// StopScan cancels the polling loop. When it returns, no further decode
// attempt will fire.
func (c *Controller) StopScan() {
	c.mu.Lock()
	stop := c.loopStop
	done := c.loopDone
	c.scanning = false
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	if done != nil {
		<-done
	}
}

// Submit runs the resolve pipeline for a manually entered barcode.
// Whitespace is trimmed; empty input and submissions while another
// resolution is in flight are ignored.
func (c *Controller) Submit(ctx context.Context, barcode string) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return
	}

	c.mu.Lock()
	if c.resolving {
		c.mu.Unlock()
		return
	}
	c.resolving = true
	c.mu.Unlock()

	c.process(ctx, barcode)

	c.mu.Lock()
	c.resolving = false
	c.mu.Unlock()
}

// process is the resolve-and-record pipeline shared by camera and manual
// scans: remote lookup, fallback on failure, history append, chime. A
// definite not-found clears the display and records nothing.
func (c *Controller) process(ctx context.Context, barcode string) {
	result, err := c.resolver.Resolve(ctx, barcode, c.userID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.mu.Lock()
			c.current = nil
			c.mu.Unlock()
			return
		}

		c.logger.Warn("product lookup failed, using fallback",
			zap.String("barcode", barcode),
			zap.Error(err),
		)
		fb, ok := c.fallback.Lookup(barcode)
		if !ok {
			fb = DefaultResult()
		}
		fb.UserID = c.userID
		result = &fb
	}

	c.mu.Lock()
	c.current = result
	c.history.Append(barcode, *result, time.Now())
	sound := c.sound
	c.mu.Unlock()

	if sound {
		c.chime()
	}
}

// chime is best effort: a missing or panicking audio capability must never
// take down the controller.
func (c *Controller) chime() {
	defer func() {
		_ = recover()
	}()
	if c.chimer == nil {
		return
	}
	c.chimer.Chime()
}

// Close stops scanning and releases the capture device.
func (c *Controller) Close() {
	c.StopScan()
	c.source.Close()
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Scanning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scanning
}

// Current returns the currently displayed result, or nil after a reset or
// an empty-result scan.
func (c *Controller) Current() *models.ScanResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	result := *c.current
	return &result
}

// CameraError returns the persistent capture error message, or "".
func (c *Controller) CameraError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cameraErr
}

func (c *Controller) SetSound(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sound = enabled
}

func (c *Controller) SoundEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sound
}

// History returns the scan log, most recent first.
func (c *Controller) History() []models.HistoryItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Items()
}

// FilteredHistory returns the scan log entries matching the active filter.
func (c *Controller) FilteredHistory() []models.HistoryItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Filtered(c.filter)
}

func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller) SetFilter(filter Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

// ClearFilter resets itemType and recommendation to "all" and removes the
// user and date bounds.
func (c *Controller) ClearFilter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = NewFilter()
}

// Users lists the distinct user ids present in the history, for filter UI
// options.
func (c *Controller) Users() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Users()
}
