package scanner

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
)

// Capture capability errors. Only these two surface to the user as a
// persistent camera error message; everything else is absorbed by the loop.
var (
	ErrCameraUnsupported = errors.New("camera capture is not supported")
	ErrCameraDenied      = errors.New("camera access was denied")
)

// Frame is one captured video frame handed to the decoder.
type Frame []byte

// Detection is a single decoded barcode candidate.
type Detection struct {
	RawValue string
	Format   string
}

// FrameSource abstracts camera acquisition and frame capture. Open acquires
// the device, Ready reports whether frames can be captured yet, and Close
// releases the device. Implementations must tolerate Close without Open.
type FrameSource interface {
	Open(ctx context.Context) error
	Ready() bool
	Frame() (Frame, error)
	Close()
}

// Decoder attempts to find barcodes in a frame. Returning no detections or
// an error both mean "no barcode yet", not failure.
type Decoder interface {
	Decode(frame Frame) ([]Detection, error)
}

// Chimer plays audible scan feedback. Implementations must never block for
// long and are allowed to do nothing when audio is unavailable.
type Chimer interface {
	Chime()
}

// WriterChimer rings the terminal bell. Write errors are discarded since
// feedback is best effort only.
type WriterChimer struct {
	W io.Writer
}

func (c *WriterChimer) Chime() {
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	_, _ = w.Write([]byte{0x07})
}

// SimulatedSource is a FrameSource fed programmatically. It backs the
// terminal agent's external-scanner mode and the package tests.
type SimulatedSource struct {
	mu     sync.Mutex
	open   bool
	frames []Frame
}

func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{}
}

func (s *SimulatedSource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	return nil
}

func (s *SimulatedSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && len(s.frames) > 0
}

// Push queues a frame for capture.
func (s *SimulatedSource) Push(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
}

func (s *SimulatedSource) Frame() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || len(s.frames) == 0 {
		return nil, errors.New("no frame available")
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame, nil
}

func (s *SimulatedSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.frames = nil
}
