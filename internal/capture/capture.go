// Package capture models the camera collaborator: a device that opens a video
// stream and records it into a blob. A Session owns the stream and the active
// recorder and releases both on every exit path.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/glosario-lsc/glosario/internal/glossary"
)

const (
	// PreferredType is requested first; devices that cannot produce it record
	// in their default container.
	PreferredType = "video/webm;codecs=vp9"
	DefaultType   = "video/webm"
)

var (
	ErrNoStream     = errors.New("camera is not active")
	ErrNotRecording = errors.New("not recording")
	ErrReleased     = errors.New("capture session released")
)

// Constraints describe the requested stream.
type Constraints struct {
	FacingMode string
	Width      int
	Height     int
	Audio      bool
}

// DefaultConstraints: video only, front camera, 640x480 ideal.
var DefaultConstraints = Constraints{FacingMode: "user", Width: 640, Height: 480}

// Stream is an open camera stream. Stop releases the device.
type Stream interface {
	Stop()
}

// Recorder records a stream. MimeType "" means the device default.
type Recorder interface {
	Start() error
	// Stop ends the recording and returns the captured media.
	Stop() (glossary.Blob, error)
	Recording() bool
}

// Device is a camera.
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
	Supports(mimeType string) bool
	NewRecorder(s Stream, mimeType string) (Recorder, error)
}

// Session holds at most one stream and one recorder.
type Session struct {
	dev         Device
	constraints Constraints

	mu       sync.Mutex
	stream   Stream
	recorder Recorder
	released bool
}

func NewSession(dev Device, c Constraints) *Session {
	return &Session{dev: dev, constraints: c}
}

// Start opens the camera if it is not already open. Errors wrap
// glossary.ErrCaptureUnavailable; the session stays usable for a retry.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	if s.stream != nil {
		return nil
	}
	st, err := s.dev.Open(ctx, s.constraints)
	if err != nil {
		return fmt.Errorf("%w: %w", glossary.ErrCaptureUnavailable, err)
	}
	s.stream = st
	return nil
}

// Active reports whether a stream is open.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// StartRecording begins a new recording, discarding any previous one.
func (s *Session) StartRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	if s.stream == nil {
		return fmt.Errorf("%w: %w", glossary.ErrCaptureUnavailable, ErrNoStream)
	}
	s.stopRecorderLocked()

	mimeType := ""
	if s.dev.Supports(PreferredType) {
		mimeType = PreferredType
	}
	rec, err := s.dev.NewRecorder(s.stream, mimeType)
	if err != nil {
		return fmt.Errorf("%w: %w", glossary.ErrCaptureUnavailable, err)
	}
	if err := rec.Start(); err != nil {
		return fmt.Errorf("%w: %w", glossary.ErrCaptureUnavailable, err)
	}
	s.recorder = rec
	return nil
}

// Recording reports whether a recorder is running.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder != nil && s.recorder.Recording()
}

// StopRecording ends the current recording and returns its blob. A blob
// without a content type gets DefaultType.
func (s *Session) StopRecording() (glossary.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorder == nil || !s.recorder.Recording() {
		return glossary.Blob{}, ErrNotRecording
	}
	blob, err := s.recorder.Stop()
	s.recorder = nil
	if err != nil {
		return glossary.Blob{}, fmt.Errorf("%w: %w", glossary.ErrCaptureUnavailable, err)
	}
	if blob.ContentType == "" {
		blob.ContentType = DefaultType
	}
	return blob, nil
}

// Release stops the recorder and the stream. Safe to call more than once.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRecorderLocked()
	if s.stream != nil {
		s.stream.Stop()
		s.stream = nil
	}
	s.released = true
}

func (s *Session) stopRecorderLocked() {
	if s.recorder != nil && s.recorder.Recording() {
		_, _ = s.recorder.Stop()
	}
	s.recorder = nil
}
