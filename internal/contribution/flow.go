// Package contribution drives one "add a sign" interaction: optional camera
// capture, optional location, validation and the save itself. A Flow owns its
// capture resources and an internal context; Close releases the former and
// cancels the latter, so an abandoned flow never finishes a save.
package contribution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/glosario-lsc/glosario/internal/capture"
	"github.com/glosario-lsc/glosario/internal/geo"
	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/glosario-lsc/glosario/internal/glossary/service"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrClosed           = errors.New("contribution flow closed")
	ErrSubmitInProgress = errors.New("a submit is already in progress")
	ErrNoCaptureDevice  = errors.New("no capture device configured")
)

// Contributor saves a clip against the current snapshot and refreshes it.
type Contributor interface {
	Contribute(ctx context.Context, req service.SaveRequest) (*service.SaveResult, error)
}

// Deps are the collaborators of a flow. Device may be nil when media arrives
// already recorded (SetMedia); a nil Locator behaves as a denied request.
type Deps struct {
	Library  Contributor
	Device   capture.Device
	Locator  geo.Locator
	Cities   *geo.Resolver
	Logger   *zap.Logger
	Location geo.Options
}

// Prefill seeds the word name. Existing marks an alternative sign for a word
// already in the library, in which case the name cannot be changed.
type Prefill struct {
	Name     string
	Existing bool
}

// SubmitRequest carries the user-editable fields at submit time.
type SubmitRequest struct {
	Name string
	Note string
	Test bool
}

type Flow struct {
	deps    Deps
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	session *capture.Session
	prefill Prefill
	locator geo.Locator

	mu          sync.Mutex
	media       *glossary.Blob
	location    *glossary.Location
	locationErr error
	submitting  bool
	closed      bool
}

// Open starts a flow. The name prefill is case-folded, so a Missing token from
// a search can be passed as-is.
func Open(parent context.Context, deps Deps, p Prefill) *Flow {
	ctx, cancel := context.WithCancel(parent)
	p.Name = glossary.NormalizeName(p.Name)
	f := &Flow{
		deps:    deps,
		log:     logger.OrNop(deps.Logger).With(zap.String("prefill", p.Name)),
		ctx:     ctx,
		cancel:  cancel,
		prefill: p,
	}
	if deps.Device != nil {
		f.session = capture.NewSession(deps.Device, capture.DefaultConstraints)
	}
	loc := deps.Locator
	if loc == nil {
		loc = geo.DeniedLocator{}
	}
	opts := deps.Location
	if opts == (geo.Options{}) {
		opts = geo.DefaultOptions
	}
	f.locator = geo.NewCachingLocator(loc, opts)
	return f
}

// Name is the prefilled word name ("" for a blank new word).
func (f *Flow) Name() string { return f.prefill.Name }

// StartCamera opens the capture device. Failure leaves the flow open so the
// user can fix permissions and retry.
func (f *Flow) StartCamera() error {
	if f.isClosed() {
		return ErrClosed
	}
	if f.session == nil {
		return fmt.Errorf("%w: %w", glossary.ErrCaptureUnavailable, ErrNoCaptureDevice)
	}
	if err := f.session.Start(f.ctx); err != nil {
		f.log.Warn("camera unavailable", zap.Error(err))
		return err
	}
	return nil
}

func (f *Flow) StartRecording() error {
	if f.isClosed() {
		return ErrClosed
	}
	if f.session == nil {
		return fmt.Errorf("%w: %w", glossary.ErrCaptureUnavailable, ErrNoCaptureDevice)
	}
	f.mu.Lock()
	f.media = nil
	f.mu.Unlock()
	return f.session.StartRecording()
}

func (f *Flow) StopRecording() error {
	if f.isClosed() {
		return ErrClosed
	}
	if f.session == nil {
		return capture.ErrNotRecording
	}
	blob, err := f.session.StopRecording()
	if err != nil {
		return err
	}
	f.SetMedia(blob)
	return nil
}

// Retake drops the recorded clip and makes sure the camera is live again.
func (f *Flow) Retake() error {
	f.mu.Lock()
	f.media = nil
	f.mu.Unlock()
	return f.StartCamera()
}

// SetMedia supplies a clip recorded elsewhere (e.g. uploaded by a browser).
func (f *Flow) SetMedia(b glossary.Blob) {
	f.mu.Lock()
	f.media = &b
	f.mu.Unlock()
}

// HasMedia reports whether a clip is ready to submit.
func (f *Flow) HasMedia() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media != nil
}

// RequestLocation asks for a position once and resolves it to a city. On
// failure the error wraps glossary.ErrLocationUnavailable and the flow
// continues without a location.
func (f *Flow) RequestLocation() (*glossary.Location, error) {
	if f.isClosed() {
		return nil, ErrClosed
	}
	co, err := f.locator.Locate(f.ctx)
	if err != nil {
		f.mu.Lock()
		f.locationErr = err
		f.location = nil
		f.mu.Unlock()
		f.log.Info("location unavailable, continuing without it", zap.Error(err))
		return nil, err
	}
	loc := &glossary.Location{Latitude: co.Latitude, Longitude: co.Longitude}
	if f.deps.Cities != nil {
		loc.City = f.deps.Cities.CityName(co.Latitude, co.Longitude)
	}
	f.mu.Lock()
	f.location = loc
	f.locationErr = nil
	f.mu.Unlock()
	return loc, nil
}

// LocationError is the last location failure, if any.
func (f *Flow) LocationError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locationErr
}

// ClearLocation drops a previously obtained location.
func (f *Flow) ClearLocation() {
	f.mu.Lock()
	f.location = nil
	f.locationErr = nil
	f.mu.Unlock()
}

// Submit validates and saves. ctx bounds this call; Close cancels it too. On
// success the flow closes itself. A result that arrives after Close is
// discarded and ErrClosed returned.
func (f *Flow) Submit(ctx context.Context, req SubmitRequest) (*service.SaveResult, error) {
	name := req.Name
	if f.prefill.Existing || strings.TrimSpace(name) == "" {
		name = f.prefill.Name
	}
	name = glossary.NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: word name is required", glossary.ErrValidation)
	}

	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return nil, ErrClosed
	case f.submitting:
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	case f.media == nil:
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: record a clip first", glossary.ErrValidation)
	}
	f.submitting = true
	media := *f.media
	location := f.location
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	saveCtx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var note *string
	if n := strings.TrimSpace(req.Note); n != "" {
		note = &n
	}
	res, err := f.deps.Library.Contribute(saveCtx, service.SaveRequest{
		WordName: name,
		Media:    media,
		Note:     note,
		Location: location,
		Test:     req.Test,
	})
	if f.isClosed() {
		f.log.Info("flow closed during submit, discarding result")
		return nil, ErrClosed
	}
	if err != nil {
		f.log.Warn("submit failed", zap.String("word", name), zap.Error(err))
		return nil, err
	}
	f.Close()
	return res, nil
}

// Close cancels any in-flight submit and releases the camera. Idempotent.
func (f *Flow) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.media = nil
	f.mu.Unlock()

	f.cancel()
	if f.session != nil {
		f.session.Release()
	}
}

func (f *Flow) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
