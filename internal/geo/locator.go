package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glosario-lsc/glosario/internal/glossary"
)

// ErrDenied is returned by locators when the user refused to share a position.
var ErrDenied = errors.New("geolocation permission denied")

// Coordinates is one position reading.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

// Locator performs a one-shot position request.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Options bound a position request.
type Options struct {
	// Timeout caps a single request.
	Timeout time.Duration
	// MaximumAge is how old a cached reading may be and still be returned.
	MaximumAge time.Duration
}

var DefaultOptions = Options{Timeout: 10 * time.Second, MaximumAge: 10 * time.Minute}

// StaticLocator returns fixed coordinates, e.g. those sent by a browser.
type StaticLocator struct {
	Latitude, Longitude float64
}

func (s StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	return Coordinates{Latitude: s.Latitude, Longitude: s.Longitude, At: time.Now()}, nil
}

// DeniedLocator always refuses; used when no position source is configured.
type DeniedLocator struct{}

func (DeniedLocator) Locate(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrDenied
}

// CachingLocator wraps a Locator with a timeout and a cached-reading window.
// Every failure is reported as glossary.ErrLocationUnavailable.
type CachingLocator struct {
	inner Locator
	opts  Options
	now   func() time.Time

	mu   sync.Mutex
	last *Coordinates
}

func NewCachingLocator(inner Locator, opts Options) *CachingLocator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions.Timeout
	}
	if opts.MaximumAge < 0 {
		opts.MaximumAge = 0
	}
	return &CachingLocator{inner: inner, opts: opts, now: time.Now}
}

func (c *CachingLocator) Locate(ctx context.Context) (Coordinates, error) {
	c.mu.Lock()
	if c.last != nil && c.now().Sub(c.last.At) <= c.opts.MaximumAge {
		cached := *c.last
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	type reading struct {
		coords Coordinates
		err    error
	}
	ch := make(chan reading, 1)
	go func() {
		co, err := c.inner.Locate(ctx)
		ch <- reading{co, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return Coordinates{}, fmt.Errorf("%w: %w", glossary.ErrLocationUnavailable, r.err)
		}
		if r.coords.At.IsZero() {
			r.coords.At = c.now()
		}
		c.mu.Lock()
		c.last = &r.coords
		c.mu.Unlock()
		return r.coords, nil
	case <-ctx.Done():
		return Coordinates{}, fmt.Errorf("%w: %w", glossary.ErrLocationUnavailable, ctx.Err())
	}
}
