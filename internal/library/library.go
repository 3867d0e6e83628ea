// Package library holds the in-memory snapshot of the glossary and keeps it in
// step with the Word Repository: reads resync once the snapshot is older than
// the configured age, and every mutation is preceded and followed by a
// wholesale refresh.
package library

import (
	"context"
	"sync"
	"time"

	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/glosario-lsc/glosario/internal/glossary/service"
	"github.com/glosario-lsc/glosario/internal/matcher"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"github.com/glosario-lsc/glosario/pkg/metrics"
	"go.uber.org/zap"
)

// Repository is the subset of the Word Repository the library drives.
type Repository interface {
	Load(ctx context.Context) ([]*glossary.Word, error)
	Save(ctx context.Context, snapshot []*glossary.Word, req service.SaveRequest) (*service.SaveResult, error)
	Clear(ctx context.Context) error
}

// State is what a listing screen should render.
type State int

const (
	StateResults State = iota
	// StateNoMatches: a search is active but none of its words exist.
	StateNoMatches
	// StateEmptyLibrary: no search and no words at all.
	StateEmptyLibrary
)

func (s State) String() string {
	switch s {
	case StateNoMatches:
		return "no_matches"
	case StateEmptyLibrary:
		return "empty_library"
	}
	return "results"
}

// Library is safe for concurrent use. The snapshot slice is replaced on
// refresh and never mutated, so callers may keep what Words returns.
type Library struct {
	repo   Repository
	log    *zap.Logger
	maxAge time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	snapshot []*glossary.Word
	loaded   bool
	loadedAt time.Time
}

type Option func(*Library)

// WithMaxAge lets Sync reuse a snapshot younger than d. Zero reloads on every
// Sync; the repository's snapshot cache keeps that cheap.
func WithMaxAge(d time.Duration) Option { return func(l *Library) { l.maxAge = d } }

func WithClock(now func() time.Time) Option { return func(l *Library) { l.now = now } }

func New(repo Repository, log *zap.Logger, opts ...Option) *Library {
	l := &Library{repo: repo, log: logger.OrNop(log), now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Refresh reloads the whole snapshot. On failure the previous snapshot is kept.
func (l *Library) Refresh(ctx context.Context) error {
	words, err := l.repo.Load(ctx)
	if err != nil {
		l.log.Warn("refresh failed, keeping previous snapshot", zap.Error(err))
		return err
	}
	l.mu.Lock()
	l.snapshot = words
	l.loaded = true
	l.loadedAt = l.now()
	l.mu.Unlock()
	return nil
}

// Sync refreshes the snapshot unless it was loaded less than the max age ago.
// Other processes writing to the same store become visible this way.
func (l *Library) Sync(ctx context.Context) error {
	l.mu.RLock()
	fresh := l.loaded && l.maxAge > 0 && l.now().Sub(l.loadedAt) < l.maxAge
	l.mu.RUnlock()
	if fresh {
		return nil
	}
	return l.Refresh(ctx)
}

// Loaded reports whether at least one refresh succeeded.
func (l *Library) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Words returns the current snapshot.
func (l *Library) Words() []*glossary.Word {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

// Lookup finds a word by case-insensitive name in the snapshot.
func (l *Library) Lookup(name string) (*glossary.Word, bool) {
	key := glossary.NormalizeName(name)
	for _, w := range l.Words() {
		if w.Name == key {
			return w, true
		}
	}
	return nil, false
}

// Search matches query against the current snapshot.
func (l *Library) Search(query string) matcher.Result {
	res := matcher.Match(query, l.Words())
	for _, it := range res.Items {
		metrics.SearchTokens.WithLabelValues(it.Kind.String()).Inc()
	}
	return res
}

// State classifies what a listing should render for res.
func (l *Library) State(res matcher.Result) State {
	if res.Active {
		if res.HasFoundAny {
			return StateResults
		}
		return StateNoMatches
	}
	if len(l.Words()) == 0 {
		return StateEmptyLibrary
	}
	return StateResults
}

// Contribute reloads the snapshot, saves a clip against it and refreshes
// again. The reload is unconditional so a word created elsewhere is reused
// instead of duplicated. A failed refresh after a successful save is logged,
// not returned: the save itself went through.
func (l *Library) Contribute(ctx context.Context, req service.SaveRequest) (*service.SaveResult, error) {
	if err := l.Refresh(ctx); err != nil {
		return nil, err
	}
	res, err := l.repo.Save(ctx, l.Words(), req)
	if err != nil {
		return nil, err
	}
	if err := l.Refresh(ctx); err != nil {
		l.log.Warn("saved but could not refresh", zap.String("word", res.WordName), zap.Error(err))
	}
	return res, nil
}

// Clear empties the repository and refreshes.
func (l *Library) Clear(ctx context.Context) error {
	if err := l.repo.Clear(ctx); err != nil {
		return err
	}
	if err := l.Refresh(ctx); err != nil {
		// the remote side is empty even if we could not confirm it
		l.mu.Lock()
		l.snapshot = []*glossary.Word{}
		l.mu.Unlock()
	}
	return nil
}
