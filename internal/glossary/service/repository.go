package service

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/glosario-lsc/glosario/internal/glossary/cache"
	"github.com/glosario-lsc/glosario/internal/glossary/repository"
	"github.com/glosario-lsc/glosario/internal/storage"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"github.com/glosario-lsc/glosario/pkg/metrics"
	"go.uber.org/zap"
)

const (
	defaultExt         = "webm"
	defaultContentType = "video/webm"
)

// SaveRequest is one contribution: a clip for a (possibly new) word.
type SaveRequest struct {
	WordName string
	Media    glossary.Blob
	Note     *string
	Location *glossary.Location
	Test     bool
}

// SaveResult describes what a successful save created.
type SaveResult struct {
	WordID      string
	WordName    string
	CreatedWord bool
	MediaKey    string
	Sign        *glossary.Sign
}

// Repository implements the Word Repository contract over a record store and
// an object store: Load, Save and Clear. It holds no snapshot of its own.
type Repository struct {
	store repository.Store
	media storage.MediaStore
	cache cache.SnapshotCache
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*Repository)

// WithCache serves Load from a snapshot cache that every mutation invalidates.
func WithCache(c cache.SnapshotCache) Option { return func(r *Repository) { r.cache = c } }

func WithLogger(l *zap.Logger) Option { return func(r *Repository) { r.log = logger.OrNop(l) } }

// WithClock overrides the time source used for media keys.
func WithClock(now func() time.Time) Option { return func(r *Repository) { r.now = now } }

func New(store repository.Store, media storage.MediaStore, opts ...Option) *Repository {
	r := &Repository{store: store, media: media, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load fetches the complete current state, sorted alphabetically with signs
// newest-first.
func (r *Repository) Load(ctx context.Context) ([]*glossary.Word, error) {
	if r.cache != nil {
		words, err := r.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.SnapshotCache.WithLabelValues("error").Inc()
			r.log.Warn("snapshot cache read failed", zap.Error(err))
		case words != nil:
			metrics.SnapshotCache.WithLabelValues("hit").Inc()
			metrics.RepositoryOps.WithLabelValues("load", "ok").Inc()
			return words, nil
		default:
			metrics.SnapshotCache.WithLabelValues("miss").Inc()
		}
	}

	words, err := r.store.ListWords(ctx)
	if err != nil {
		return nil, r.fail(ctx, "load", "list words", err)
	}
	glossary.SortWords(words)
	metrics.RepositoryOps.WithLabelValues("load", "ok").Inc()
	r.log.Debug("words loaded", zap.Int("count", len(words)))

	if r.cache != nil {
		if err := r.cache.Set(ctx, words); err != nil {
			r.log.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return words, nil
}

// Save stores a new sign, creating the word first when the case-folded name
// is absent from snapshot. The snapshot is trusted as-is: no remote lookup is
// made, so two racing saves of the same new name may both create a word.
//
// Steps after the word insert are not rolled back on failure. The context is
// checked before every remote mutation so an abandoned caller stops the save.
func (r *Repository) Save(ctx context.Context, snapshot []*glossary.Word, req SaveRequest) (*SaveResult, error) {
	name := glossary.NormalizeName(req.WordName)
	if name == "" {
		return nil, fmt.Errorf("%w: word name is empty", glossary.ErrValidation)
	}
	if len(req.Media.Data) == 0 {
		return nil, fmt.Errorf("%w: no media recorded", glossary.ErrValidation)
	}
	if req.Location != nil && !req.Location.Valid() {
		return nil, fmt.Errorf("%w: invalid coordinates", glossary.ErrValidation)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := r.log.With(zap.String("word", name))

	res := &SaveResult{WordName: name}
	if existing := findWord(snapshot, name); existing != nil {
		res.WordID = existing.ID
		log.Debug("using existing word", zap.String("word_id", existing.ID))
	}

	if r.cache != nil {
		defer func() {
			if err := r.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
				log.Warn("snapshot cache invalidate failed", zap.Error(err))
			}
		}()
	}

	if res.WordID == "" {
		id, err := r.store.CreateWord(ctx, name)
		if err != nil {
			return nil, r.fail(ctx, "save", "create word", err)
		}
		res.WordID = id
		res.CreatedWord = true
		metrics.WordsCreated.Inc()
		log.Info("word created", zap.String("word_id", id))
	}

	blob := req.Media
	ext, contentType := mediaType(blob)
	blob.ContentType = contentType
	res.MediaKey = MediaKey(res.WordID, r.now(), ext)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.media.Upload(ctx, res.MediaKey, blob); err != nil {
		return nil, r.fail(ctx, "save", "upload media", err)
	}
	url := r.media.PublicURL(res.MediaKey)

	ns := repository.NewSign{WordID: res.WordID, VideoURL: url, Note: trimNote(req.Note), Test: req.Test}
	if req.Location != nil {
		lat, lng := req.Location.Latitude, req.Location.Longitude
		ns.Latitude, ns.Longitude, ns.City = &lat, &lng, req.Location.City
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sign, err := r.store.CreateSign(ctx, ns)
	if err != nil {
		return nil, r.fail(ctx, "save", "create sign", err)
	}
	res.Sign = sign

	metrics.RepositoryOps.WithLabelValues("save", "ok").Inc()
	log.Info("sign saved",
		zap.String("word_id", res.WordID),
		zap.String("sign_id", sign.ID),
		zap.String("key", res.MediaKey),
		zap.Int64("bytes", blob.Size()),
		zap.Bool("test", req.Test))
	return res, nil
}

// Clear deletes every word and sign. Confirmation is the caller's concern.
// The snapshot cache is invalidated even when the delete fails part way.
func (r *Repository) Clear(ctx context.Context) error {
	if r.cache != nil {
		defer func() {
			if err := r.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
				r.log.Warn("snapshot cache invalidate failed", zap.Error(err))
			}
		}()
	}
	if err := r.store.DeleteAllWords(ctx); err != nil {
		return r.fail(ctx, "clear", "delete all words", err)
	}
	metrics.RepositoryOps.WithLabelValues("clear", "ok").Inc()
	r.log.Info("library cleared")
	return nil
}

func (r *Repository) fail(ctx context.Context, op, step string, err error) error {
	metrics.RepositoryOps.WithLabelValues(op, "error").Inc()
	if cerr := ctx.Err(); cerr != nil {
		r.log.Info("operation abandoned", zap.String("op", op), zap.String("step", step))
		return fmt.Errorf("%s: %w", step, cerr)
	}
	r.log.Error("repository operation failed", zap.String("op", op), zap.String("step", step), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", glossary.ErrRepositoryUnavailable, step, err)
}

// MediaKey builds the object key "<word_id>/<epoch_millis>.<ext>".
func MediaKey(wordID string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/%d.%s", wordID, at.UnixMilli(), ext)
}

func findWord(snapshot []*glossary.Word, name string) *glossary.Word {
	for _, w := range snapshot {
		if glossary.NormalizeName(w.Name) == name {
			return w
		}
	}
	return nil
}

// mediaType picks the file extension and content type for a blob. A declared
// type wins; otherwise the payload is sniffed. Unknown media falls back to webm.
func mediaType(b glossary.Blob) (string, string) {
	if b.ContentType != "" {
		base, _, err := mime.ParseMediaType(b.ContentType)
		if err == nil {
			if m := mimetype.Lookup(base); m != nil && m.Extension() != "" {
				return strings.TrimPrefix(m.Extension(), "."), b.ContentType
			}
		}
	}
	m := mimetype.Detect(b.Data)
	if m.Extension() == "" || m.Is("application/octet-stream") {
		if b.ContentType != "" {
			return defaultExt, b.ContentType
		}
		return defaultExt, defaultContentType
	}
	ct := b.ContentType
	if ct == "" {
		ct = m.String()
	}
	return strings.TrimPrefix(m.Extension(), "."), ct
}

func trimNote(n *string) *string {
	if n == nil {
		return nil
	}
	s := strings.TrimSpace(*n)
	if s == "" {
		return nil
	}
	return &s
}
