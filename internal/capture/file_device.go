package capture

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/glosario-lsc/glosario/internal/glossary"
)

// FileDevice plays back a pre-recorded clip as if it were a camera: opening
// the "stream" reads the file, and a recording yields its bytes.
type FileDevice struct {
	Path string
}

type fileStream struct {
	mu      sync.Mutex
	data    []byte
	mime    *mimetype.MIME
	stopped bool
}

func (s *fileStream) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.data = nil
	s.mu.Unlock()
}

func (d FileDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}
	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), "video/") {
		return nil, fmt.Errorf("%s is not a video (%s)", d.Path, m.String())
	}
	return &fileStream{data: data, mime: m}, nil
}

// Supports reports whether the clip on disk already is the requested
// container; a codecs parameter cannot be verified and is accepted.
func (d FileDevice) Supports(mimeType string) bool {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return false
	}
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	return mimetype.Detect(data).Is(base)
}

func (d FileDevice) NewRecorder(s Stream, mimeType string) (Recorder, error) {
	fs, ok := s.(*fileStream)
	if !ok {
		return nil, fmt.Errorf("stream %T does not belong to a file device", s)
	}
	if mimeType == "" {
		mimeType = fs.mime.String()
	}
	return &fileRecorder{stream: fs, mimeType: mimeType}, nil
}

type fileRecorder struct {
	stream    *fileStream
	mimeType  string
	recording bool
}

func (r *fileRecorder) Start() error {
	r.stream.mu.Lock()
	defer r.stream.mu.Unlock()
	if r.stream.stopped {
		return ErrNoStream
	}
	r.recording = true
	return nil
}

func (r *fileRecorder) Stop() (glossary.Blob, error) {
	r.stream.mu.Lock()
	defer r.stream.mu.Unlock()
	r.recording = false
	if r.stream.stopped {
		return glossary.Blob{}, ErrNoStream
	}
	data := append([]byte(nil), r.stream.data...)
	return glossary.Blob{Data: data, ContentType: r.mimeType}, nil
}

func (r *fileRecorder) Recording() bool { return r.recording }
