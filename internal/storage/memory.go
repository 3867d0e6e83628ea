package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/glosario-lsc/glosario/internal/glossary"
)

// MemoryStorage keeps objects in process memory. Public URLs point at the
// service's own /media route.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]glossary.Blob
	baseURL string
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &MemoryStorage{objects: make(map[string]glossary.Blob), baseURL: strings.TrimRight(baseURL, "/")}
}

func (m *MemoryStorage) Upload(ctx context.Context, key string, blob glossary.Blob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := append([]byte(nil), blob.Data...)
	m.mu.Lock()
	m.objects[key] = glossary.Blob{Data: data, ContentType: blob.ContentType}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) PublicURL(key string) string {
	return m.baseURL + "/" + key
}

func (m *MemoryStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.RLock()
	b, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b.Data)), b.ContentType, nil
}

// Keys lists stored object keys.
func (m *MemoryStorage) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}
