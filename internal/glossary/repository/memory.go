package repository

import (
	"context"
	"sync"
	"time"

	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used for unit tests and for running the
// service without MongoDB.
type MemoryStore struct {
	mu    sync.RWMutex
	words map[string]*glossary.Word
	order []string
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{words: make(map[string]*glossary.Word), now: time.Now}
}

func (m *MemoryStore) ListWords(ctx context.Context) ([]*glossary.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*glossary.Word, 0, len(m.order))
	for _, id := range m.order {
		w := *m.words[id]
		w.Signs = append([]glossary.Sign(nil), w.Signs...)
		out = append(out, &w)
	}
	return out, nil
}

func (m *MemoryStore) CreateWord(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	w := &glossary.Word{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	m.words[w.ID] = w
	m.order = append(m.order, w.ID)
	return w.ID, nil
}

func (m *MemoryStore) CreateSign(ctx context.Context, s NewSign) (*glossary.Sign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.words[s.WordID]
	if !ok {
		return nil, ErrNotFound
	}
	sign := toSign(uuid.NewString(), s)
	sign.CreatedAt = m.now()
	w.Signs = append(w.Signs, sign)
	return &sign, nil
}

func (m *MemoryStore) DeleteAllWords(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words = make(map[string]*glossary.Word)
	m.order = nil
	return nil
}
