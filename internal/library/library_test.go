package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/glosario-lsc/glosario/internal/glossary/repository"
	"github.com/glosario-lsc/glosario/internal/glossary/service"
	"github.com/glosario-lsc/glosario/internal/matcher"
	"github.com/glosario-lsc/glosario/internal/storage"
	"github.com/stretchr/testify/require"
)

var clip = glossary.Blob{Data: []byte("clip"), ContentType: "video/webm"}

func newLibrary(t *testing.T) (*Library, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	lib := New(service.New(store, storage.NewMemoryStorage("")), nil)
	require.NoError(t, lib.Refresh(context.Background()))
	return lib, store
}

func TestContributeRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)
	require.True(t, lib.Loaded())
	require.Empty(t, lib.Words())

	res, err := lib.Contribute(ctx, service.SaveRequest{WordName: "Hola", Media: clip})
	require.NoError(t, err)
	require.True(t, res.CreatedWord)
	require.Len(t, lib.Words(), 1)

	// second contribution for the same name appends to the existing word
	res2, err := lib.Contribute(ctx, service.SaveRequest{WordName: "HOLA", Media: clip})
	require.NoError(t, err)
	require.False(t, res2.CreatedWord)
	require.Equal(t, res.WordID, res2.WordID)

	w, ok := lib.Lookup("hola")
	require.True(t, ok)
	require.Len(t, w.Signs, 2)
}

func TestSearchScenarios(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	// empty library, empty query
	res := lib.Search("")
	require.False(t, res.Active)
	require.Equal(t, StateEmptyLibrary, lib.State(res))

	for _, n := range []string{"hola", "gracias"} {
		_, err := lib.Contribute(ctx, service.SaveRequest{WordName: n, Media: clip})
		require.NoError(t, err)
	}

	res = lib.Search("")
	require.Equal(t, StateResults, lib.State(res))

	res = lib.Search("Hola Mundo")
	require.Len(t, res.Items, 2)
	require.Equal(t, matcher.Found, res.Items[0].Kind)
	require.Equal(t, "hola", res.Items[0].Word.Name)
	require.Equal(t, matcher.Missing, res.Items[1].Kind)
	require.Equal(t, "mundo", res.Items[1].Token)
	require.True(t, res.IsMultiWordPhrase)
	require.Equal(t, StateResults, lib.State(res))

	res = lib.Search("perro gato")
	require.Equal(t, StateNoMatches, lib.State(res))
}

func TestClearEmptiesSnapshot(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)
	_, err := lib.Contribute(ctx, service.SaveRequest{WordName: "casa", Media: clip})
	require.NoError(t, err)

	require.NoError(t, lib.Clear(ctx))
	require.Empty(t, lib.Words())
	_, ok := lib.Lookup("casa")
	require.False(t, ok)
}

type brokenRepo struct {
	words   []*glossary.Word
	loadErr error
}

func (b *brokenRepo) Load(ctx context.Context) ([]*glossary.Word, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.words, nil
}

func (b *brokenRepo) Save(ctx context.Context, snapshot []*glossary.Word, req service.SaveRequest) (*service.SaveResult, error) {
	return nil, glossary.ErrRepositoryUnavailable
}

func (b *brokenRepo) Clear(ctx context.Context) error { return nil }

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := &brokenRepo{words: []*glossary.Word{{ID: "1", Name: "sol"}}}
	lib := New(repo, nil)
	require.NoError(t, lib.Refresh(ctx))

	repo.loadErr = errors.Join(glossary.ErrRepositoryUnavailable, errors.New("dns"))
	err := lib.Refresh(ctx)
	require.ErrorIs(t, err, glossary.ErrRepositoryUnavailable)
	require.Len(t, lib.Words(), 1)

	_, err = lib.Contribute(ctx, service.SaveRequest{WordName: "luna", Media: clip})
	require.ErrorIs(t, err, glossary.ErrRepositoryUnavailable)

	// clear succeeded remotely but the refresh failed: snapshot is emptied anyway
	require.NoError(t, lib.Clear(ctx))
	require.Empty(t, lib.Words())
}

func TestContributeSeesWordsSavedElsewhere(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	media := storage.NewMemoryStorage("")
	server := New(service.New(store, media), nil)
	other := New(service.New(store, media), nil)
	require.NoError(t, server.Refresh(ctx))
	require.NoError(t, other.Refresh(ctx))

	first, err := other.Contribute(ctx, service.SaveRequest{WordName: "hola", Media: clip})
	require.NoError(t, err)
	require.True(t, first.CreatedWord)

	// server still holds the empty snapshot from before the other write
	res, err := server.Contribute(ctx, service.SaveRequest{WordName: "Hola", Media: clip})
	require.NoError(t, err)
	require.False(t, res.CreatedWord)
	require.Equal(t, first.WordID, res.WordID)

	words, err := store.ListWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.Len(t, words[0].Signs, 2)
}

type countingRepo struct {
	Repository
	loads int
}

func (c *countingRepo) Load(ctx context.Context) ([]*glossary.Word, error) {
	c.loads++
	return c.Repository.Load(ctx)
}

func TestSyncHonoursMaxAge(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	repo := &countingRepo{Repository: service.New(repository.NewMemoryStore(), storage.NewMemoryStorage(""))}
	lib := New(repo, nil, WithMaxAge(5*time.Second), WithClock(func() time.Time { return now }))

	require.NoError(t, lib.Sync(ctx))
	require.NoError(t, lib.Sync(ctx))
	require.Equal(t, 1, repo.loads, "young snapshot reused")

	now = now.Add(5 * time.Second)
	require.NoError(t, lib.Sync(ctx))
	require.Equal(t, 2, repo.loads)

	always := New(repo, nil)
	require.NoError(t, always.Sync(ctx))
	require.NoError(t, always.Sync(ctx))
	require.Equal(t, 4, repo.loads, "zero max age reloads every time")
}

func TestStateString(t *testing.T) {
	require.Equal(t, "results", StateResults.String())
	require.Equal(t, "no_matches", StateNoMatches.String())
	require.Equal(t, "empty_library", StateEmptyLibrary.String())
}
