package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glosario-lsc/glosario/internal/geo"
	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/glosario-lsc/glosario/internal/glossary/repository"
	"github.com/glosario-lsc/glosario/internal/glossary/service"
	"github.com/glosario-lsc/glosario/internal/library"
	"github.com/glosario-lsc/glosario/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(t *testing.T) (*gin.Engine, *storage.MemoryStorage) {
	t.Helper()
	media := storage.NewMemoryStorage("")
	lib := library.New(service.New(repository.NewMemoryStore(), media), nil)
	g := gin.New()
	NewWordsHandler(lib, media, geo.NewResolver(nil, 0), geo.Options{}, 1<<20, nil).Register(g.Group("/"))
	return g, media
}

func uploadSign(t *testing.T, g *gin.Engine, name string, fields map[string]string, video []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if video != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="video"; filename="clip.webm"`)
		h.Set("Content-Type", "video/webm")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(video)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/words/%s/signs", name), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func get(g *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAddSignAndList(t *testing.T) {
	g, media := newTestRouter(t)

	w := get(g, "/api/words")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"empty_library"`)

	w = uploadSign(t, g, "Hola", map[string]string{"note": "saludo", "latitude": "4.6097", "longitude": "-74.0817"}, []byte("clip-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hola", created["word"])
	assert.Equal(t, "Hola", created["displayName"])
	sign := created["sign"].(map[string]interface{})
	assert.Equal(t, "saludo", sign["note"])
	assert.Equal(t, "Bogotá", sign["location"].(map[string]interface{})["city"])

	// a second clip for the same word reuses it
	w = uploadSign(t, g, "HOLA", map[string]string{"test": "true"}, []byte("clip-2"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = uploadSign(t, g, "agua", nil, []byte("clip-3"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = get(g, "/api/words")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Words []struct {
			Name        string          `json:"name"`
			DisplayName string          `json:"displayName"`
			Signs       []glossary.Sign `json:"signs"`
		} `json:"words"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Words, 2)
	assert.Equal(t, "agua", list.Words[0].Name)
	assert.Equal(t, "hola", list.Words[1].Name)
	require.Len(t, list.Words[1].Signs, 2)
	assert.False(t, list.Words[1].Signs[0].CreatedAt.Before(list.Words[1].Signs[1].CreatedAt), "newest sign first")
	assert.Len(t, media.Keys(), 3)

	w = get(g, "/api/words/Agua")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"displayName":"Agua"`)

	w = get(g, "/api/words/fuego")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddSignValidation(t *testing.T) {
	g, media := newTestRouter(t)

	w := uploadSign(t, g, "hola", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = uploadSign(t, g, "hola", map[string]string{"latitude": "91", "longitude": "0"}, []byte("clip"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = uploadSign(t, g, "hola", nil, []byte{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty clip")

	w = uploadSign(t, g, "hola", nil, bytes.Repeat([]byte("x"), 2<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	assert.Empty(t, media.Keys())
}

func TestAddSignRejectsNonFiniteCoordinates(t *testing.T) {
	g, media := newTestRouter(t)

	for _, c := range [][2]string{{"NaN", "NaN"}, {"4.6", "NaN"}, {"Inf", "0"}, {"0", "-Inf"}} {
		w := uploadSign(t, g, "hola", map[string]string{"latitude": c[0], "longitude": c[1]}, []byte("clip"))
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s,%s", c[0], c[1])
	}
	assert.Empty(t, media.Keys())

	require.Equal(t, http.StatusCreated, uploadSign(t, g, "casa", nil, []byte("clip")).Code)
	w := get(g, "/api/words")
	require.Equal(t, http.StatusOK, w.Code)
	var list map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list["words"], 1)
}

func TestServerSeesWordsAddedElsewhere(t *testing.T) {
	store := repository.NewMemoryStore()
	media := storage.NewMemoryStorage("")
	lib := library.New(service.New(store, media), nil)
	require.NoError(t, lib.Refresh(context.Background()))
	g := gin.New()
	NewWordsHandler(lib, media, geo.NewResolver(nil, 0), geo.Options{}, 1<<20, nil).Register(g.Group("/"))

	// a CLI process writing to the same store
	cli := library.New(service.New(store, media), nil)
	_, err := cli.Contribute(context.Background(), service.SaveRequest{
		WordName: "hola",
		Media:    glossary.Blob{Data: []byte("clip-cli"), ContentType: "video/webm"},
	})
	require.NoError(t, err)

	w := get(g, "/api/words")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"hola"`)
	assert.Contains(t, w.Body.String(), `"state":"results"`)

	w = uploadSign(t, g, "Hola", nil, []byte("clip-server"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	words, err := store.ListWords(context.Background())
	require.NoError(t, err)
	require.Len(t, words, 1, "one record per name")
	assert.Len(t, words[0].Signs, 2)
}

func TestSearch(t *testing.T) {
	g, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, uploadSign(t, g, "hola", nil, []byte("a")).Code)
	require.Equal(t, http.StatusCreated, uploadSign(t, g, "mundo", nil, []byte("b")).Code)

	w := get(g, "/api/search?q=Hola+amigo+MUNDO")
	require.Equal(t, http.StatusOK, w.Code)
	var res SearchJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Active)
	assert.True(t, res.HasFoundAny)
	assert.True(t, res.HasMissingAny)
	assert.True(t, res.IsMultiWordPhrase)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "found", res.Items[0].Kind)
	assert.Equal(t, "Hola", res.Items[0].Word.DisplayName)
	assert.Equal(t, "missing", res.Items[1].Kind)
	assert.Equal(t, "amigo", res.Items[1].Token)
	assert.Nil(t, res.Items[1].Word)
	assert.Equal(t, "results", res.State)

	w = get(g, "/api/search?q=nada")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "no_matches", res.State)

	w = get(g, "/api/search?q=+++")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Active)
	assert.Empty(t, res.Items)
}

func TestClearRequiresConfirmation(t *testing.T) {
	g, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, uploadSign(t, g, "hola", nil, []byte("a")).Code)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/words", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/words?confirm=true", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = get(g, "/api/words")
	assert.Contains(t, w.Body.String(), `"words":[]`)
}

func TestMediaProxy(t *testing.T) {
	g, media := newTestRouter(t)
	require.NoError(t, media.Upload(context.Background(), "w1/1.webm", glossary.Blob{Data: []byte("frames"), ContentType: "video/webm"}))

	w := get(g, "/media/w1/1.webm")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/webm", w.Header().Get("Content-Type"))
	assert.Equal(t, "frames", w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(g, "/media/w1/2.webm").Code)
}

func TestNearestCity(t *testing.T) {
	g, _ := newTestRouter(t)

	w := get(g, "/api/cities/nearest?lat=6.2442&lng=-75.5812")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Medellín")

	assert.Equal(t, http.StatusBadRequest, get(g, "/api/cities/nearest?lat=abc&lng=1").Code)
	assert.Equal(t, http.StatusNotFound, get(g, "/api/cities/nearest?lat=0&lng=-140").Code)
}

type unavailableRepo struct{}

func (unavailableRepo) Load(context.Context) ([]*glossary.Word, error) {
	return nil, fmt.Errorf("%w: list words: connection refused", glossary.ErrRepositoryUnavailable)
}

func (unavailableRepo) Save(context.Context, []*glossary.Word, service.SaveRequest) (*service.SaveResult, error) {
	return nil, fmt.Errorf("%w: create word: connection refused", glossary.ErrRepositoryUnavailable)
}

func (unavailableRepo) Clear(context.Context) error {
	return fmt.Errorf("%w: delete all words: connection refused", glossary.ErrRepositoryUnavailable)
}

func TestRepositoryUnavailable(t *testing.T) {
	media := storage.NewMemoryStorage("")
	g := gin.New()
	NewWordsHandler(library.New(unavailableRepo{}, nil), media, geo.NewResolver(nil, 0), geo.Options{}, 0, nil).Register(g.Group("/"))

	assert.Equal(t, http.StatusServiceUnavailable, get(g, "/api/words").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(g, "/api/search?q=hola").Code)
	assert.Equal(t, http.StatusServiceUnavailable, uploadSign(t, g, "hola", nil, []byte("a")).Code)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/words?confirm=1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
