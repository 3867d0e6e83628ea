package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glosario-lsc/glosario/internal/contribution"
	"github.com/glosario-lsc/glosario/internal/geo"
	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/glosario-lsc/glosario/internal/library"
	"github.com/glosario-lsc/glosario/internal/matcher"
	"github.com/glosario-lsc/glosario/internal/storage"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"go.uber.org/zap"
)

const defaultMaxUpload = 50 << 20

// WordJSON is a word as served to clients, with the title-cased display name.
type WordJSON struct {
	*glossary.Word
	DisplayName string `json:"displayName"`
}

// SearchItemJSON is one token of a search result.
type SearchItemJSON struct {
	Kind  string    `json:"kind"`
	Token string    `json:"token"`
	Word  *WordJSON `json:"word,omitempty"`
}

// SearchJSON is the response of GET /api/search.
type SearchJSON struct {
	Query             string           `json:"query"`
	Active            bool             `json:"active"`
	Items             []SearchItemJSON `json:"items"`
	HasFoundAny       bool             `json:"hasFoundAny"`
	HasMissingAny     bool             `json:"hasMissingAny"`
	IsMultiWordPhrase bool             `json:"isMultiWordPhrase"`
	State             string           `json:"state"`
}

// WordsHandler serves the glossary API over a Library.
type WordsHandler struct {
	lib       *library.Library
	media     storage.MediaStore
	cities    *geo.Resolver
	location  geo.Options
	maxUpload int64
	log       *zap.Logger
}

// NewWordsHandler builds the handler. A zero location uses geo.DefaultOptions.
func NewWordsHandler(lib *library.Library, media storage.MediaStore, cities *geo.Resolver, location geo.Options, maxUpload int64, log *zap.Logger) *WordsHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &WordsHandler{lib: lib, media: media, cities: cities, location: location, maxUpload: maxUpload, log: logger.OrNop(log)}
}

// Register mounts the API under rg. upload wraps the sign upload route only
// (e.g. a rate limiter).
func (h *WordsHandler) Register(rg *gin.RouterGroup, upload ...gin.HandlerFunc) {
	api := rg.Group("/api")
	api.GET("/words", h.ListWords)
	api.GET("/words/:name", h.GetWord)
	api.DELETE("/words", h.ClearWords)
	api.POST("/words/:name/signs", append(upload, h.AddSign)...)
	api.GET("/search", h.Search)
	api.GET("/cities/nearest", h.NearestCity)
	rg.GET("/media/*key", h.Media)
}

// ListWords returns the whole snapshot after resyncing it with the store.
func (h *WordsHandler) ListWords(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	words := h.lib.Words()
	out := make([]WordJSON, 0, len(words))
	for _, w := range words {
		out = append(out, toWordJSON(w))
	}
	c.JSON(http.StatusOK, gin.H{"words": out, "state": h.lib.State(matcher.Result{}).String()})
}

func (h *WordsHandler) GetWord(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	w, ok := h.lib.Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
		return
	}
	c.JSON(http.StatusOK, toWordJSON(w))
}

// Search runs the phrase matcher over the current snapshot.
func (h *WordsHandler) Search(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	q := c.Query("q")
	res := h.lib.Search(q)
	out := SearchJSON{
		Query:             q,
		Active:            res.Active,
		Items:             make([]SearchItemJSON, 0, len(res.Items)),
		HasFoundAny:       res.HasFoundAny,
		HasMissingAny:     res.HasMissingAny,
		IsMultiWordPhrase: res.IsMultiWordPhrase,
		State:             h.lib.State(res).String(),
	}
	for _, it := range res.Items {
		item := SearchItemJSON{Kind: it.Kind.String(), Token: it.Token}
		if it.Word != nil {
			wj := toWordJSON(it.Word)
			item.Word = &wj
		}
		out.Items = append(out.Items, item)
	}
	c.JSON(http.StatusOK, out)
}

// AddSign accepts multipart form fields video (file), note, latitude,
// longitude and test, and stores a new sign for :name.
func (h *WordsHandler) AddSign(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fh, err := c.FormFile("video")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "video too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deps := contribution.Deps{Library: h.lib, Cities: h.cities, Logger: h.log, Location: h.location}
	lat, lng, hasLoc, err := parseCoordinates(c.PostForm("latitude"), c.PostForm("longitude"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if hasLoc {
		deps.Locator = geo.StaticLocator{Latitude: lat, Longitude: lng}
	}

	name := c.Param("name")
	if !h.ensureLoaded(c) {
		return
	}
	_, existing := h.lib.Lookup(name)
	flow := contribution.Open(c.Request.Context(), deps, contribution.Prefill{Name: name, Existing: existing})
	defer flow.Close()

	flow.SetMedia(glossary.Blob{Data: data, ContentType: fh.Header.Get("Content-Type")})
	if hasLoc {
		_, _ = flow.RequestLocation()
	}
	test, _ := strconv.ParseBool(c.DefaultPostForm("test", "false"))

	res, err := flow.Submit(c.Request.Context(), contribution.SubmitRequest{Note: c.PostForm("note"), Test: test})
	if err != nil {
		h.writeError(c, err)
		return
	}
	status := http.StatusOK
	if res.CreatedWord {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"wordId":      res.WordID,
		"word":        res.WordName,
		"displayName": glossary.DisplayName(res.WordName),
		"createdWord": res.CreatedWord,
		"sign":        res.Sign,
	})
}

// ClearWords deletes every word and sign. It requires ?confirm=true.
func (h *WordsHandler) ClearWords(c *gin.Context) {
	if ok, _ := strconv.ParseBool(c.Query("confirm")); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pass confirm=true to delete the whole library"})
		return
	}
	if err := h.lib.Clear(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WordsHandler) NearestCity(c *gin.Context) {
	lat, lng, ok, err := parseCoordinates(c.Query("lat"), c.Query("lng"))
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	city, dist, found := h.cities.NearestCity(lat, lng)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no city within range"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city.Name, "distanceKm": dist})
}

// Media streams a stored clip; it backs public URLs when no CDN or public
// bucket fronts the object store.
func (h *WordsHandler) Media(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	rc, contentType, err := h.media.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.log.Warn("media read failed", zap.String("key", key), zap.Error(err))
		c.Status(http.StatusBadGateway)
		return
	}
	defer rc.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

// ensureLoaded resyncs the snapshot. When the store is down a previously
// loaded snapshot is still served.
func (h *WordsHandler) ensureLoaded(c *gin.Context) bool {
	err := h.lib.Sync(c.Request.Context())
	if err == nil {
		return true
	}
	if h.lib.Loaded() {
		h.log.Warn("serving previous snapshot", zap.Error(err))
		return true
	}
	h.writeError(c, err)
	return false
}

func (h *WordsHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, glossary.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, glossary.ErrRepositoryUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "the library is temporarily unavailable, try again"})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toWordJSON(w *glossary.Word) WordJSON {
	return WordJSON{Word: w, DisplayName: glossary.DisplayName(w.Name)}
}

func parseCoordinates(latS, lngS string) (float64, float64, bool, error) {
	latS, lngS = strings.TrimSpace(latS), strings.TrimSpace(lngS)
	if latS == "" && lngS == "" {
		return 0, 0, false, nil
	}
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil || !glossary.ValidLatitude(lat) {
		return 0, 0, false, errors.New("invalid latitude")
	}
	lng, err := strconv.ParseFloat(lngS, 64)
	if err != nil || !glossary.ValidLongitude(lng) {
		return 0, 0, false, errors.New("invalid longitude")
	}
	return lat, lng, true, nil
}
