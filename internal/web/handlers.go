package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ct1212/youtube-feels-meter/internal/cache"
	"github.com/ct1212/youtube-feels-meter/internal/feels"
	"github.com/ct1212/youtube-feels-meter/internal/pipeline"
)

// maxBatchItems bounds a single batch request.
const maxBatchItems = 100

// Handlers contains HTTP handlers for the scoring API.
type Handlers struct {
	pipeline *pipeline.Service
	cache    *cache.Cache
	log      *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(p *pipeline.Service, c *cache.Cache, log *zap.Logger) *Handlers {
	return &Handlers{
		pipeline: p,
		cache:    c,
		log:      log,
	}
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Score handles GET /api/score?title=...&channel=...&id=...
// It runs the full pipeline for a single item.
func (h *Handlers) Score(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "missing title parameter")
		return
	}

	item := pipeline.Item{
		ID:      r.URL.Query().Get("id"),
		Title:   title,
		Channel: r.URL.Query().Get("channel"),
	}

	result := h.pipeline.Match(r.Context(), item)
	writeJSON(w, http.StatusOK, result)
}

// batchRequest is the POST /api/batch payload.
type batchRequest struct {
	Items []pipeline.Item `json:"items"`
}

// batchResponse returns the ranked results plus aggregate views.
type batchResponse struct {
	Results  []*pipeline.MatchResult                  `json:"results"`
	Stats    feels.Stats                              `json:"stats"`
	Groups   []feels.MoodGroup[*pipeline.MatchResult] `json:"groups,omitempty"`
	Outliers []*pipeline.MatchResult                  `json:"outliers,omitempty"`
}

// Batch handles POST /api/batch. Results come back sorted by score,
// most intense first, with a distribution summary and mood groups.
func (h *Handlers) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items is empty")
		return
	}
	if len(req.Items) > maxBatchItems {
		writeError(w, http.StatusBadRequest, "too many items")
		return
	}

	results := h.pipeline.MatchAll(r.Context(), req.Items)
	groups, outliers := pipeline.Groups(results, feels.DefaultGroupConfig())

	writeJSON(w, http.StatusOK, batchResponse{
		Results:  pipeline.Rank(results),
		Stats:    pipeline.Summarize(results),
		Groups:   groups,
		Outliers: outliers,
	})
}

// CacheStats handles GET /api/cache/stats.
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats(r.Context()))
}

// CacheClear handles DELETE /api/cache.
func (h *Handlers) CacheClear(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear(r.Context())
	h.log.Info("cache cleared by request")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
