package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ct1212/youtube-feels-meter/internal/cache"
	"github.com/ct1212/youtube-feels-meter/internal/pipeline"
)

func newTestServer() *Server {
	c := cache.New(nil)
	return NewServer(ServerConfig{
		Pipeline: pipeline.New(c),
		Cache:    c,
		Logger:   zap.NewNop(),
	})
}

func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decoding response body: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestScore(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/api/score?title=Metallica+-+Master+of+Puppets&id=v1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var result pipeline.MatchResult
	decodeBody(t, rec, &result)

	if result.ItemID != "v1" {
		t.Errorf("ItemID = %q, want %q", result.ItemID, "v1")
	}
	if result.Artist != "metallica" {
		t.Errorf("Artist = %q, want %q", result.Artist, "metallica")
	}
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("Score = %d, want within [0,100]", result.Score)
	}
	if result.Mood == "" {
		t.Error("Mood is empty")
	}
}

func TestScoreMissingTitle(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/score", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["error"] == "" {
		t.Error("error message missing")
	}
}

func TestBatch(t *testing.T) {
	srv := newTestServer()

	payload := []byte(`{"items":[
		{"id":"a","title":"Slayer - Raining Blood"},
		{"id":"b","title":"Enya - Only Time"},
		{"id":"c","title":"Daft Punk - One More Time"}
	]}`)

	rec := doRequest(t, srv, http.MethodPost, "/api/batch", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		Results []*pipeline.MatchResult `json:"results"`
		Stats   struct {
			Count  int            `json:"count"`
			ByMood map[string]int `json:"byMood"`
		} `json:"stats"`
	}
	decodeBody(t, rec, &body)

	if len(body.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(body.Results))
	}
	for i := 1; i < len(body.Results); i++ {
		if body.Results[i-1].Score < body.Results[i].Score {
			t.Errorf("results not sorted by score descending at index %d", i)
		}
	}
	if body.Stats.Count != 3 {
		t.Errorf("Stats.Count = %d, want 3", body.Stats.Count)
	}
	if len(body.Stats.ByMood) != 5 {
		t.Errorf("ByMood has %d bands, want 5", len(body.Stats.ByMood))
	}
}

func TestBatchRejectsBadInput(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name string
		body []byte
	}{
		{"invalid json", []byte(`{`)},
		{"empty items", []byte(`{"items":[]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/batch", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestBatchTooLarge(t *testing.T) {
	srv := newTestServer()

	items := make([]pipeline.Item, maxBatchItems+1)
	for i := range items {
		items[i] = pipeline.Item{Title: "a - b"}
	}
	payload, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, srv, http.MethodPost, "/api/batch", payload)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCacheEndpoints(t *testing.T) {
	srv := newTestServer()

	// Prime the cache through a score request.
	doRequest(t, srv, http.MethodGet, "/api/score?title=Artist+-+Song&id=v1", nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/cache/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d, want %d", rec.Code, http.StatusOK)
	}
	var stats cache.Stats
	decodeBody(t, rec, &stats)
	if stats.Size == 0 {
		t.Error("cache empty after a scored request")
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/cache", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/cache/stats", nil)
	decodeBody(t, rec, &stats)
	if stats.Size != 0 {
		t.Errorf("Size = %d after clear, want 0", stats.Size)
	}
}
