package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dwestra/quill/pkg/archive"
	"github.com/dwestra/quill/pkg/cache"
	"github.com/dwestra/quill/pkg/pipeline"
)

// memStore is an in-memory archive backend for handler tests.
type memStore struct {
	records []archive.Record
}

func (m *memStore) Save(ctx context.Context, rec *archive.Record) error {
	m.records = append([]archive.Record{*rec}, m.records...)
	return nil
}

func (m *memStore) Recent(ctx context.Context, limit int) ([]archive.Record, error) {
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

func (m *memStore) Close(ctx context.Context) error { return nil }

var _ archive.Store = (*memStore)(nil)

func testServer(t *testing.T, history archive.Store) *server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	t.Cleanup(func() {
		if err := runner.Close(); err != nil {
			t.Errorf("runner.Close() error: %v", err)
		}
	})
	return newServer(logger, runner, history)
}

func TestServeHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("healthz content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"status" : "ok"`) {
		t.Errorf("healthz body = %s", rec.Body.String())
	}
	if _, err := uuid.Parse(rec.Header().Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID should be a UUID: %v", err)
	}
}

func TestServeConvert(t *testing.T) {
	body := strings.NewReader("name = \"quill\"\nport = 8080\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?from=toml", body)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("convert status = %d, body = %s", rec.Code, rec.Body.String())
	}
	text := rec.Body.String()
	if !strings.Contains(text, `"name" : "quill"`) {
		t.Errorf("convert body missing name: %s", text)
	}
	if !strings.Contains(text, `"port" : 8080`) {
		t.Errorf("convert body missing port: %s", text)
	}
	if hash := rec.Header().Get("X-Quill-Hash"); len(hash) != 64 {
		t.Errorf("X-Quill-Hash = %q, want 64 hex chars", hash)
	}
	if status := rec.Header().Get("X-Quill-Cache"); status != "miss" {
		t.Errorf("X-Quill-Cache = %q, want miss (null cache)", status)
	}
}

func TestServeConvertDOT(t *testing.T) {
	body := strings.NewReader("enabled: true\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?from=yaml&emit=dot", body)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("convert status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("dot content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "digraph") {
		t.Errorf("dot body should start with digraph: %s", rec.Body.String())
	}
}

func TestServeConvertEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?from=toml", nil)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	text := rec.Body.String()
	if !strings.Contains(text, "request body is empty") {
		t.Errorf("error body = %s", text)
	}
	if !strings.Contains(text, "request_id") {
		t.Errorf("error body should carry the request id: %s", text)
	}
}

func TestServeConvertInvalidEmit(t *testing.T) {
	body := strings.NewReader("name = \"x\"\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?from=toml&emit=png", body)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid format") {
		t.Errorf("error body = %s", rec.Body.String())
	}
}

func TestServeConvertUnknownFrom(t *testing.T) {
	body := strings.NewReader("whatever")
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?from=ini", body)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestServeConvertUndecodable(t *testing.T) {
	body := strings.NewReader("name = \n")
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?from=toml", body)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "decode") {
		t.Errorf("error body = %s", rec.Body.String())
	}
}

func TestServeConvertRecordsToArchive(t *testing.T) {
	store := &memStore{}
	body := strings.NewReader("name = \"quill\"\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/convert?from=toml&source=config.toml", body)
	rec := httptest.NewRecorder()
	testServer(t, store).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("convert status = %d", rec.Code)
	}
	if len(store.records) != 1 {
		t.Fatalf("archive has %d records, want 1", len(store.records))
	}
	saved := store.records[0]
	if saved.Source != "config.toml" {
		t.Errorf("record source = %q, want config.toml", saved.Source)
	}
	if saved.Format != "toml" {
		t.Errorf("record format = %q, want toml", saved.Format)
	}
	if len(saved.ContentHash) != 64 {
		t.Errorf("record hash = %q, want 64 hex chars", saved.ContentHash)
	}
	if saved.Size == 0 {
		t.Error("record size should be set")
	}
}

func TestServeHistoryNoStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	testServer(t, nil).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestServeHistory(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()
	for _, source := range []string{"a.toml", "b.yaml"} {
		rec := archive.New(source, "toml", strings.Repeat("a", 64), 10, time.Millisecond)
		if err := store.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	testServer(t, store).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	text := rec.Body.String()
	if !strings.Contains(text, `"count" : 2`) {
		t.Errorf("history body missing count: %s", text)
	}
	if !strings.Contains(text, "a.toml") || !strings.Contains(text, "b.yaml") {
		t.Errorf("history body missing sources: %s", text)
	}
}

func TestServeHistoryBadLimit(t *testing.T) {
	store := &memStore{}
	req := httptest.NewRequest(http.MethodGet, "/v1/history?limit=abc", nil)
	rec := httptest.NewRecorder()
	testServer(t, store).routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBoolParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		param string
		want  bool
	}{
		{"true", "refresh=true", "refresh", true},
		{"one", "refresh=1", "refresh", true},
		{"false", "refresh=false", "refresh", false},
		{"absent", "", "refresh", false},
		{"garbage", "refresh=yes", "refresh", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if got := boolParam(q, tt.param); got != tt.want {
				t.Errorf("boolParam(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestCacheStatus(t *testing.T) {
	tests := []struct {
		name string
		info pipeline.CacheInfo
		emit string
		want string
	}{
		{"json hit", pipeline.CacheInfo{EncodeHit: true}, pipeline.FormatJSON, "hit"},
		{"json miss", pipeline.CacheInfo{}, pipeline.FormatJSON, "miss"},
		{"dot follows render", pipeline.CacheInfo{EncodeHit: true}, pipeline.FormatDOT, "miss"},
		{"dot hit", pipeline.CacheInfo{RenderHit: true}, pipeline.FormatDOT, "hit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheStatus(tt.info, tt.emit); got != tt.want {
				t.Errorf("cacheStatus(%+v, %s) = %q, want %q", tt.info, tt.emit, got, tt.want)
			}
		})
	}
}
