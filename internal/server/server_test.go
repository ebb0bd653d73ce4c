package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ancestree/ancestree/pkg/config"
	"github.com/ancestree/ancestree/pkg/pipeline"
)

const familyJSON = `{
	"people": [
		{"id": 1, "first_name": "Abel", "last_name": "Berg", "birth": {"year": 1900}},
		{"id": 2, "first_name": "Berta", "last_name": "Berg", "birth": {"year": 1902}},
		{"id": 3, "first_name": "Carl", "last_name": "Berg", "birth": {"year": 1925}, "father_id": 1, "mother_id": 2}
	],
	"marriages": [
		{"id": 10, "spouse1_id": 1, "spouse2_id": 2}
	]
}`

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, logger, config.Default().Server)
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response missing request ID header")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/layout", strings.NewReader(familyJSON))
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.People != 3 {
		t.Errorf("people = %d, want 3", resp.People)
	}
	if resp.TreeHash == "" {
		t.Error("tree_hash missing")
	}
	if len(resp.Layout.PersonPositions) != 3 {
		t.Errorf("layout has %d positions, want 3", len(resp.Layout.PersonPositions))
	}
}

func TestLayoutEndpointEmptyBody(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/layout", nil)
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code == "" {
		t.Error("error code missing")
	}
}

func TestLayoutEndpointMalformedJSON(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/layout", strings.NewReader("{not json"))
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestRenderEndpointSVG(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/render/svg", strings.NewReader(familyJSON))
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rec.Body.String(), "Abel Berg") {
		t.Error("SVG missing person name")
	}
}

func TestRenderEndpointDOT(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/render/dot", strings.NewReader(familyJSON))
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "digraph family") {
		t.Error("DOT missing digraph header")
	}
}

func TestRenderEndpointBadFormat(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/render/bmp", strings.NewReader(familyJSON))
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "fixed-id" {
		t.Errorf("request ID = %q, want fixed-id", got)
	}
}
