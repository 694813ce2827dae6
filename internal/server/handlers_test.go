package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/localmind/localmind/internal/config"
	"github.com/localmind/localmind/internal/index"
	"github.com/localmind/localmind/internal/models"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, *index.Store) {
	t.Helper()
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	store := index.NewStore(cfg.Search.MaxVocabulary, cfg.Search.RecentQueries)
	return NewServer(store, &cfg, zap.NewNop()), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.routes()
	if err := store.Add(&models.DocumentInput{ID: "d1", Title: "Concrete", Content: "concrete mix design"}); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "concrete"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("total = %d, results = %d", resp.Total, len(resp.Results))
	}
	if resp.Results[0].Document.ID != "d1" || resp.Results[0].Score <= 0 {
		t.Errorf("result = %+v", resp.Results[0])
	}
}

func TestHandleSearchEmptyCorpus(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "anything"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 || resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty result set, got %+v", resp)
	}
}

func TestHandleSearchEmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/v1/search", models.SearchQuery{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAddDocumentGeneratesID(t *testing.T) {
	srv, store := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/v1/documents",
		models.DocumentInput{Title: "T", Content: "some content"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["id"] == "" {
		t.Error("expected generated id")
	}
	if store.Len() != 1 {
		t.Errorf("store has %d documents", store.Len())
	}
}

func TestHandleAddDocumentEmptyContent(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/v1/documents",
		models.DocumentInput{ID: "d1", Title: "T"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDeleteDocument(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.routes()
	if err := store.Add(&models.DocumentInput{ID: "d1", Content: "content"}); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, http.MethodDelete, "/api/v1/documents/d1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d documents after delete", store.Len())
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/documents/d1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleting unknown id: status = %d, want 404", rec.Code)
	}
}

func TestHandleGetDocument(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.routes()
	if err := store.Add(&models.DocumentInput{ID: "d1", Title: "Title", Content: "content"}); err != nil {
		t.Fatal(err)
	}
	rec := doJSON(t, h, http.MethodGet, "/api/v1/documents/d1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/v1/documents/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleListDocumentsPagination(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.routes()
	for _, id := range []string{"a", "b", "c"} {
		if err := store.Add(&models.DocumentInput{ID: id, Content: "content " + id}); err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/documents?skip=1&limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Documents []*models.Document `json:"documents"`
		Total     int                `json:"total"`
		Skip      int                `json:"skip"`
		Limit     int                `json:"limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 || len(resp.Documents) != 1 || resp.Skip != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleStats(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.routes()
	if err := store.Add(&models.DocumentInput{ID: "d1", Content: "hello world"}); err != nil {
		t.Fatal(err)
	}
	store.Search("hello", 10)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["document_count"].(float64) != 1 {
		t.Errorf("document_count = %v", resp["document_count"])
	}
	if resp["search_count"].(float64) != 1 {
		t.Errorf("search_count = %v", resp["search_count"])
	}
	if resp["vocabulary_size"].(float64) != 2 {
		t.Errorf("vocabulary_size = %v", resp["vocabulary_size"])
	}
	if _, ok := resp["config"]; !ok {
		t.Error("stats missing config block")
	}
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleUpload(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "notes.txt", []byte("site inspection notes")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if store.Len() != 1 {
		t.Errorf("store has %d documents", store.Len())
	}

	// Same file again replaces, not duplicates.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "notes.txt", []byte("site inspection notes")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("re-upload status = %d", rec.Code)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d documents after re-upload, want 1", store.Len())
	}
}

func TestHandleUploadUnsupportedType(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, uploadRequest(t, "binary.exe", []byte{0x4d, 0x5a}))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

func TestHandleUploadEmptyFile(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, uploadRequest(t, "empty.txt", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
