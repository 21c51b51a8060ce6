package wetransfer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "test-key"
	testToken     = "abc"
	testChunkSize = 4
)

// fakeService is an in-memory stand-in for the WeTransfer API and the
// storage behind its presigned URLs.
type fakeService struct {
	t      *testing.T
	server *httptest.Server

	mu            sync.Mutex
	authorizeBody string
	calls         map[string]int
	items         []map[string]any
	parts         map[string]map[int][]byte
	completed     []string
	authHeaders   []string
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	s := &fakeService{
		t:             t,
		authorizeBody: `{"success":true,"token":"` + testToken + `"}`,
		calls:         make(map[string]int),
		parts:         make(map[string]map[int][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/authorize", s.handleAuthorize)
	mux.HandleFunc("POST /v1/transfers", s.authorized(s.handleCreateTransfer))
	mux.HandleFunc("POST /v1/transfers/{id}/items", s.authorized(s.handleAddItems))
	mux.HandleFunc("GET /v1/files/{id}/uploads/{part}/{mp}", s.authorized(s.handleUploadURL))
	mux.HandleFunc("POST /v1/files/{id}/uploads/complete", s.authorized(s.handleComplete))
	mux.HandleFunc("PUT /storage/{id}/{part}", s.handleStore)

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *fakeService) baseURL() string {
	return s.server.URL + "/v1/"
}

func (s *fakeService) count(name string) {
	s.mu.Lock()
	s.calls[name]++
	s.mu.Unlock()
}

func (s *fakeService) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *fakeService) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		s.mu.Unlock()
		if r.Header.Get("x-api-key") != testAPIKey || r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}
		next(w, r)
	}
}

func (s *fakeService) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	s.count("authorize")
	if r.Header.Get("x-api-key") != testAPIKey {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	s.mu.Lock()
	body := s.authorizeBody
	s.mu.Unlock()
	w.Write([]byte(body))
}

func (s *fakeService) handleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	s.count("create")
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"id":            "transfer-1",
		"name":          req["name"],
		"description":   req["description"],
		"state":         "uploading",
		"shortened_url": "https://we.tl/s-transfer-1",
	})
}

func (s *fakeService) handleAddItems(w http.ResponseWriter, r *http.Request) {
	s.count("items")
	var req struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	offset := len(s.items)
	s.items = append(s.items, req.Items...)
	s.mu.Unlock()

	resp := make([]map[string]any, 0, len(req.Items))
	for i, item := range req.Items {
		size := int64(item["filesize"].(float64))
		parts := (size + testChunkSize - 1) / testChunkSize
		if parts == 0 {
			parts = 1
		}
		n := offset + i + 1
		resp = append(resp, map[string]any{
			"id":                 fmt.Sprintf("file-%d", n),
			"content_identifier": item["content_identifier"],
			"local_identifier":   item["local_identifier"],
			"name":               item["filename"],
			"size":               size,
			"meta": map[string]any{
				"multipart_parts":     parts,
				"multipart_upload_id": fmt.Sprintf("mp-%d", n),
			},
		})
	}
	writeJSON(w, resp)
}

func (s *fakeService) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	s.count("upload_url")
	part, _ := strconv.Atoi(r.PathValue("part"))
	writeJSON(w, map[string]any{
		"upload_url":  fmt.Sprintf("%s/storage/%s/%d", s.server.URL, r.PathValue("id"), part),
		"part_number": part,
		"upload_id":   r.PathValue("mp"),
	})
}

func (s *fakeService) handleStore(w http.ResponseWriter, r *http.Request) {
	s.count("store")
	if r.Header.Get("x-api-key") != "" || r.Header.Get("Authorization") != "" {
		assert.Fail(s.t, "storage request carries credentials")
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	part, _ := strconv.Atoi(r.PathValue("part"))

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if s.parts[id] == nil {
		s.parts[id] = make(map[int][]byte)
	}
	s.parts[id][part] = data
}

func (s *fakeService) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.count("complete")
	s.mu.Lock()
	s.completed = append(s.completed, r.PathValue("id"))
	s.mu.Unlock()
	writeJSON(w, map[string]any{"ok": true, "message": "File is marked as complete."})
}

// stored reassembles the parts received for fileID.
func (s *fakeService) stored(fileID string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []byte
	for i := 1; i <= len(s.parts[fileID]); i++ {
		out = append(out, s.parts[fileID][i]...)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// newTestClient returns a configured client talking to s, with callbacks
// run inline and without transport retries.
func newTestClient(t *testing.T, s *fakeService, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithBaseURL(s.baseURL()),
		WithRetries(0),
		WithChunkSize(testChunkSize),
		WithCallbackExecutor(InlineExecutor),
	}, opts...)
	c, err := New(testAPIKey, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// newBlockingServer answers nothing until release is closed or the request
// is canceled. blocked is closed when the first request arrives.
func newBlockingServer(t *testing.T, blocked chan<- struct{}, release <-chan struct{}) string {
	t.Helper()
	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(blocked) })
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	return server.URL + "/v1/"
}

func (s *fakeService) completedFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.completed...)
}
