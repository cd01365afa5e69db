package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hutsix/hutsixassets-go/internal/domain"
)

// TestServer is a wrapper around httptest.Server serving remote assets
type TestServer struct {
	*httptest.Server
	mux *http.ServeMux

	mu   sync.Mutex
	hits map[string]int
}

// NewTestServer creates a new test HTTP server
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	ts := &TestServer{
		mux:  http.NewServeMux(),
		hits: make(map[string]int),
	}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.hits[r.Method+" "+r.URL.Path]++
		ts.mu.Unlock()
		ts.mux.ServeHTTP(w, r)
	}))

	t.Cleanup(func() {
		ts.Server.Close()
	})

	return ts
}

// Handle registers a handler for a specific path
func (ts *TestServer) Handle(t *testing.T, path string, handler http.HandlerFunc) {
	t.Helper()
	ts.mux.HandleFunc(path, handler)
}

// HandleString registers a handler that returns a string response
func (ts *TestServer) HandleString(t *testing.T, path, contentType, body string) {
	t.Helper()
	ts.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write([]byte(body))
		}
	})
}

// HandleSVG registers a handler that serves SVG markup
func (ts *TestServer) HandleSVG(t *testing.T, path, svg string) {
	t.Helper()
	ts.HandleString(t, path, "image/svg+xml", svg)
}

// HandleStatus registers a handler that only writes status
func (ts *TestServer) HandleStatus(t *testing.T, path string, status int) {
	t.Helper()
	ts.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// Hits returns how many requests with method reached path
func (ts *TestServer) Hits(method, path string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.hits[method+" "+path]
}

// NewResponse creates a domain.Response
func NewResponse(statusCode int, body string, contentType string) *domain.Response {
	return &domain.Response{
		StatusCode:  statusCode,
		Body:        []byte(body),
		Headers:     make(http.Header),
		ContentType: contentType,
	}
}
