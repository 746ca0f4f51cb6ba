package epaper

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"epaperhub/internal/cache"
)

// fakePublishers is a single fixture server standing in for every
// publisher at once. Each publisher's base URL is a path prefix, so
// one mux serves the whole table and records per-path hit counts.
type fakePublishers struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

func newFakePublishers(t *testing.T) *fakePublishers {
	t.Helper()
	f := &fakePublishers{
		t:    t,
		mux:  http.NewServeMux(),
		hits: make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakePublishers) hitsFor(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// handleJSON serves a fixed JSON document at path.
func (f *fakePublishers) handleJSON(path string, v any) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			f.t.Errorf("encode fixture for %s: %v", path, err)
		}
	})
}

// handleRaw serves a fixed body verbatim, for endpoints that answer
// with something other than a JSON document.
func (f *fakePublishers) handleRaw(path, body string) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
}

// handleStatus answers every request at path with the given status.
func (f *fakePublishers) handleStatus(path string, status int) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

func (f *fakePublishers) publisher(key string, targets []string, supplement bool) Publisher {
	return Publisher{
		Key:        key,
		BaseURL:    f.srv.URL + "/" + key,
		Targets:    targets,
		Supplement: supplement,
	}
}

func (f *fakePublishers) service(pubs ...Publisher) *Service {
	eenadu := Publisher{Key: "eenadu", BaseURL: f.srv.URL + "/eenadu"}
	return NewService(f.srv.Client(), cache.New(cache.DefaultTTL), eenadu, pubs)
}
