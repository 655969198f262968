// Package testutil holds helpers shared by the package tests: an in-memory
// object server and archive builders.
package testutil

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ObjectServer serves byte blobs by URL path and counts the requests it gets.
// Individual paths can be made to fail or to serve corrupted content a given
// number of times before they start behaving.
type ObjectServer struct {
	*httptest.Server

	mu      sync.Mutex
	objects map[string][]byte
	hits    map[string]int
	fail    map[string]int
	corrupt map[string]int
}

// NewObjectServer starts an ObjectServer that is closed when the test ends.
func NewObjectServer(t *testing.T) *ObjectServer {
	t.Helper()
	s := &ObjectServer{
		objects: make(map[string][]byte),
		hits:    make(map[string]int),
		fail:    make(map[string]int),
		corrupt: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *ObjectServer) serve(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path

	s.mu.Lock()
	s.hits[p]++
	data, ok := s.objects[p]
	failing := s.fail[p] > 0
	if failing {
		s.fail[p]--
	}
	corrupting := !failing && s.corrupt[p] > 0
	if corrupting {
		s.corrupt[p]--
	}
	s.mu.Unlock()

	switch {
	case failing:
		w.WriteHeader(http.StatusServiceUnavailable)
	case !ok:
		http.NotFound(w, r)
	case corrupting:
		_, _ = w.Write([]byte("corrupted:" + string(data)))
	default:
		_, _ = w.Write(data)
	}
}

// Put registers data under path, which must start with a slash.
func (s *ObjectServer) Put(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[normalize(path)] = data
}

// FailNext makes the next n requests for path answer 503.
func (s *ObjectServer) FailNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[normalize(path)] = n
}

// CorruptNext makes the next n successful requests for path serve wrong bytes.
func (s *ObjectServer) CorruptNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrupt[normalize(path)] = n
}

// Hits returns how many requests path received.
func (s *ObjectServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[normalize(path)]
}

// TotalHits returns the number of requests across all paths.
func (s *ObjectServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// ResetHits clears the request counters.
func (s *ObjectServer) ResetHits() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = make(map[string]int)
}

// PutAsset registers data as a content-addressed object at /<shard>/<hash> and
// returns the hash.
func (s *ObjectServer) PutAsset(data []byte) string {
	hash := SHA1Hex(data)
	s.Put("/"+hash[:2]+"/"+hash, data)
	return hash
}

// SHA1Hex returns the lowercase hex SHA-1 digest of data.
func SHA1Hex(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

func normalize(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
