package blobstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeS3 answers HEAD and DELETE for path-style keys under one bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]bool
	deletes int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/materials/")
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodHead:
		if !f.objects[key] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		f.deletes++
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T, keys ...string) (*S3, *fakeS3) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))

	fake := &fakeS3{objects: map[string]bool{}}
	for _, k := range keys {
		fake.objects[k] = true
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3(context.Background(), S3Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		Bucket:    "materials",
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3 failed: %v", err)
	}
	return s, fake
}

func TestS3_RemoveMissingIsNotFound(t *testing.T) {
	s, fake := newTestS3(t, "CSA103/pyq/a.pdf")
	ctx := context.Background()

	if err := s.Remove(ctx, "CSA103/pyq/a.pdf"); err != nil {
		t.Fatalf("Remove existing: %v", err)
	}
	if err := s.Remove(ctx, "CSA103/pyq/a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove: err = %v, want ErrNotFound", err)
	}
	if err := s.Remove(ctx, "CSA103/pyq/never.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing: err = %v, want ErrNotFound", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.deletes != 1 {
		t.Errorf("DeleteObject calls = %d, want 1", fake.deletes)
	}
}

func TestS3_PublicURL(t *testing.T) {
	s, _ := newTestS3(t)
	if got := s.PublicURL("CSA103/pyq/a b.pdf"); !strings.HasSuffix(got, "/materials/CSA103/pyq/a%20b.pdf") {
		t.Errorf("PublicURL = %q", got)
	}
}
