// Package blobstore is the object-storage collaborator: a key/blob store
// addressed by slash-separated paths with list, upload, remove and
// public-URL operations.
//
// Backends:
//   - S3: any S3-compatible endpoint (AWS, MinIO, Supabase storage)
//   - Badger: embedded store for single-node and development setups
//   - Memory: in-process store used by tests
//   - Unconfigured: returned when credentials are missing; every operation
//     fails with ErrNotConfigured so callers degrade to empty results
package blobstore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned by every operation of an Unconfigured store.
	ErrNotConfigured = errors.New("blob store is not configured")
	// ErrNotFound is returned by Open and Remove when no object exists at path.
	ErrNotFound = errors.New("object not found")
)

// ObjectMeta describes one entry of a listing.
type ObjectMeta struct {
	Name        string    `json:"name"` // last path segment
	Path        string    `json:"path"` // full key
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsDir       bool      `json:"is_dir,omitempty"` // common prefix or folder marker
}

// Store is implemented by every backend.
type Store interface {
	// List returns the entries directly under prefix. Sub-prefixes are
	// reported with IsDir set.
	List(ctx context.Context, prefix string) ([]ObjectMeta, error)
	// Upload writes r to path, replacing any existing object.
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (ObjectMeta, error)
	// Remove deletes the object at path.
	Remove(ctx context.Context, path string) error
	// Open returns the object's content. Callers close the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, ObjectMeta, error)
	// PublicURL returns the URL a browser can fetch the object from.
	PublicURL(path string) string
}

// Join builds a store path from segments, dropping empty segments and
// duplicate slashes.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Dir returns a prefix with exactly one trailing slash.
func Dir(segments ...string) string {
	return Join(segments...) + "/"
}

// Base returns the last segment of p.
func Base(p string) string {
	return path.Base(strings.TrimSuffix(p, "/"))
}

// DownloadURL turns a public URL into one that asks the server to send the
// object as an attachment named name.
func DownloadURL(publicURL, name string) string {
	if publicURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(publicURL, "?") {
		sep = "&"
	}
	return publicURL + sep + url.Values{"download": {name}}.Encode()
}

// joinURL appends an object path to a base URL, escaping each segment.
func joinURL(base, p string) string {
	if base == "" {
		return ""
	}
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}

// directChild reports whether key lies under prefix and, if so, returns the
// immediate child name and whether it is a deeper directory.
func directChild(prefix, key string) (name string, isDir bool, ok bool) {
	if !strings.HasPrefix(key, prefix) {
		return "", false, false
	}
	rest := strings.TrimPrefix(key, prefix)
	if rest == "" {
		return "", false, false
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i], true, true
	}
	return rest, false, true
}
