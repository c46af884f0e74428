// internal/app/system/blobstore/unconfigured.go
package blobstore

import (
	"context"
	"io"
)

// Unconfigured is the degraded-mode store used when the storage endpoint or
// access key is missing. Reason is reported by health checks.
type Unconfigured struct {
	Reason string
}

func (u Unconfigured) List(context.Context, string) ([]ObjectMeta, error) {
	return nil, ErrNotConfigured
}

func (u Unconfigured) Upload(context.Context, string, io.Reader, int64, string) (ObjectMeta, error) {
	return ObjectMeta{}, ErrNotConfigured
}

func (u Unconfigured) Remove(context.Context, string) error {
	return ErrNotConfigured
}

func (u Unconfigured) Open(context.Context, string) (io.ReadCloser, ObjectMeta, error) {
	return nil, ObjectMeta{}, ErrNotConfigured
}

func (u Unconfigured) PublicURL(string) string { return "" }

// IsConfigured reports whether s is a working backend.
func IsConfigured(s Store) bool {
	switch s.(type) {
	case nil, Unconfigured, *Unconfigured:
		return false
	}
	return true
}
