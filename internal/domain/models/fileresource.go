// internal/domain/models/fileresource.go
package models

import "time"

// Origin records where a FileResource came from.
type Origin string

const (
	OriginCatalog Origin = "catalog"
	OriginStorage Origin = "storage"
)

// FileResource is one downloadable file inside a Bucket.
//
// ID is the deduplication key and is unique within a bucket. Catalog entries
// are created when the catalog is loaded and never mutated; storage entries
// are rebuilt every time a bucket is resolved.
type FileResource struct {
	ID           string       `yaml:"id" json:"id"`
	Name         string       `yaml:"name" json:"name"`
	ViewURL      string       `yaml:"url" json:"view_url"`
	DownloadURL  string       `yaml:"download_url,omitempty" json:"download_url"`
	Origin       Origin       `yaml:"-" json:"origin"`
	SubjectCode  string       `yaml:"-" json:"subject_code,omitempty"`
	MaterialType MaterialType `yaml:"-" json:"material_type,omitempty"`

	// Storage-only metadata.
	ObjectName string     `yaml:"-" json:"object_name,omitempty"`
	Size       int64      `yaml:"-" json:"size,omitempty"`
	UpdatedAt  *time.Time `yaml:"-" json:"updated_at,omitempty"`
}
