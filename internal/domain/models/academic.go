// internal/domain/models/academic.go
package models

import (
	"strings"
	"unicode"
)

// Branch is an engineering branch (department) offered in a semester.
// Branches are owned by the catalog and never mutated at runtime.
type Branch struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"name" json:"name"`
}

// Subject is a course taught in one or more (year, semester, branch)
// buckets. The same subject taught across branches keeps its identity by
// Code.
type Subject struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// CompactCode strips all whitespace from a subject code so it can be used
// as a storage path segment ("CSA 103" -> "CSA103").
func CompactCode(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}

// Bucket is the (subject, material type) pair that scopes a file listing.
// It keys both the catalog lookup and the storage resolver.
type Bucket struct {
	SubjectCode  string       `json:"subject_code"`
	MaterialType MaterialType `json:"material_type"`
}

// Complete reports whether both halves of the bucket are set.
func (b Bucket) Complete() bool {
	return strings.TrimSpace(b.SubjectCode) != "" && b.MaterialType != ""
}

// Key returns a stable identity for the bucket. Two buckets naming the same
// subject with different spacing ("CSA 103", "CSA103") share a key.
func (b Bucket) Key() string {
	return CompactCode(b.SubjectCode) + "/" + string(b.MaterialType)
}
