// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogYAML is a small curriculum shared by handler tests: one subject
// with a catalog syllabus entry, one without any catalog files.
const CatalogYAML = `
branches:
  - { id: cse, name: Computer Science }
  - { id: ece, name: Electronics }
years:
  - year: 2
    semesters:
      - semester: 3
        branches:
          cse:
            - { code: "CSA 103", name: "Data Structures" }
            - { code: "CSB201", name: "Digital Electronics" }
          ece:
            - { code: "CSB201", name: "Digital Electronics" }
      - semester: 4
        branches:
          cse:
            - { code: "CSA 202", name: "Operating Systems" }
files:
  "CSA 103":
    syllabus:
      - { id: ds_syllabus, name: "Syllabus - DSA", url: "https://example.com/ds" }
`

// NewLookup parses CatalogYAML.
func NewLookup(t *testing.T) *catalog.Lookup {
	t.Helper()
	d, err := catalog.Parse([]byte(CatalogYAML))
	if err != nil {
		t.Fatalf("failed to parse test catalog: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("test catalog invalid: %v", err)
	}
	return catalog.New(d)
}

// SeedBlobs uploads a small body at each path.
func SeedBlobs(t *testing.T, s blobstore.Store, paths ...string) {
	t.Helper()
	for _, p := range paths {
		body := "content of " + p
		if _, err := s.Upload(context.Background(), p, strings.NewReader(body), int64(len(body)), "application/pdf"); err != nil {
			t.Fatalf("failed to seed blob %s: %v", p, err)
		}
	}
}

// WithChiURLParams adds chi URL parameters (key, value pairs) to the
// request context.
func WithChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures creates records directly in a test database.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUpload inserts an upload record for (code, mt) at
// materials/<code>/<mt>/<fileName>.
func (f *Fixtures) CreateUpload(ctx context.Context, code string, mt models.MaterialType, fileName string, public bool) models.FileRecord {
	f.t.Helper()

	compact := models.CompactCode(code)
	rec := models.FileRecord{
		ID:           primitive.NewObjectID(),
		SubjectCode:  compact,
		MaterialType: mt,
		Path:         blobstore.Join("materials", compact, string(mt), fileName),
		FileName:     fileName,
		Title:        fileName,
		TitleCI:      text.Fold(fileName),
		Size:         int64(len(fileName)),
		ContentType:  "application/pdf",
		IsPublic:     public,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("uploads").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create test upload: %v", err)
	}
	return rec
}
