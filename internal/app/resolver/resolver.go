// Package resolver turns a (subject, material type) bucket into the files
// uploaded for it in the blob store.
package resolver

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultRoot is the top-level folder holding all study material.
const DefaultRoot = "materials"

// Resolver lists storage-backed files for a bucket.
type Resolver struct {
	store blobstore.Store
	root  string
	log   *zap.Logger
}

// New returns a Resolver over store. An empty root uses DefaultRoot.
func New(store blobstore.Store, root string, logger *zap.Logger) *Resolver {
	if root == "" {
		root = DefaultRoot
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = blobstore.Unconfigured{Reason: "no store"}
	}
	return &Resolver{store: store, root: strings.Trim(root, "/"), log: logger}
}

// Store returns the underlying blob store.
func (r *Resolver) Store() blobstore.Store { return r.store }

// BucketPrefix is the folder holding a bucket's objects:
// <root>/<compact subject code>/<material type>/
func (r *Resolver) BucketPrefix(b models.Bucket) string {
	return blobstore.Dir(r.root, models.CompactCode(b.SubjectCode), string(b.MaterialType))
}

// ObjectPath is the full key of object name inside bucket b.
func (r *Resolver) ObjectPath(b models.Bucket, name string) string {
	return r.BucketPrefix(b) + name
}

// ListBucketFiles lists the uploaded files of (subjectCode, mt). It never
// fails: store errors are logged and produce an empty, non-nil slice, so a
// missing or broken bucket shows as "no files" instead of blocking the page.
func (r *Resolver) ListBucketFiles(ctx context.Context, subjectCode string, mt models.MaterialType) []models.FileResource {
	b := models.Bucket{SubjectCode: subjectCode, MaterialType: mt}
	out := []models.FileResource{}
	if !b.Complete() {
		return out
	}

	prefix := r.BucketPrefix(b)
	objects, err := r.store.List(ctx, prefix)
	if err != nil {
		r.log.Warn("storage listing failed; showing no uploaded files",
			zap.String("prefix", prefix),
			zap.Error(err))
		return out
	}

	for _, o := range objects {
		if isPlaceholder(o) {
			continue
		}
		out = append(out, r.Resource(b, o))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ObjectName < out[j].ObjectName })
	return out
}

// List is ListBucketFiles keyed by a Bucket.
func (r *Resolver) List(ctx context.Context, b models.Bucket) []models.FileResource {
	return r.ListBucketFiles(ctx, b.SubjectCode, b.MaterialType)
}

// Resource converts a stored object of bucket b into a FileResource.
func (r *Resolver) Resource(b models.Bucket, o blobstore.ObjectMeta) models.FileResource {
	name := o.Name
	if name == "" {
		name = blobstore.Base(o.Path)
	}
	objPath := o.Path
	if objPath == "" {
		objPath = r.ObjectPath(b, name)
	}
	view := r.store.PublicURL(objPath)

	f := models.FileResource{
		ID:           StorageID(b, name),
		Name:         DisplayName(name),
		ViewURL:      view,
		DownloadURL:  blobstore.DownloadURL(view, name),
		Origin:       models.OriginStorage,
		SubjectCode:  b.SubjectCode,
		MaterialType: b.MaterialType,
		ObjectName:   name,
		Size:         o.Size,
	}
	if !o.UpdatedAt.IsZero() {
		t := o.UpdatedAt
		f.UpdatedAt = &t
	}
	return f
}

// StorageID derives the stable identity of an uploaded file from its bucket
// and object name, independent of any store-internal metadata.
func StorageID(b models.Bucket, objectName string) string {
	return "storage_" + models.CompactCode(b.SubjectCode) + "_" + string(b.MaterialType) + "_" + objectName
}

// DisplayName strips the extension from an object name and turns
// separators into single spaces ("unit-1_notes.pdf" -> "unit 1 notes").
func DisplayName(objectName string) string {
	base := strings.TrimSuffix(objectName, path.Ext(objectName))
	if base == "" {
		base = objectName
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.':
			return ' '
		}
		return r
	}, base)
	return strings.Join(strings.Fields(base), " ")
}

// isPlaceholder reports directory markers and dotfiles such as the
// ".emptyFolderPlaceholder" objects storage consoles create.
func isPlaceholder(o blobstore.ObjectMeta) bool {
	if o.IsDir || strings.HasSuffix(o.Path, "/") {
		return true
	}
	name := o.Name
	if name == "" {
		name = blobstore.Base(o.Path)
	}
	return name == "" || strings.HasPrefix(name, ".")
}
