// internal/app/store/uploads/uploadstore.go
package uploadstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/studyvault/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the Mongo collection holding upload records.
const Collection = "uploads"

var (
	ErrDuplicatePath = errors.New("a file already exists at this path")
	ErrInvalid       = errors.New("invalid upload record")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Normalize fills derived fields (compact subject code, TitleCI) and checks
// required ones. Every record backend runs it before writing.
func Normalize(r models.FileRecord) (models.FileRecord, error) {
	r.SubjectCode = models.CompactCode(r.SubjectCode)
	r.Path = strings.TrimSpace(r.Path)
	if r.Title == "" {
		r.Title = r.FileName
	}
	r.TitleCI = text.Fold(r.Title)

	switch {
	case r.SubjectCode == "":
		return r, errors.Join(ErrInvalid, errors.New("subject_code is required"))
	case !r.MaterialType.Valid():
		return r, errors.Join(ErrInvalid, errors.New("material_type is not a known type"))
	case r.Path == "":
		return r, errors.Join(ErrInvalid, errors.New("path is required"))
	case strings.TrimSpace(r.FileName) == "":
		return r, errors.Join(ErrInvalid, errors.New("file_name is required"))
	}
	return r, nil
}

// Create inserts a new record. A second record for the same path fails
// with ErrDuplicatePath.
func (s *Store) Create(ctx context.Context, r models.FileRecord) (models.FileRecord, error) {
	r, err := Normalize(r)
	if err != nil {
		return models.FileRecord{}, err
	}
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.FileRecord{}, ErrDuplicatePath
		}
		return models.FileRecord{}, err
	}
	return r, nil
}

// Upsert writes r keyed by path, replacing any earlier record there. This
// mirrors the blob store, where an upload to an existing path overwrites it.
func (s *Store) Upsert(ctx context.Context, r models.FileRecord) (models.FileRecord, error) {
	r, err := Normalize(r)
	if err != nil {
		return models.FileRecord{}, err
	}
	r.CreatedAt = time.Now().UTC()

	set := bson.M{
		"subject_code":  r.SubjectCode,
		"material_type": r.MaterialType,
		"file_name":     r.FileName,
		"title":         r.Title,
		"title_ci":      r.TitleCI,
		"size":          r.Size,
		"content_type":  r.ContentType,
		"is_public":     r.IsPublic,
		"uploaded_by":   r.UploadedBy,
		"created_at":    r.CreatedAt,
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out models.FileRecord
	err = s.c.FindOneAndUpdate(ctx, bson.M{"path": r.Path}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.FileRecord{}, ErrDuplicatePath
		}
		return models.FileRecord{}, err
	}
	return out, nil
}

// GetByPath returns the record stored for path.
func (s *Store) GetByPath(ctx context.Context, path string) (models.FileRecord, error) {
	var r models.FileRecord
	if err := s.c.FindOne(ctx, bson.M{"path": path}).Decode(&r); err != nil {
		return models.FileRecord{}, err
	}
	return r, nil
}

// ListPublicBySubject returns the public records of a subject ordered by
// material type then title.
func (s *Store) ListPublicBySubject(ctx context.Context, subjectCode string) ([]models.FileRecord, error) {
	filter := bson.M{
		"subject_code": models.CompactCode(subjectCode),
		"is_public":    true,
	}
	return s.find(ctx, filter)
}

// ListByBucket returns every record of one (subject, material type).
func (s *Store) ListByBucket(ctx context.Context, b models.Bucket) ([]models.FileRecord, error) {
	filter := bson.M{
		"subject_code":  models.CompactCode(b.SubjectCode),
		"material_type": b.MaterialType,
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.FileRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "material_type", Value: 1},
		{Key: "title_ci", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.FileRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByPath removes the record at path. Returns the number of documents
// deleted (0 or 1).
func (s *Store) DeleteByPath(ctx context.Context, path string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"path": path})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of records matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
