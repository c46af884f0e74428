// internal/domain/models/filerecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileRecord is the record-store row written for every upload. The blob
// itself lives in the blob store at Path; the record carries visibility and
// attribution that the blob store cannot.
type FileRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubjectCode  string             `bson:"subject_code" json:"subject_code"` // compact form
	MaterialType MaterialType       `bson:"material_type" json:"material_type"`

	Path        string `bson:"path" json:"path"` // blob store key, unique
	FileName    string `bson:"file_name" json:"file_name"`
	Title       string `bson:"title" json:"title"`
	TitleCI     string `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Size        int64  `bson:"size" json:"size"`
	ContentType string `bson:"content_type,omitempty" json:"content_type,omitempty"`

	IsPublic   bool   `bson:"is_public" json:"is_public"`
	UploadedBy string `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
