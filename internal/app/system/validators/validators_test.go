package validators_test

import (
	"testing"
	"time"

	uploadstore "github.com/dalemusser/studyvault/internal/app/store/uploads"
	"github.com/dalemusser/studyvault/internal/app/system/validators"
	"github.com/dalemusser/studyvault/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
			t.Fatalf("EnsureAll call %d: %v", i+1, err)
		}
	}

	names, err := db.ListCollectionNames(ctx, bson.M{"name": uploadstore.Collection})
	if err != nil {
		t.Fatalf("ListCollectionNames: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("collection %q not created", uploadstore.Collection)
	}
}

func TestUploadsSchema_Enforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	c := db.Collection(uploadstore.Collection)

	valid := bson.M{
		"subject_code":  "CSA103",
		"material_type": "syllabus",
		"path":          "materials/CSA103/syllabus/a.pdf",
		"file_name":     "a.pdf",
		"title":         "A",
		"title_ci":      "a",
		"size":          int64(3),
		"is_public":     true,
		"created_at":    time.Now().UTC(),
	}
	if _, err := c.InsertOne(ctx, valid); err != nil {
		t.Fatalf("valid insert rejected: %v", err)
	}

	tests := []struct {
		name  string
		field string
		value any
	}{
		{"unknown material type", "material_type", "notes"},
		{"spaced subject code", "subject_code", "CSA 103"},
		{"empty path", "path", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{}
			for k, v := range valid {
				doc[k] = v
			}
			doc["path"] = "materials/CSA103/syllabus/" + tt.name
			doc[tt.field] = tt.value
			if _, err := c.InsertOne(ctx, doc); err == nil {
				t.Errorf("insert with %s=%v accepted", tt.field, tt.value)
			}
		})
	}
}
