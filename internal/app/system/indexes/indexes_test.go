package indexes_test

import (
	"testing"

	"github.com/dalemusser/studyvault/internal/app/system/indexes"
	"github.com/dalemusser/studyvault/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesUploadIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("uploads").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}

	for _, want := range []string{
		"uniq_uploads_path",
		"idx_uploads_subject_type_titleci__id",
		"idx_uploads_subject_public_type_titleci",
	} {
		if !names[want] {
			t.Errorf("missing index %q", want)
		}
	}
}
