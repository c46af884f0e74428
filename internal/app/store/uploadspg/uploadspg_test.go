package uploadspg_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	uploadstore "github.com/dalemusser/studyvault/internal/app/store/uploads"
	"github.com/dalemusser/studyvault/internal/app/store/uploadspg"
	"github.com/dalemusser/studyvault/internal/domain/models"
)

func setup(t *testing.T) *uploadspg.Store {
	t.Helper()
	dsn := os.Getenv("STUDYVAULT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STUDYVAULT_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := uploadspg.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	s := uploadspg.New(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM uploads WHERE subject_code LIKE 'PGTEST%'`); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	return s
}

func rec(path string, mt models.MaterialType, public bool) models.FileRecord {
	return models.FileRecord{
		SubjectCode:  "PGTEST 1",
		MaterialType: mt,
		Path:         path,
		FileName:     "x.pdf",
		Title:        "X",
		IsPublic:     public,
	}
}

func TestStore_CreateAndDuplicate(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	created, err := s.Create(ctx, rec("materials/PGTEST1/syllabus/x.pdf", models.MaterialTypeSyllabus, true))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.SubjectCode != "PGTEST1" {
		t.Errorf("SubjectCode = %q", created.SubjectCode)
	}

	_, err = s.Create(ctx, rec("materials/PGTEST1/syllabus/x.pdf", models.MaterialTypeSyllabus, false))
	if !errors.Is(err, uploadstore.ErrDuplicatePath) {
		t.Errorf("expected ErrDuplicatePath, got %v", err)
	}
}

func TestStore_UpsertListDelete(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	path := "materials/PGTEST1/pyq/x.pdf"
	first, err := s.Upsert(ctx, rec(path, models.MaterialTypePYQ, false))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	second, err := s.Upsert(ctx, rec(path, models.MaterialTypePYQ, true))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("upsert changed id: %s -> %s", first.ID.Hex(), second.ID.Hex())
	}

	public, err := s.ListPublicBySubject(ctx, "PGTEST 1")
	if err != nil {
		t.Fatalf("ListPublicBySubject failed: %v", err)
	}
	if len(public) != 1 || public[0].Path != path {
		t.Errorf("ListPublicBySubject = %+v", public)
	}

	byBucket, err := s.ListByBucket(ctx, models.Bucket{SubjectCode: "PGTEST1", MaterialType: models.MaterialTypePYQ})
	if err != nil || len(byBucket) != 1 {
		t.Errorf("ListByBucket = %+v, %v", byBucket, err)
	}

	n, err := s.DeleteByPath(ctx, path)
	if err != nil || n != 1 {
		t.Errorf("DeleteByPath = %d, %v", n, err)
	}
}
