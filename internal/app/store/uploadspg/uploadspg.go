// Package uploadspg stores upload records in PostgreSQL. It mirrors
// store/uploads for deployments that keep records next to other relational
// data instead of in MongoDB.
package uploadspg

import (
	"context"
	"errors"
	"fmt"
	"time"

	uploadstore "github.com/dalemusser/studyvault/internal/app/store/uploads"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id            TEXT PRIMARY KEY,
	subject_code  TEXT NOT NULL,
	material_type TEXT NOT NULL,
	path          TEXT NOT NULL UNIQUE,
	file_name     TEXT NOT NULL,
	title         TEXT NOT NULL,
	title_ci      TEXT NOT NULL,
	size          BIGINT NOT NULL DEFAULT 0,
	content_type  TEXT NOT NULL DEFAULT '',
	is_public     BOOLEAN NOT NULL DEFAULT FALSE,
	uploaded_by   TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_uploads_subject_type ON uploads (subject_code, material_type, title_ci);
CREATE INDEX IF NOT EXISTS idx_uploads_subject_public ON uploads (subject_code, is_public);
`

const columns = `id, subject_code, material_type, path, file_name, title, title_ci, size, content_type, is_public, uploaded_by, created_at`

// Store is the PostgreSQL upload repository.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the uploads table and its indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure uploads schema: %w", err)
	}
	return nil
}

// Ping checks the pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new record; a second record for the same path fails
// with uploadstore.ErrDuplicatePath.
func (s *Store) Create(ctx context.Context, r models.FileRecord) (models.FileRecord, error) {
	r, err := uploadstore.Normalize(r)
	if err != nil {
		return models.FileRecord{}, err
	}
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()

	query := `INSERT INTO uploads (` + columns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := s.pool.Exec(ctx, query, args(r)...); err != nil {
		if isUniqueViolation(err) {
			return models.FileRecord{}, uploadstore.ErrDuplicatePath
		}
		return models.FileRecord{}, fmt.Errorf("failed to create upload: %w", err)
	}
	return r, nil
}

// Upsert writes r keyed by path, keeping the existing row id.
func (s *Store) Upsert(ctx context.Context, r models.FileRecord) (models.FileRecord, error) {
	r, err := uploadstore.Normalize(r)
	if err != nil {
		return models.FileRecord{}, err
	}
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO uploads (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (path) DO UPDATE SET
			subject_code = EXCLUDED.subject_code,
			material_type = EXCLUDED.material_type,
			file_name = EXCLUDED.file_name,
			title = EXCLUDED.title,
			title_ci = EXCLUDED.title_ci,
			size = EXCLUDED.size,
			content_type = EXCLUDED.content_type,
			is_public = EXCLUDED.is_public,
			uploaded_by = EXCLUDED.uploaded_by,
			created_at = EXCLUDED.created_at
		RETURNING ` + columns

	out, err := scanRecord(s.pool.QueryRow(ctx, query, args(r)...))
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("failed to upsert upload: %w", err)
	}
	return out, nil
}

// GetByPath returns the record at path; pgx.ErrNoRows is wrapped when
// there is none.
func (s *Store) GetByPath(ctx context.Context, path string) (models.FileRecord, error) {
	query := `SELECT ` + columns + ` FROM uploads WHERE path = $1`
	r, err := scanRecord(s.pool.QueryRow(ctx, query, path))
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("failed to get upload: %w", err)
	}
	return r, nil
}

// ListPublicBySubject returns the public records of a subject ordered by
// material type then title.
func (s *Store) ListPublicBySubject(ctx context.Context, subjectCode string) ([]models.FileRecord, error) {
	query := `
		SELECT ` + columns + `
		FROM uploads
		WHERE subject_code = $1 AND is_public = TRUE
		ORDER BY material_type, title_ci, id
	`
	return s.list(ctx, query, models.CompactCode(subjectCode))
}

// ListByBucket returns every record of one (subject, material type).
func (s *Store) ListByBucket(ctx context.Context, b models.Bucket) ([]models.FileRecord, error) {
	query := `
		SELECT ` + columns + `
		FROM uploads
		WHERE subject_code = $1 AND material_type = $2
		ORDER BY title_ci, id
	`
	return s.list(ctx, query, models.CompactCode(b.SubjectCode), string(b.MaterialType))
}

// DeleteByPath removes the record at path and returns rows affected.
func (s *Store) DeleteByPath(ctx context.Context, path string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM uploads WHERE path = $1`, path)
	if err != nil {
		return 0, fmt.Errorf("failed to delete upload: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) list(ctx context.Context, query string, params ...any) ([]models.FileRecord, error) {
	rows, err := s.pool.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	out := []models.FileRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return out, nil
}

func args(r models.FileRecord) []any {
	return []any{
		r.ID.Hex(),
		r.SubjectCode,
		string(r.MaterialType),
		r.Path,
		r.FileName,
		r.Title,
		r.TitleCI,
		r.Size,
		r.ContentType,
		r.IsPublic,
		r.UploadedBy,
		r.CreatedAt,
	}
}

func scanRecord(row pgx.Row) (models.FileRecord, error) {
	var (
		r  models.FileRecord
		id string
		mt string
	)
	err := row.Scan(
		&id,
		&r.SubjectCode,
		&mt,
		&r.Path,
		&r.FileName,
		&r.Title,
		&r.TitleCI,
		&r.Size,
		&r.ContentType,
		&r.IsPublic,
		&r.UploadedBy,
		&r.CreatedAt,
	)
	if err != nil {
		return models.FileRecord{}, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("bad upload id %q: %w", id, err)
	}
	r.ID = oid
	r.MaterialType = models.MaterialType(mt)
	return r, nil
}
