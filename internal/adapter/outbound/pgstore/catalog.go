package pgstore

import (
	"context"
	"errors"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `id, display_name, original_name, content_type, length, chunk_size, chunk_count, uploaded_at`

// Create inserts record. The unique display name constraint makes it atomic.
func (s *Store) Create(ctx context.Context, record *domain.FileRecord) (string, error) {
	pool, err := s.handle("create record")
	if err != nil {
		return "", err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO files (bucket, `+recordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.opts.Bucket,
		record.ID,
		record.DisplayName,
		record.OriginalName,
		record.ContentType,
		record.Length,
		record.ChunkSize,
		record.ChunkCount,
		record.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrNameTaken
		}
		return "", domain.NewStorageError("create record", err)
	}
	return record.ID, nil
}

// FindByName resolves a display name to its record.
func (s *Store) FindByName(ctx context.Context, displayName string) (*domain.FileRecord, error) {
	return s.findOne(ctx,
		`SELECT `+recordColumns+` FROM files WHERE bucket = $1 AND display_name = $2`,
		displayName,
	)
}

// FindByID loads a record by file ID.
func (s *Store) FindByID(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	return s.findOne(ctx,
		`SELECT `+recordColumns+` FROM files WHERE bucket = $1 AND id = $2`,
		fileID,
	)
}

// ListAll loads every committed record.
func (s *Store) ListAll(ctx context.Context) ([]*domain.FileRecord, error) {
	pool, err := s.handle("list records")
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT `+recordColumns+` FROM files WHERE bucket = $1 ORDER BY uploaded_at, id`,
		s.opts.Bucket,
	)
	if err != nil {
		return nil, domain.NewStorageError("list records", err)
	}
	defer rows.Close()

	records := make([]*domain.FileRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, domain.NewStorageError("list records", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list records", err)
	}
	return records, nil
}

func (s *Store) findOne(ctx context.Context, query, arg string) (*domain.FileRecord, error) {
	pool, err := s.handle("find record")
	if err != nil {
		return nil, err
	}

	rec, err := scanRecord(pool.QueryRow(ctx, query, s.opts.Bucket, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("find record", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (*domain.FileRecord, error) {
	rec := &domain.FileRecord{}
	err := row.Scan(
		&rec.ID,
		&rec.DisplayName,
		&rec.OriginalName,
		&rec.ContentType,
		&rec.Length,
		&rec.ChunkSize,
		&rec.ChunkCount,
		&rec.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
