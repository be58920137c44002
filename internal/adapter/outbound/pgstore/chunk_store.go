package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Put upserts one chunk.
func (s *Store) Put(ctx context.Context, fileID string, index int, data []byte) error {
	pool, err := s.handle("put chunk")
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO chunks (bucket, file_id, seq, data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (bucket, file_id, seq) DO UPDATE SET data = EXCLUDED.data`,
		s.opts.Bucket, fileID, index, data,
	)
	if err != nil {
		return domain.NewStorageError("put chunk", fmt.Errorf("chunk %s: %w", domain.ChunkKey(fileID, index), err))
	}
	return nil
}

// Get returns one chunk payload.
func (s *Store) Get(ctx context.Context, fileID string, index int) ([]byte, error) {
	pool, err := s.handle("get chunk")
	if err != nil {
		return nil, err
	}

	var data []byte
	err = pool.QueryRow(ctx,
		`SELECT data FROM chunks WHERE bucket = $1 AND file_id = $2 AND seq = $3`,
		s.opts.Bucket, fileID, index,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("get chunk", err)
	}
	return data, nil
}

// List returns the stored indices of fileID in ascending order.
func (s *Store) List(ctx context.Context, fileID string) ([]int, error) {
	pool, err := s.handle("list chunks")
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT seq FROM chunks WHERE bucket = $1 AND file_id = $2 ORDER BY seq`,
		s.opts.Bucket, fileID,
	)
	if err != nil {
		return nil, domain.NewStorageError("list chunks", err)
	}
	indices, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, domain.NewStorageError("list chunks", err)
	}
	return indices, nil
}

// FileIDs returns every file ID that owns chunks.
func (s *Store) FileIDs(ctx context.Context) ([]string, error) {
	pool, err := s.handle("list chunk files")
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT DISTINCT file_id FROM chunks WHERE bucket = $1 ORDER BY file_id`,
		s.opts.Bucket,
	)
	if err != nil {
		return nil, domain.NewStorageError("list chunk files", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, domain.NewStorageError("list chunk files", err)
	}
	return ids, nil
}

// DeleteFile removes every chunk of fileID.
func (s *Store) DeleteFile(ctx context.Context, fileID string) (int, error) {
	pool, err := s.handle("delete chunks")
	if err != nil {
		return 0, err
	}

	tag, err := pool.Exec(ctx,
		`DELETE FROM chunks WHERE bucket = $1 AND file_id = $2`,
		s.opts.Bucket, fileID,
	)
	if err != nil {
		return 0, domain.NewStorageError("delete chunks", err)
	}
	return int(tag.RowsAffected()), nil
}
