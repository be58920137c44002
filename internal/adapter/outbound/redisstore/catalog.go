package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/redis/go-redis/v9"
)

// createRecord claims the display name and writes the record atomically.
// KEYS: file key, name key, files set. ARGV: record JSON, file ID.
var createRecord = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
redis.call('SADD', KEYS[3], ARGV[2])
return 1
`)

// Create commits record, failing with domain.ErrNameTaken on a name clash.
func (s *Store) Create(ctx context.Context, record *domain.FileRecord) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	err = s.do(ctx, "create record", func(ctx context.Context, c *redis.Client) error {
		keys := []string{
			s.key("file", record.ID),
			s.key("filename", record.DisplayName),
			s.key("files"),
		}
		created, err := createRecord.Run(ctx, c, keys, payload, record.ID).Int()
		if err != nil {
			return err
		}
		if created == 0 {
			return domain.ErrNameTaken
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// FindByName resolves a display name to its record.
func (s *Store) FindByName(ctx context.Context, displayName string) (*domain.FileRecord, error) {
	var record *domain.FileRecord
	err := s.do(ctx, "find record", func(ctx context.Context, c *redis.Client) error {
		id, err := c.Get(ctx, s.key("filename", displayName)).Result()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		record, err = s.loadRecord(ctx, c, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads a record by file ID.
func (s *Store) FindByID(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	var record *domain.FileRecord
	err := s.do(ctx, "find record", func(ctx context.Context, c *redis.Client) error {
		var err error
		record, err = s.loadRecord(ctx, c, fileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListAll loads every committed record.
func (s *Store) ListAll(ctx context.Context) ([]*domain.FileRecord, error) {
	var records []*domain.FileRecord
	err := s.do(ctx, "list records", func(ctx context.Context, c *redis.Client) error {
		ids, err := c.SMembers(ctx, s.key("files")).Result()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			records = []*domain.FileRecord{}
			return nil
		}

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = s.key("file", id)
		}
		values, err := c.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}

		records = make([]*domain.FileRecord, 0, len(values))
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var rec domain.FileRecord
			if err := json.Unmarshal([]byte(raw), &rec); err != nil {
				return fmt.Errorf("decode record %s: %w", ids[i], err)
			}
			records = append(records, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) loadRecord(ctx context.Context, c *redis.Client, fileID string) (*domain.FileRecord, error) {
	raw, err := c.Get(ctx, s.key("file", fileID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec domain.FileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", fileID, err)
	}
	return &rec, nil
}
