package redisstore

import (
	"context"
	"errors"
	"strconv"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Put writes the chunk and indexes it in one MULTI/EXEC.
func (s *Store) Put(ctx context.Context, fileID string, index int, data []byte) error {
	return s.do(ctx, "put chunk", func(ctx context.Context, c *redis.Client) error {
		_, err := c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.chunkKey(fileID, index), data, 0)
			pipe.ZAdd(ctx, s.key("chunks", fileID), redis.Z{Score: float64(index), Member: strconv.Itoa(index)})
			pipe.SAdd(ctx, s.key("chunkfiles"), fileID)
			return nil
		})
		return err
	})
}

// Get returns one chunk payload.
func (s *Store) Get(ctx context.Context, fileID string, index int) ([]byte, error) {
	var data []byte
	err := s.do(ctx, "get chunk", func(ctx context.Context, c *redis.Client) error {
		b, err := c.Get(ctx, s.chunkKey(fileID, index)).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		data = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// List returns the stored indices of fileID in ascending order.
func (s *Store) List(ctx context.Context, fileID string) ([]int, error) {
	var indices []int
	err := s.do(ctx, "list chunks", func(ctx context.Context, c *redis.Client) error {
		members, err := c.ZRangeWithScores(ctx, s.key("chunks", fileID), 0, -1).Result()
		if err != nil {
			return err
		}
		indices = make([]int, 0, len(members))
		for _, m := range members {
			indices = append(indices, int(m.Score))
		}
		return nil
	})
	return indices, err
}

// FileIDs returns every file ID that owns chunks.
func (s *Store) FileIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.do(ctx, "list chunk files", func(ctx context.Context, c *redis.Client) error {
		var err error
		ids, err = c.SMembers(ctx, s.key("chunkfiles")).Result()
		return err
	})
	return ids, err
}

// DeleteFile removes every chunk of fileID together with its index entries.
func (s *Store) DeleteFile(ctx context.Context, fileID string) (int, error) {
	deleted := 0
	err := s.do(ctx, "delete chunks", func(ctx context.Context, c *redis.Client) error {
		members, err := c.ZRange(ctx, s.key("chunks", fileID), 0, -1).Result()
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(members)+1)
		for _, m := range members {
			keys = append(keys, s.key("chunk", fileID+":"+m))
		}

		var del *redis.IntCmd
		_, err = c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(keys) > 0 {
				del = pipe.Del(ctx, keys...)
			}
			pipe.Del(ctx, s.key("chunks", fileID))
			pipe.SRem(ctx, s.key("chunkfiles"), fileID)
			return nil
		})
		if err != nil {
			return err
		}
		if del != nil {
			deleted = int(del.Val())
		}
		return nil
	})
	return deleted, err
}
