// Package lz4codec compresses chunk payloads on their way into a ChunkStore.
package lz4codec

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/pierrec/lz4/v4"
)

// Stored payloads start with a one byte mode.
const (
	modeRaw byte = 0x00
	modeLZ4 byte = 0x01

	// lz4 payloads carry the decoded length after the mode byte.
	lz4HeaderLen = 1 + 4
)

// ChunkStore wraps another ChunkStore and compresses payloads with lz4 blocks.
// Payloads that do not shrink are stored raw. Callers always see the
// original bytes, so chunk length checks are unaffected.
type ChunkStore struct {
	port.ChunkStore
}

var _ port.ChunkStore = (*ChunkStore)(nil)

// Wrap returns next with lz4 compression applied.
func Wrap(next port.ChunkStore) *ChunkStore {
	return &ChunkStore{ChunkStore: next}
}

// Put encodes data and forwards it.
func (c *ChunkStore) Put(ctx context.Context, fileID string, index int, data []byte) error {
	return c.ChunkStore.Put(ctx, fileID, index, Encode(data))
}

// Get fetches and decodes one chunk.
func (c *ChunkStore) Get(ctx context.Context, fileID string, index int) ([]byte, error) {
	stored, err := c.ChunkStore.Get(ctx, fileID, index)
	if err != nil {
		return nil, err
	}
	data, err := Decode(stored)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", domain.ChunkKey(fileID, index), err)
	}
	return data, nil
}

// Encode returns a fresh buffer holding data in stored form.
func Encode(data []byte) []byte {
	dst := make([]byte, lz4HeaderLen+lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst[lz4HeaderLen:], nil)
	if err != nil || n == 0 || lz4HeaderLen+n >= 1+len(data) {
		raw := make([]byte, 1+len(data))
		raw[0] = modeRaw
		copy(raw[1:], data)
		return raw
	}

	dst[0] = modeLZ4
	binary.BigEndian.PutUint32(dst[1:lz4HeaderLen], uint32(len(data)))
	return dst[:lz4HeaderLen+n]
}

// Decode reverses Encode.
func Decode(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	switch stored[0] {
	case modeRaw:
		return stored[1:], nil
	case modeLZ4:
		if len(stored) < lz4HeaderLen {
			return nil, fmt.Errorf("truncated lz4 header")
		}
		size := binary.BigEndian.Uint32(stored[1:lz4HeaderLen])
		if size > domain.MaxChunkSize {
			return nil, fmt.Errorf("decoded size %d exceeds chunk limit", size)
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(stored[lz4HeaderLen:], out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decode: %w", err)
		}
		if n != int(size) {
			return nil, fmt.Errorf("lz4 decode: got %d bytes, expected %d", n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown payload mode 0x%02x", stored[0])
	}
}
