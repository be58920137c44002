package domain

import "fmt"

const (
	// DefaultChunkSize matches the GridFS default of 255 KiB rounded up to 256 KiB.
	DefaultChunkSize = 256 * 1024

	// MaxChunkSize caps the configurable chunk size.
	MaxChunkSize = 16 * 1024 * 1024
)

// ChunkKey renders the "<fileID>:<index>" form used in keys and logs.
func ChunkKey(fileID string, index int) string {
	return fmt.Sprintf("%s:%d", fileID, index)
}
