package domain

import "time"

// DefaultContentType is stored when the client does not declare one.
const DefaultContentType = "application/octet-stream"

// FileRecord is the catalog entry describing one stored file.
// Field names follow the GridFS files collection layout.
type FileRecord struct {
	ID           string    `json:"_id"`
	DisplayName  string    `json:"filename"`
	OriginalName string    `json:"originalName,omitempty"`
	ContentType  string    `json:"contentType"`
	Length       int64     `json:"length"`
	ChunkSize    int64     `json:"chunkSize"`
	ChunkCount   int       `json:"chunkCount"`
	UploadedAt   time.Time `json:"uploadDate"`
}

// ChunkCountFor returns ceil(length / chunkSize).
func ChunkCountFor(length, chunkSize int64) int {
	if length <= 0 || chunkSize <= 0 {
		return 0
	}
	return int((length + chunkSize - 1) / chunkSize)
}

// ExpectedChunkLen returns the payload length chunk index must have.
func (r *FileRecord) ExpectedChunkLen(index int) int64 {
	if index < 0 || index >= r.ChunkCount {
		return 0
	}
	if index < r.ChunkCount-1 {
		return r.ChunkSize
	}
	return r.Length - int64(r.ChunkCount-1)*r.ChunkSize
}

// Validate checks the record's internal consistency before it is committed.
func (r *FileRecord) Validate() error {
	if r.ID == "" || r.DisplayName == "" {
		return ErrValidation
	}
	if r.Length < 0 || r.ChunkSize <= 0 {
		return ErrValidation
	}
	if r.ChunkCount != ChunkCountFor(r.Length, r.ChunkSize) {
		return ErrValidation
	}
	return nil
}
