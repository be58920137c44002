package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrStorage          = errors.New("storage error")
	ErrNotReady         = errors.New("store not ready")
	ErrValidation       = errors.New("validation failed")
	ErrNameTaken        = errors.New("display name already in use")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrCorruptStream    = errors.New("file stream corrupt or incomplete")
)

// StorageError reports a backing-store failure for one operation.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err unless it already is a storage error or a not-found result.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNameTaken) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrStorage, e.Op)
	}
	return fmt.Sprintf("%v: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
