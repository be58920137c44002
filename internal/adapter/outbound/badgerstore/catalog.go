package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

const conflictRetries = 3

// Create commits record and its name index in one transaction.
func (s *Store) Create(ctx context.Context, record *domain.FileRecord) (string, error) {
	db, err := s.handle("create record")
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		err = db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(s.nameKey(record.DisplayName))
			if err == nil {
				return domain.ErrNameTaken
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(s.fileKey(record.ID), payload); err != nil {
				return err
			}
			return txn.Set(s.nameKey(record.DisplayName), []byte(record.ID))
		})
		if errors.Is(err, badger.ErrConflict) && attempt < conflictRetries {
			continue
		}
		if err != nil {
			return "", domain.NewStorageError("create record", err)
		}
		return record.ID, nil
	}
}

// FindByName resolves a display name to its record.
func (s *Store) FindByName(ctx context.Context, displayName string) (*domain.FileRecord, error) {
	db, err := s.handle("find record")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *domain.FileRecord
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.nameKey(displayName))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		record, err = s.loadRecord(txn, string(id))
		return err
	})
	if err != nil {
		return nil, domain.NewStorageError("find record", err)
	}
	return record, nil
}

// FindByID loads a record by file ID.
func (s *Store) FindByID(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	db, err := s.handle("find record")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *domain.FileRecord
	err = db.View(func(txn *badger.Txn) error {
		var err error
		record, err = s.loadRecord(txn, fileID)
		return err
	})
	if err != nil {
		return nil, domain.NewStorageError("find record", err)
	}
	return record, nil
}

// ListAll loads every committed record.
func (s *Store) ListAll(ctx context.Context) ([]*domain.FileRecord, error) {
	db, err := s.handle("list records")
	if err != nil {
		return nil, err
	}

	records := make([]*domain.FileRecord, 0)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(s.bucket + "/file/")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec domain.FileRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode record %s: %w", it.Item().Key(), err)
			}
			records = append(records, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("list records", err)
	}
	return records, nil
}

func (s *Store) loadRecord(txn *badger.Txn, fileID string) (*domain.FileRecord, error) {
	item, err := txn.Get(s.fileKey(fileID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec domain.FileRecord
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("decode record %s: %w", fileID, err)
	}
	return &rec, nil
}
