package badgerstore

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

// Put stores one chunk, overwriting an existing one at the same index.
func (s *Store) Put(ctx context.Context, fileID string, index int, data []byte) error {
	db, err := s.handle("put chunk")
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Badger holds on to the value until commit; the caller reuses data.
	value := append([]byte(nil), data...)
	err = db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.chunkKey(fileID, index), value)
	})
	return domain.NewStorageError("put chunk", err)
}

// Get returns one chunk payload.
func (s *Store) Get(ctx context.Context, fileID string, index int) ([]byte, error) {
	db, err := s.handle("get chunk")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.chunkKey(fileID, index))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, domain.NewStorageError("get chunk", err)
	}
	return data, nil
}

// List returns the stored indices of fileID in ascending order.
func (s *Store) List(ctx context.Context, fileID string) ([]int, error) {
	db, err := s.handle("list chunks")
	if err != nil {
		return nil, err
	}

	prefix := s.chunkPrefix(fileID)
	indices := make([]int, 0)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx, err := strconv.Atoi(string(it.Item().Key()[len(prefix):]))
			if err != nil {
				continue
			}
			indices = append(indices, idx)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("list chunks", err)
	}
	return indices, nil
}

// FileIDs returns every file ID that owns chunks, in key order.
func (s *Store) FileIDs(ctx context.Context) ([]string, error) {
	db, err := s.handle("list chunk files")
	if err != nil {
		return nil, err
	}

	prefix := []byte(s.bucket + "/chunk/")
	ids := make([]string, 0)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		var last string
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			rest := it.Item().Key()[len(prefix):]
			sep := bytes.IndexByte(rest, '/')
			if sep <= 0 {
				continue
			}
			id := string(rest[:sep])
			if id != last {
				ids = append(ids, id)
				last = id
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("list chunk files", err)
	}
	return ids, nil
}

// DeleteFile removes every chunk of fileID.
func (s *Store) DeleteFile(ctx context.Context, fileID string) (int, error) {
	db, err := s.handle("delete chunks")
	if err != nil {
		return 0, err
	}

	var keys [][]byte
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = s.chunkPrefix(fileID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, domain.NewStorageError("delete chunks", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, domain.NewStorageError("delete chunks", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, domain.NewStorageError("delete chunks", err)
	}
	return len(keys), nil
}
