package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "blob:"

// BadgerStore keeps each blob as a single value in an embedded badger
// database. Values are held in memory while written and read, so it suits
// small deployments.
type BadgerStore struct {
	db            *badger.DB
	publicBaseURL string
}

func NewBadgerStore(path string, inMemory bool, publicBaseURL string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerStore{db: db, publicBaseURL: publicBaseURL}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func badgerKey(key string) []byte {
	return []byte(badgerKeyPrefix + key)
}

func (s *BadgerStore) Write(ctx context.Context, folder, name string, r io.Reader) (*Blob, error) {
	key, err := BuildKey(folder, name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(contextReader{ctx: ctx, r: r})
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(key), data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store blob %s: %w", key, err)
	}
	sum := sha256.Sum256(data)
	return &Blob{
		Key:    key,
		URL:    publicURL(s.publicBaseURL, key),
		Size:   int64(len(data)),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}

func (s *BadgerStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s: %w", key, ErrBlobNotFound)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(key))
	})
}

func (s *BadgerStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(badgerKey(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
