package storage

import (
	"Folio/internal/config"
	"context"
	"fmt"
)

// NewBlobStore builds the backend named by storage.backend. The returned
// cleanup releases any handle the backend holds open.
func NewBlobStore(cfg *config.Configuration) (BlobStore, func(), error) {
	storageCfg := cfg.Storage
	switch storageCfg.Backend {
	case "", "filesystem":
		store, err := NewFileSystemStore(storageCfg.Path, storageCfg.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "s3":
		client, err := NewS3Client(context.Background(), storageCfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return NewS3Store(client, storageCfg.S3.Bucket, storageCfg.S3.KeyPrefix, storageCfg.PublicBaseURL), func() {}, nil
	case "badger":
		store, err := NewBadgerStore(storageCfg.Badger.Path, storageCfg.Badger.InMemory, storageCfg.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", storageCfg.Backend)
	}
}
