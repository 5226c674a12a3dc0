package storage

import (
	"Folio/internal/helpers"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSystemStore keeps blobs as files below root, mirroring the key's
// folder segments on disk.
type FileSystemStore struct {
	root          string
	publicBaseURL string
}

func NewFileSystemStore(root, publicBaseURL string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileSystemStore{root: root, publicBaseURL: publicBaseURL}, nil
}

func (s *FileSystemStore) location(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *FileSystemStore) Write(ctx context.Context, folder, name string, r io.Reader) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := BuildKey(folder, name)
	if err != nil {
		return nil, err
	}
	location, err := s.location(key)
	if err != nil {
		return nil, err
	}
	size, sum, err := helpers.SaveFileAndComputeChecksum(contextReader{ctx: ctx, r: r}, location)
	if err != nil {
		return nil, fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return &Blob{Key: key, URL: publicURL(s.publicBaseURL, key), Size: size, SHA256: sum}, nil
}

func (s *FileSystemStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	location, err := s.location(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrBlobNotFound)
		}
		return nil, err
	}
	return file, nil
}

func (s *FileSystemStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	location, err := s.location(key)
	if err != nil {
		return err
	}
	if err = helpers.DeleteFile(location, false); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileSystemStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	location, err := s.location(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(location)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// contextReader stops a copy as soon as ctx is cancelled, so an aborted
// upload never completes the write.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
