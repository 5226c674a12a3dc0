package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrBlobNotFound = errors.New("blob not found")

// Blob describes bytes that have been durably written to a BlobStore.
type Blob struct {
	Key    string
	URL    string
	Size   int64
	SHA256 string
}

// BlobStore keeps raw file bytes. It does no metadata bookkeeping; callers
// address content by the key returned from Write.
type BlobStore interface {
	// Write stores r under folder/name and returns the resulting handle.
	Write(ctx context.Context, folder, name string, r io.Reader) (*Blob, error)
	// Open returns ErrBlobNotFound when key does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

const DefaultFolder = "uncategorized"

// FolderFor builds the logical folder a blob is written under from the
// category and subcategory of its node.
func FolderFor(segments ...string) string {
	var cleaned []string
	for _, segment := range segments {
		if s := sanitizeSegment(segment); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return DefaultFolder
	}
	return strings.Join(cleaned, "/")
}

// BuildKey joins folder and name into a slash separated key that cannot
// escape the store root.
func BuildKey(folder, name string) (string, error) {
	file := sanitizeSegment(name)
	if file == "" {
		return "", errors.New("blob name is empty")
	}
	var parts []string
	for _, segment := range strings.Split(folder, "/") {
		if s := sanitizeSegment(segment); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, file)
	return path.Join(parts...), nil
}

// ValidateKey rejects keys that are absolute or climb out of the root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return errors.New("invalid blob key")
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return errors.New("invalid blob key")
		}
	}
	return nil
}

func sanitizeSegment(segment string) string {
	s := strings.TrimSpace(segment)
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "/", "_")
	if s == "." || s == ".." {
		return ""
	}
	return s
}

func publicURL(baseURL, key string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + key
}
