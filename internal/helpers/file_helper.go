package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const DefaultMimeType = "application/octet-stream"

// DetectMimeType prefers the declared content type and falls back to the
// file extension.
func DetectMimeType(fileName, declared string) string {
	if declared != "" && declared != DefaultMimeType {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return DefaultMimeType
}

// StoredFileName returns a collision-free name for an uploaded file that
// keeps the original extension.
func StoredFileName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}

// SaveFileAndComputeChecksum copies src to destinationPath through a
// temporary file in the same directory, so a failed copy never leaves a
// partial file at destinationPath.
func SaveFileAndComputeChecksum(src io.Reader, destinationPath string) (size int64, sha256sum string, err error) {
	dir := filepath.Dir(destinationPath)
	if err = os.MkdirAll(dir, 0o750); err != nil {
		return 0, "", err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, "", err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	hasher := sha256.New()
	size, err = io.Copy(io.MultiWriter(tmp, hasher), src)
	if err != nil {
		return 0, "", err
	}
	if err = tmp.Sync(); err != nil {
		return 0, "", err
	}
	if err = tmp.Close(); err != nil {
		return 0, "", err
	}
	if err = os.Rename(tmp.Name(), destinationPath); err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(hasher.Sum(nil)), nil
}

func DeleteFile(path string, recurse bool) error {
	if recurse {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}
