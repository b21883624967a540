// Package storage is the object-storage collaborator: raw image bytes plus a
// MIME type go in, a stable retrievable URL comes out. Both user uploads and
// compositor output pass through here.
package storage

import (
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store persists image artifacts and serves them back by reference.
type Store interface {
	// Put stores the bytes and returns a stable URL for them.
	Put(data []byte, contentType string) (string, error)
	// Open streams a previously stored artifact by its URL or name.
	Open(ref string) (io.ReadCloser, error)
}

// FilesystemStore keeps artifacts in a local directory, served under a base
// URL path by the HTTP layer.
type FilesystemStore struct {
	dir     string
	baseURL string
}

// NewFilesystemStore ensures the directory exists and returns a store whose
// URLs are baseURL + "/" + generated name.
func NewFilesystemStore(dir, baseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage dir %s", dir)
	}
	return &FilesystemStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes the artifact under a fresh UUID name with an extension derived
// from the MIME type.
func (s *FilesystemStore) Put(data []byte, contentType string) (string, error) {
	name := uuid.NewString() + extensionFor(contentType)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write artifact %s", name)
	}
	return s.baseURL + "/" + name, nil
}

// Open resolves the reference back to the stored file. Only the final path
// segment is honored, so references cannot escape the storage directory.
func (s *FilesystemStore) Open(ref string) (io.ReadCloser, error) {
	name := path.Base(ref)
	if name == "." || name == "/" || strings.Contains(name, "..") {
		return nil, errors.Errorf("invalid artifact reference %q", ref)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, errors.Wrapf(err, "open artifact %s", name)
	}
	return f, nil
}

// Dir returns the directory artifacts are stored in, for the file server.
func (s *FilesystemStore) Dir() string { return s.dir }

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
