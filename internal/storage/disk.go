// Package storage persists uploaded profile photos.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"

	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// Artifact is a file written by a Store.
type Artifact struct {
	// Path is the store-relative location, also used as the public URL suffix.
	Path        string
	Size        int64
	ContentType string
}

// Store saves and removes uploaded files.
type Store interface {
	Save(fh *multipart.FileHeader) (Artifact, error)
	Remove(path string) error
}

// DiskStore writes uploads under a root directory.
type DiskStore struct {
	root    string
	maxSize int64
	newName func(ext string) string
}

// NewDiskStore creates root if needed.
func NewDiskStore(root string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{
		root:    root,
		maxSize: maxSize,
		newName: func(ext string) string { return "photo-" + ksuid.New().String() + ext },
	}, nil
}

// Root returns the directory files are written to.
func (s *DiskStore) Root() string {
	return s.root
}

// Save accepts image uploads up to the configured size.
func (s *DiskStore) Save(fh *multipart.FileHeader) (Artifact, error) {
	if fh == nil {
		return Artifact{}, apperrors.NewValidationError("Please upload a file", nil)
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return Artifact{}, apperrors.NewValidationError("Not an image! Please upload only images.", nil)
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return Artifact{}, apperrors.NewValidationError("File too large", map[string]any{"max_bytes": s.maxSize})
	}

	src, err := fh.Open()
	if err != nil {
		return Artifact{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := s.newName(strings.ToLower(filepath.Ext(fh.Filename)))
	dst, err := os.OpenFile(filepath.Join(s.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Artifact{}, fmt.Errorf("create upload: %w", err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.root, name))
		return Artifact{}, fmt.Errorf("write upload: %w", err)
	}
	return Artifact{Path: name, Size: written, ContentType: contentType}, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *DiskStore) Remove(path string) error {
	clean := filepath.Base(filepath.Clean("/" + path))
	if clean == "/" || clean == "." {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
