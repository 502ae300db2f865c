package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"clinica/pkg/platform/sentinel"
)

// FSStorage keeps blobs on the local filesystem under a root directory.
// Keys map to file paths; path traversal outside the root is rejected.
type FSStorage struct {
	root string
}

func NewFSStorage(root string) (*FSStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create assets root: %w", err)
	}
	return &FSStorage{root: root}, nil
}

func (s *FSStorage) Upload(_ context.Context, req UploadRequest) error {
	path, err := s.resolve(req.Key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp asset: %w", err)
	}
	if _, err := io.Copy(tmp, req.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close asset: %w", err)
	}
	// Rename keeps a concurrent reader from observing a half-written blob.
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("store asset: %w", err)
	}
	return nil
}

func (s *FSStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("open asset: %w", err)
	}
	return f, nil
}

func (s *FSStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("asset key is empty")
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("asset key escapes storage root")
	}
	return path, nil
}
