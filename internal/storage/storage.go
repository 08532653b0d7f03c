// Package storage provides the filesystem-backed object store used for
// resume binaries. Object paths are slash-separated keys relative to a
// root directory; writing an existing key overwrites it.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore writes objects under a root directory on the local filesystem.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir, creating the directory when
// it does not exist yet.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Put writes data at the given key, creating parent directories as needed
// and overwriting any existing object.
func (f *FileStore) Put(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object %s: %w", path, err)
	}
	return nil
}

// Get reads the object at the given key.
func (f *FileStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}
	return data, nil
}

// Remove deletes the object at the given key. Removing a missing object is
// not an error.
func (f *FileStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}
	return nil
}

// resolve maps an object key onto the filesystem and rejects keys that
// escape the root.
func (f *FileStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean(strings.TrimPrefix(path, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return filepath.Join(f.root, filepath.FromSlash(cleaned)), nil
}
