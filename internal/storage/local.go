package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// LocalStore implements Store on the local filesystem.
// Writes go through a temp file and rename, so readers never see a partial label.
type LocalStore struct {
	basePath string // Root directory, e.g. "./data/labels"
	baseURL  string // URL prefix for served files, e.g. "/labels"
}

// NewLocalStore creates a filesystem store rooted at basePath (created if missing).
func NewLocalStore(basePath, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStore{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// resolve maps a key to a path under basePath, rejecting traversal.
func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || strings.Contains(key, "..") || clean == "/" {
		return "", ErrInvalidKey(key)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Put atomically writes content to the file for key.
func (s *LocalStore) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := atomic.WriteFile(fullPath, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.URL(key), nil
}

// Get opens the file for key.
func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound(key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// URL returns the public URL for accessing a file.
func (s *LocalStore) URL(key string) string {
	return strings.TrimSuffix(s.baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}

// Exists reports whether a file is stored under key.
func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}

	return true, nil
}
