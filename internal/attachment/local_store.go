package attachment

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps attachment blobs on local disk. Keys are fanned out into a
// two-level directory tree so no single directory grows unbounded.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) path(key string) string {
	if len(key) < 4 {
		return filepath.Join(s.baseDir, key)
	}
	return filepath.Join(s.baseDir, key[0:2], key[2:4], key)
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	fullPath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create blob file: %w", err)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write blob content: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to close blob file: %w", err)
	}

	// Content type lives in a sidecar so Open can report it back.
	metaPath := fullPath + ".meta"
	if err := os.WriteFile(metaPath, []byte(contentType), 0644); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write blob metadata: %w", err)
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := s.path(key)
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open blob: %w", err)
	}

	contentType := "application/octet-stream"
	if meta, err := os.ReadFile(fullPath + ".meta"); err == nil {
		contentType = string(meta)
	}
	return f, contentType, nil
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	fullPath := s.path(key)
	os.Remove(fullPath + ".meta")
	err := os.Remove(fullPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
