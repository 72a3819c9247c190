package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage writes files to a directory that the router serves statically.
type LocalStorage struct {
	Dir     string
	BaseURL string // e.g. "/api/uploads"
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{Dir: dir, BaseURL: baseURL}, nil
}

func (s *LocalStorage) Save(_ context.Context, content []byte, ext string) (string, error) {
	if len(content) > MaxFileSize {
		return "", ErrFileTooLarge
	}
	filename := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.Dir, filename), content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.BaseURL, filename), nil
}
