// Package upload persists uploaded key images. The default backend writes to
// a local directory served under /api/uploads; an S3 backend takes over when
// bucket credentials are configured.
package upload

import (
	"context"
	"errors"
)

// MaxFileSize caps uploads at 5 MB.
const MaxFileSize = 5 * 1024 * 1024

var ErrFileTooLarge = errors.New("file too large")

// Storage saves image bytes under a generated name and returns a served URL.
type Storage interface {
	Save(ctx context.Context, content []byte, ext string) (string, error)
}
