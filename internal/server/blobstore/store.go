// Package blobstore keeps note attachments in an S3-compatible object store.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store puts and removes attachment blobs. Put returns the public URL of the
// stored object.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh object key of the form notes/yyyy/mm/dd/<uuid><ext>.
// ext is expected with its leading dot, or empty.
func NewKey(now time.Time, ext string) string {
	return fmt.Sprintf("notes/%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), strings.ToLower(ext))
}
