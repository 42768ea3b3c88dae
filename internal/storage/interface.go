package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no content exists under a key.
var ErrNotFound = errors.New("storage: key not found")

// Metadata is the sidecar record written next to an archived workbook.
type Metadata struct {
	ContentType  string    `json:"contentType,omitempty"`
	OriginalName string    `json:"originalName,omitempty"`
	Series       string    `json:"series,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt,omitempty"`
}

// Storage stores and retrieves archived workbooks by key. The archive layer
// speaks keys, not paths, so an object-store backend can replace the local
// filesystem without touching it.
type Storage interface {
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error
	Get(ctx context.Context, key string) ([]byte, error)
}
