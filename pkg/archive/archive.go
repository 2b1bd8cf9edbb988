// Package archive records completed conversions for later inspection.
//
// The archive is optional: the CLI and server run without one, and callers
// hold a nil Store when no backend is configured. Each conversion produces
// one Record describing what was converted, never the document content
// itself; the cache owns content, the archive owns history.
//
// MongoStore is the production backend. It is used by the serve command
// (one record per API conversion) and by `quill history`.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of records a listing returns when the caller
// does not ask for a specific count.
const DefaultLimit = 20

// Record describes one completed conversion.
type Record struct {
	ID          string        `bson:"_id" json:"id"`
	Source      string        `bson:"source" json:"source"`
	Format      string        `bson:"format" json:"format"`
	ContentHash string        `bson:"content_hash" json:"content_hash"`
	Size        int           `bson:"size" json:"size"`
	Duration    time.Duration `bson:"duration" json:"duration"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}

// New builds a Record with a fresh ID and timestamp.
func New(source, format, contentHash string, size int, duration time.Duration) *Record {
	return &Record{
		ID:          uuid.NewString(),
		Source:      source,
		Format:      format,
		ContentHash: contentHash,
		Size:        size,
		Duration:    duration,
		CreatedAt:   time.Now().UTC(),
	}
}

// Store is the interface for archive backends.
type Store interface {
	// Save persists a record.
	Save(ctx context.Context, rec *Record) error

	// Recent returns up to limit records, newest first. A non-positive
	// limit means DefaultLimit.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}
