// Package store defines persistence for vector records.
package store

import (
	"context"
	"errors"

	"github.com/kioku-dev/kioku/internal/models"
)

// ErrStoreUnavailable indicates the backing durable store cannot accept the
// operation. It propagates to the caller undisturbed; the engine never
// retries.
var ErrStoreUnavailable = errors.New("record store unavailable")

// RecordStore is an append-only collection of vector records. No update or
// delete operations exist; record lifecycle is the backing store's concern.
// Implementations must tolerate concurrent inserts and scans with
// single-record atomicity.
type RecordStore interface {
	// Insert appends one record.
	Insert(ctx context.Context, record *models.VectorRecord) error
	// InsertBatch appends records in order. Insertion stops at the first
	// failure; earlier records stay inserted.
	InsertBatch(ctx context.Context, records []*models.VectorRecord) error
	// ScanAll returns the records present at call time in insertion order.
	// Concurrent inserts may or may not be visible (no snapshot isolation).
	ScanAll(ctx context.Context) ([]*models.VectorRecord, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
	Close() error
}
