package store

import (
	"context"
	"sync"
	"time"

	"github.com/kioku-dev/kioku/internal/models"
)

// MemoryStore is an in-memory RecordStore for tests and single-process
// deployments that do not need durability.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*models.VectorRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends one record.
func (s *MemoryStore) Insert(ctx context.Context, record *models.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.records = append(s.records, record)
	return nil
}

// InsertBatch appends records in order.
func (s *MemoryStore) InsertBatch(ctx context.Context, records []*models.VectorRecord) error {
	for _, record := range records {
		if err := s.Insert(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// ScanAll returns a snapshot copy of the record slice in insertion order.
// The records themselves are shared; callers must not mutate them.
func (s *MemoryStore) ScanAll(ctx context.Context) ([]*models.VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.VectorRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
