// Package record provides RecordStore implementations: an in-memory store
// for tests and local runs, and a PostgreSQL store for deployments.
package record

import (
	"context"
	"sort"
	"sync"
	"time"

	"eventgate/internal/ingest"
	id "eventgate/pkg/domain"
	"eventgate/pkg/platform/sentinel"
)

type InMemoryRecordStore struct {
	mu      sync.RWMutex
	records map[id.RecordID]ingest.StoredRecord
}

func NewInMemory() *InMemoryRecordStore {
	return &InMemoryRecordStore{
		records: make(map[id.RecordID]ingest.StoredRecord),
	}
}

func (s *InMemoryRecordStore) Put(_ context.Context, record *ingest.StoredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First write wins; records are immutable.
	if _, exists := s.records[record.ID]; exists {
		return nil
	}
	s.records[record.ID] = *record
	return nil
}

func (s *InMemoryRecordStore) Get(_ context.Context, recordID id.RecordID) (*ingest.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[recordID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	copied := record
	return &copied, nil
}

func (s *InMemoryRecordStore) ScanWindow(_ context.Context, start, end time.Time) ([]ingest.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ingest.StoredRecord
	for _, record := range s.records {
		if !record.CreatedAt.Before(start) && record.CreatedAt.Before(end) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
