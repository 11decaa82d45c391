package ingest

import (
	"context"
	"time"

	id "eventgate/pkg/domain"
)

// RecordStore is the durable key-value collaborator for stored records.
// Implementations must be safe for concurrent use. Stores return sentinel
// errors (pkg/platform/sentinel); the service translates them.
type RecordStore interface {
	// Put persists a record keyed by its ID. Writing an ID that already
	// exists leaves the original record untouched (records are immutable).
	Put(ctx context.Context, record *StoredRecord) error

	// Get fetches a record by ID, or sentinel.ErrNotFound.
	Get(ctx context.Context, recordID id.RecordID) (*StoredRecord, error)

	// ScanWindow returns all records with CreatedAt in the half-open
	// window [start, end), ordered by CreatedAt.
	ScanWindow(ctx context.Context, start, end time.Time) ([]StoredRecord, error)
}
