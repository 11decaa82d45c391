// Package ingest implements the validation-and-write pipeline for client
// submitted events.
package ingest

import (
	"time"

	id "eventgate/pkg/domain"
)

// Event is the client-submitted payload. Data is free-form and passed
// through untouched; unknown top-level fields are ignored so the schema can
// grow without breaking older clients.
type Event struct {
	UserID    string         `json:"userId"`
	EventType string         `json:"eventType"`
	Data      map[string]any `json:"data,omitempty"`
}

// StoredRecord is an accepted Event plus system-assigned fields. Records are
// immutable once written; retention is an external concern.
type StoredRecord struct {
	ID        id.RecordID    `json:"id"`
	UserID    string         `json:"userId"`
	EventType string         `json:"eventType"`
	Data      map[string]any `json:"data,omitempty"`
	// Subject and Email come from the authorization decision, not the payload.
	Subject   string    `json:"authenticatedSubject"`
	Email     string    `json:"authenticatedEmail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IngestResponse acknowledges a stored record. Duplicate marks an idempotent
// replay: the record already existed under the caller's idempotency key.
type IngestResponse struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Duplicate bool   `json:"duplicate,omitempty"`
}
