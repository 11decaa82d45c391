// Package domain holds typed identifiers shared across modules. Wrapping
// uuid.UUID in distinct types keeps record and summary IDs from being mixed
// up at call sites.
package domain

import (
	"github.com/google/uuid"

	dErrors "eventgate/pkg/domain-errors"
)

// RecordID identifies a stored ingestion record.
type RecordID uuid.UUID

// NewRecordID returns a fresh random record ID.
func NewRecordID() RecordID {
	return RecordID(uuid.New())
}

// DeterministicRecordID derives a record ID from a caller-supplied
// idempotency key. The same key always yields the same ID, so a retried
// write lands on the same record instead of creating a duplicate.
func DeterministicRecordID(idempotencyKey string) RecordID {
	return RecordID(uuid.NewSHA1(recordNamespace, []byte(idempotencyKey)))
}

// recordNamespace scopes derived IDs so they cannot collide with IDs derived
// from the same key material elsewhere.
var recordNamespace = uuid.MustParse("9e336ba3-6b6f-4a34-9e57-6f255c7f2a81")

// ParseRecordID parses and validates a record ID from its string form.
// IDs must be valid, non-nil UUIDs.
func ParseRecordID(s string) (RecordID, error) {
	if s == "" {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return RecordID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid record id")
	}
	if parsed == uuid.Nil {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id cannot be nil")
	}
	return RecordID(parsed), nil
}

func (id RecordID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText renders the ID in canonical UUID form so JSON payloads carry a
// string rather than a byte array.
func (id RecordID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (id *RecordID) UnmarshalText(b []byte) error {
	parsed, err := ParseRecordID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IsNil reports whether the ID is the zero UUID.
func (id RecordID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}
