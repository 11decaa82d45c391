package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventgate/internal/ingest"
	id "eventgate/pkg/domain"
	"eventgate/pkg/platform/sentinel"
)

// PostgresRecordStore persists records in the `records` table:
//
//	CREATE TABLE records (
//	    id         UUID PRIMARY KEY,
//	    user_id    TEXT NOT NULL,
//	    event_type TEXT NOT NULL,
//	    data       JSONB,
//	    subject    TEXT NOT NULL,
//	    email      TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX records_created_at_idx ON records (created_at);
type PostgresRecordStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

func (s *PostgresRecordStore) Put(ctx context.Context, record *ingest.StoredRecord) error {
	var data []byte
	if record.Data != nil {
		var err error
		data, err = json.Marshal(record.Data)
		if err != nil {
			return fmt.Errorf("marshal record data: %w", err)
		}
	}

	// ON CONFLICT DO NOTHING keeps records immutable: a replayed write under
	// the same ID leaves the original untouched.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, user_id, event_type, data, subject, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		uuid.UUID(record.ID), record.UserID, record.EventType, data,
		record.Subject, record.Email, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *PostgresRecordStore) Get(ctx context.Context, recordID id.RecordID) (*ingest.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_type, data, subject, email, created_at
		FROM records WHERE id = $1`,
		uuid.UUID(recordID),
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

func (s *PostgresRecordStore) ScanWindow(ctx context.Context, start, end time.Time) ([]ingest.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, event_type, data, subject, email, created_at
		FROM records
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	defer rows.Close()

	var out []ingest.StoredRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		out = append(out, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ingest.StoredRecord, error) {
	var (
		record ingest.StoredRecord
		rawID  uuid.UUID
		data   []byte
	)
	if err := row.Scan(&rawID, &record.UserID, &record.EventType, &data,
		&record.Subject, &record.Email, &record.CreatedAt); err != nil {
		return nil, err
	}
	record.ID = id.RecordID(rawID)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &record.Data); err != nil {
			return nil, fmt.Errorf("unmarshal record data: %w", err)
		}
	}
	return &record, nil
}
