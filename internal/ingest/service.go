package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ingestmetrics "eventgate/internal/ingest/metrics"
	id "eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/audit"
	"eventgate/pkg/platform/sentinel"
	"eventgate/pkg/requestcontext"
)

// Service is the ingestion writer. It assigns record identity, stamps the
// caller from the authorization decision, and persists through the store
// collaborator. No retry lives here: a failed write surfaces as-is and the
// outer transport owns any retry policy.
type Service struct {
	store   RecordStore
	trail   *audit.Trail
	logger  *slog.Logger
	metrics *ingestmetrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *ingestmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(store RecordStore, trail *audit.Trail, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if trail == nil {
		return nil, fmt.Errorf("audit trail is required")
	}
	svc := &Service{store: store, trail: trail}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Write persists a validated, authorized event as a uniquely identified
// record and returns it together with a duplicate flag.
//
// Without an idempotency key the record gets a fresh random ID and retried
// requests produce distinct records. With a key the ID is derived from it,
// so a retry lands on the already written record: the original is returned
// unchanged and duplicate is true.
func (s *Service) Write(ctx context.Context, event *Event, identity *requestcontext.CallerIdentity, idempotencyKey string) (*StoredRecord, bool, error) {
	if event == nil {
		return nil, false, dErrors.New(dErrors.CodeBadRequest, "event is required")
	}
	if identity == nil {
		return nil, false, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}

	recordID := id.NewRecordID()
	if idempotencyKey != "" {
		recordID = id.DeterministicRecordID(idempotencyKey)
		existing, err := s.store.Get(ctx, recordID)
		switch {
		case err == nil:
			s.trail.Record(ctx, audit.EventRecordIngested, audit.Event{
				Subject:  identity.Subject,
				RecordID: recordID.String(),
				Reason:   "idempotent_replay",
			})
			if s.metrics != nil {
				s.metrics.ObserveIngest("duplicate")
			}
			return existing, true, nil
		case errors.Is(err, sentinel.ErrNotFound):
			// First write under this key; fall through.
		default:
			return nil, false, s.writeFailed(ctx, identity, err)
		}
	}

	record := &StoredRecord{
		ID:        recordID,
		UserID:    event.UserID,
		EventType: event.EventType,
		Data:      event.Data,
		Subject:   identity.Subject,
		Email:     identity.Email,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}

	start := time.Now()
	if err := s.store.Put(ctx, record); err != nil {
		return nil, false, s.writeFailed(ctx, identity, err)
	}
	if s.metrics != nil {
		s.metrics.ObserveWriteDuration(time.Since(start))
		s.metrics.ObserveIngest("stored")
	}

	s.trail.Record(ctx, audit.EventRecordIngested, audit.Event{
		Subject:  identity.Subject,
		RecordID: record.ID.String(),
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "record ingested",
			"record_id", record.ID.String(),
			"event_type", record.EventType,
			"subject", identity.Subject,
		)
	}
	return record, false, nil
}

func (s *Service) writeFailed(ctx context.Context, identity *requestcontext.CallerIdentity, err error) error {
	s.trail.Record(ctx, audit.EventIngestFailed, audit.Event{
		Subject: identity.Subject,
		Reason:  "storage_unavailable",
	})
	if s.metrics != nil {
		s.metrics.ObserveIngest("failed")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
}
