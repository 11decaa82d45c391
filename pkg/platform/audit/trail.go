package audit

import (
	"context"
	"log/slog"
	"time"

	"eventgate/pkg/requestcontext"
)

// Store receives audit events for persistence or fan-out. Implementations
// must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Trail is the append-only audit log. It always writes a structured log line
// and, when a store is attached, appends the event there as well. A store
// failure is itself logged but never propagated: the audit trail must not
// gate the request's outcome.
type Trail struct {
	logger *slog.Logger
	store  Store
}

// Option configures a Trail.
type Option func(*Trail)

// WithStore attaches a persistent store to the trail.
func WithStore(store Store) Option {
	return func(t *Trail) {
		t.store = store
	}
}

// NewTrail builds an audit trail over the given logger.
func NewTrail(logger *slog.Logger, opts ...Option) *Trail {
	t := &Trail{logger: logger}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record emits one audit event, enriched with request-scoped metadata from
// ctx. Safe to call on every code path including early-return denials.
func (t *Trail) Record(ctx context.Context, action AuditEvent, event Event) {
	event.Action = string(action)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}

	if t.logger != nil {
		t.logger.InfoContext(ctx, event.Action,
			"log_type", "audit",
			"severity", string(action.Severity()),
			"subject", event.Subject,
			"decision", event.Decision,
			"reason", event.Reason,
			"record_id", event.RecordID,
			"request_id", event.RequestID,
			"client_ip", event.ClientIP,
		)
	}

	if t.store == nil {
		return
	}
	if err := t.store.Append(ctx, event); err != nil && t.logger != nil {
		// Append-only trail never gates the request; surface the loss and move on.
		t.logger.ErrorContext(ctx, "audit store append failed",
			"error", err,
			"action", event.Action,
			"request_id", event.RequestID,
		)
	}
}
