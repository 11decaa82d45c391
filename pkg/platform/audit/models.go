// Package audit defines the transport-agnostic audit event model and the
// trail that records it. Every authorization decision and every ingest or
// aggregation outcome produces exactly one event; emission is best-effort and
// must never gate the operation that produced it.
package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Secret material must never be placed in any field.
type Event struct {
	Timestamp time.Time
	Action    string // what happened (e.g. "access_denied")
	Subject   string // caller identity when known
	Email     string
	Decision  string // "allow" / "deny" for access events
	Reason    string // why (e.g. "expired", "storage_unavailable")
	RecordID  string // affected record, for ingest events
	RequestID string // correlation ID from HTTP request context
	ClientIP  string
}

type AuditEvent string

const (
	// Access events
	EventAccessAllowed AuditEvent = "access_allowed"
	EventAccessDenied  AuditEvent = "access_denied"

	// Ingest events
	EventRecordIngested AuditEvent = "record_ingested"
	EventIngestRejected AuditEvent = "ingest_rejected"
	EventIngestFailed   AuditEvent = "ingest_failed"

	// Aggregation events
	EventSummaryGenerated AuditEvent = "summary_generated"
	EventSummaryFailed    AuditEvent = "summary_failed"
)

// Severity levels for trail routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Severity classifies an event for downstream alerting. Denials and failures
// are warnings; everything else is informational.
func (e AuditEvent) Severity() Severity {
	switch e {
	case EventAccessDenied, EventIngestRejected, EventIngestFailed, EventSummaryFailed:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
