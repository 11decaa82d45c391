// Package handler wires the ingestion pipeline to HTTP.
package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventgate/internal/ingest"
	ingestmetrics "eventgate/internal/ingest/metrics"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/audit"
	"eventgate/pkg/platform/httputil"
	"eventgate/pkg/requestcontext"
)

// maxBodyBytes caps ingest payloads. Oversized bodies fail decode and map
// to a 400 like any other malformed payload.
const maxBodyBytes = 1 << 20

// Handler serves the ingest endpoint.
type Handler struct {
	service *ingest.Service
	trail   *audit.Trail
	logger  *slog.Logger
	metrics *ingestmetrics.Metrics
}

// New constructs an ingest handler with its dependencies.
func New(service *ingest.Service, trail *audit.Trail, logger *slog.Logger, metrics *ingestmetrics.Metrics) *Handler {
	return &Handler{
		service: service,
		trail:   trail,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts the ingest endpoint on the router. The access middleware
// must already guard r: this handler assumes an authenticated identity.
func (h *Handler) Register(r chi.Router) {
	r.Post("/ingest", h.HandleIngest)
}

// HandleIngest handles POST /ingest requests.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	identity := requestcontext.Identity(ctx)
	if identity == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable request body"))
		return
	}

	event, err := ingest.Validate(body)
	if err != nil {
		if h.metrics != nil {
			h.metrics.ObserveValidationFailure()
		}
		h.trail.Record(ctx, audit.EventIngestRejected, audit.Event{
			Subject: identity.Subject,
			Reason:  dErrors.Description(err),
		})
		httputil.WriteError(w, err)
		return
	}

	record, duplicate, err := h.service.Write(ctx, event, identity, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.logger.ErrorContext(ctx, "ingest write failed",
			"request_id", requestID,
			"subject", identity.Subject,
			"event_type", event.EventType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "event ingested",
		"request_id", requestID,
		"record_id", record.ID.String(),
		"event_type", record.EventType,
		"duplicate", duplicate,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, ingest.IngestResponse{
		ID:        record.ID.String(),
		Timestamp: record.CreatedAt.Unix(),
		Duplicate: duplicate,
	})
}
