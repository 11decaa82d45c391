package handler_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/ingest"
	ingesthandler "eventgate/internal/ingest/handler"
	recordstore "eventgate/internal/ingest/store/record"
	"eventgate/pkg/platform/audit"
	auditmem "eventgate/pkg/platform/audit/store/memory"
	"eventgate/pkg/testutil"
)

func newHandler(t *testing.T) (*ingesthandler.Handler, *auditmem.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	events := auditmem.New()
	trail := audit.NewTrail(logger, audit.WithStore(events))
	service, err := ingest.NewService(recordstore.NewInMemory(), trail, ingest.WithLogger(logger))
	require.NoError(t, err)
	return ingesthandler.New(service, trail, logger, nil), events
}

func TestHandleIngest_WithIdentity(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/ingest", map[string]any{
		"userId": "u1", "eventType": "login",
	})
	req = testutil.WithIdentity(req, "svc-1", "svc@example.com")

	rr := testutil.DoRequest(http.HandlerFunc(h.HandleIngest), req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := testutil.UnmarshalResponse[ingest.IngestResponse](t, rr)
	assert.NotEmpty(t, resp.ID)
}

// The handler itself guards against a missing identity even though the
// access middleware normally rejects first.
func TestHandleIngest_NoIdentity(t *testing.T) {
	h, events := newHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/ingest", map[string]any{
		"userId": "u1", "eventType": "login",
	})

	rr := testutil.DoRequest(http.HandlerFunc(h.HandleIngest), req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	assert.Empty(t, events.ByAction(audit.EventRecordIngested))
}

func TestHandleIngest_RejectedPayloadIsAudited(t *testing.T) {
	h, events := newHandler(t)

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/ingest", `{"userId":""}`)
	req = testutil.WithIdentity(req, "svc-1", "svc@example.com")

	rr := testutil.DoRequest(http.HandlerFunc(h.HandleIngest), req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	require.Len(t, events.ByAction(audit.EventIngestRejected), 1)
	assert.Equal(t, "svc-1", events.ByAction(audit.EventIngestRejected)[0].Subject)
}
