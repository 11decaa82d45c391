package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/pkg/platform/audit"
	auditmem "eventgate/pkg/platform/audit/store/memory"
	"eventgate/pkg/requestcontext"
)

type brokenStore struct{ err error }

func (s *brokenStore) Append(context.Context, audit.Event) error { return s.err }

func TestRecord_AppendsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	store := auditmem.New()
	trail := audit.NewTrail(logger, audit.WithStore(store))

	trail.Record(context.Background(), audit.EventAccessDenied, audit.Event{
		Subject:  "u1",
		Decision: "deny",
		Reason:   "expired",
	})

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventAccessDenied), events[0].Action)
	assert.Equal(t, "u1", events[0].Subject)
	assert.False(t, events[0].Timestamp.IsZero())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit", line["log_type"])
	assert.Equal(t, "expired", line["reason"])
}

func TestRecord_EnrichesFromContext(t *testing.T) {
	store := auditmem.New()
	trail := audit.NewTrail(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), audit.WithStore(store))

	ctx := requestcontext.WithRequestID(context.Background(), "req-7")
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.9", "curl/8.0")

	trail.Record(ctx, audit.EventRecordIngested, audit.Event{Subject: "u1"})

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "req-7", events[0].RequestID)
	assert.Equal(t, "203.0.113.9", events[0].ClientIP)
}

// A failing store must never surface to the caller.
func TestRecord_StoreFailureIsSwallowed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	trail := audit.NewTrail(logger, audit.WithStore(&brokenStore{err: errors.New("disk full")}))

	assert.NotPanics(t, func() {
		trail.Record(context.Background(), audit.EventIngestFailed, audit.Event{})
	})
	assert.Contains(t, buf.String(), "audit store append failed")
}

func TestRecord_NoStoreConfigured(t *testing.T) {
	trail := audit.NewTrail(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	assert.NotPanics(t, func() {
		trail.Record(context.Background(), audit.EventAccessAllowed, audit.Event{Subject: "u1"})
	})
}
