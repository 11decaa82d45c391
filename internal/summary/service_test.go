package summary_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/ingest"
	recordstore "eventgate/internal/ingest/store/record"
	"eventgate/internal/summary"
	objectstore "eventgate/internal/summary/store/object"
	id "eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/audit"
	auditmem "eventgate/pkg/platform/audit/store/memory"
	"eventgate/pkg/platform/sentinel"
)

const week = 7 * 24 * time.Hour

type failingRecordStore struct{ err error }

func (s *failingRecordStore) Put(context.Context, *ingest.StoredRecord) error { return s.err }
func (s *failingRecordStore) Get(context.Context, id.RecordID) (*ingest.StoredRecord, error) {
	return nil, s.err
}
func (s *failingRecordStore) ScanWindow(context.Context, time.Time, time.Time) ([]ingest.StoredRecord, error) {
	return nil, s.err
}

type failingObjectStore struct{ err error }

func (s *failingObjectStore) Put(context.Context, string, []byte) error { return s.err }
func (s *failingObjectStore) Get(context.Context, string) ([]byte, error) {
	return nil, s.err
}

type fixture struct {
	service *summary.Service
	records *recordstore.InMemoryRecordStore
	objects *objectstore.InMemoryObjectStore
	events  *auditmem.Store
}

func newFixture(t *testing.T, opts ...summary.Option) *fixture {
	t.Helper()
	records := recordstore.NewInMemory()
	objects := objectstore.NewInMemory()
	events := auditmem.New()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	trail := audit.NewTrail(logger, audit.WithStore(events))

	svc, err := summary.NewService(records, objects, week, trail, opts...)
	require.NoError(t, err)
	return &fixture{service: svc, records: records, objects: objects, events: events}
}

func (f *fixture) seed(t *testing.T, userID, eventType string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, f.records.Put(context.Background(), &ingest.StoredRecord{
		ID:        id.NewRecordID(),
		UserID:    userID,
		EventType: eventType,
		CreatedAt: createdAt,
	}))
}

func TestRun_CountsByEventType(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	f.seed(t, "u1", "a", now.Add(-time.Hour))
	f.seed(t, "u1", "a", now.Add(-2*time.Hour))
	f.seed(t, "u2", "b", now.Add(-3*time.Hour))

	result, err := f.service.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, result.ByEventType)
	assert.Equal(t, 2, result.UniqueUsers)
	assert.Equal(t, 2, result.UniqueEventTypes)
	assert.Equal(t, now, result.WindowEnd)
	assert.Equal(t, now.Add(-week), result.WindowStart)

	require.Len(t, f.events.ByAction(audit.EventSummaryGenerated), 1)
}

func TestRun_EmptyWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	result, err := f.service.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalCount)
	assert.Empty(t, result.ByEventType)

	// An empty window still produces its artifact.
	payload, err := f.objects.Get(context.Background(), summary.ObjectName(now.Add(-week), now))
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

// Records at the window end or before the start stay out of the summary.
func TestRun_WindowBoundaries(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	start := now.Add(-week)

	f.seed(t, "u0", "before", start.Add(-time.Second))
	f.seed(t, "u1", "at_start", start)
	f.seed(t, "u2", "at_end", now)

	result, err := f.service.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, map[string]int{"at_start": 1}, result.ByEventType)
}

// A rerun for the same instant overwrites the same object with identical
// content instead of producing a second artifact.
func TestRun_IdempotentRerun(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	f.seed(t, "u1", "a", now.Add(-time.Hour))

	_, err := f.service.Run(context.Background(), now)
	require.NoError(t, err)
	name := summary.ObjectName(now.Add(-week), now)
	first, err := f.objects.Get(context.Background(), name)
	require.NoError(t, err)

	_, err = f.service.Run(context.Background(), now)
	require.NoError(t, err)
	second, err := f.objects.Get(context.Background(), name)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.objects.Names(), 1)
}

func TestRun_TopListsRankedAndTruncated(t *testing.T) {
	f := newFixture(t, summary.WithTopN(2))
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		f.seed(t, "heavy", "click", now.Add(-time.Duration(i+1)*time.Minute))
	}
	f.seed(t, "light", "click", now.Add(-time.Hour))
	f.seed(t, "mid", "scroll", now.Add(-time.Hour))
	f.seed(t, "mid", "scroll", now.Add(-2*time.Hour))

	result, err := f.service.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, []summary.NameCount{
		{Name: "heavy", Count: 3},
		{Name: "mid", Count: 2},
	}, result.TopUsers)
	assert.Equal(t, []summary.NameCount{
		{Name: "click", Count: 4},
		{Name: "scroll", Count: 2},
	}, result.TopEventTypes)
}

func TestRun_ScanFailureWritesNothing(t *testing.T) {
	objects := objectstore.NewInMemory()
	events := auditmem.New()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	trail := audit.NewTrail(logger, audit.WithStore(events))

	svc, err := summary.NewService(&failingRecordStore{err: errors.New("scan refused")}, objects, week, trail)
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

	assert.Empty(t, objects.Names())
	require.Len(t, events.ByAction(audit.EventSummaryFailed), 1)
	assert.Equal(t, "scan_failed", events.ByAction(audit.EventSummaryFailed)[0].Reason)
}

func TestRun_ObjectWriteFailure(t *testing.T) {
	records := recordstore.NewInMemory()
	events := auditmem.New()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	trail := audit.NewTrail(logger, audit.WithStore(events))

	svc, err := summary.NewService(records, &failingObjectStore{err: sentinel.ErrUnavailable}, week, trail)
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	require.Len(t, events.ByAction(audit.EventSummaryFailed), 1)
}

func TestRun_PayloadRoundTrips(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	f.seed(t, "u1", "a", now.Add(-time.Hour))

	want, err := f.service.Run(context.Background(), now)
	require.NoError(t, err)

	payload, err := f.objects.Get(context.Background(), summary.ObjectName(now.Add(-week), now))
	require.NoError(t, err)

	var got summary.Summary
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, want.TotalCount, got.TotalCount)
	assert.Equal(t, want.ByEventType, got.ByEventType)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
}

func TestObjectName(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	end := start.Add(week)
	assert.Equal(t, fmt.Sprintf("summaries/summary-%d-%d.json", start.Unix(), end.Unix()), summary.ObjectName(start, end))

	// Same boundaries, same name, regardless of zone.
	assert.Equal(t, summary.ObjectName(start, end), summary.ObjectName(start.In(time.FixedZone("x", 3600)), end))
}
