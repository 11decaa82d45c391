package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"eventgate/internal/ingest"
	summarymetrics "eventgate/internal/summary/metrics"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/audit"
)

// Service computes and writes one summary per invocation. It is a pure
// function of (now, stored records) plus the two store collaborators, so
// overlapping runs for the same window converge on the same artifact.
type Service struct {
	records ingest.RecordStore
	objects ObjectStore
	period  time.Duration
	topN    int
	trail   *audit.Trail
	logger  *slog.Logger
	metrics *summarymetrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *summarymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTopN overrides the leaderboard size (default 10).
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

func NewService(records ingest.RecordStore, objects ObjectStore, period time.Duration, trail *audit.Trail, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if objects == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if period <= 0 {
		return nil, fmt.Errorf("aggregation period must be positive")
	}
	if trail == nil {
		return nil, fmt.Errorf("audit trail is required")
	}
	svc := &Service{
		records: records,
		objects: objects,
		period:  period,
		topN:    10,
		trail:   trail,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Run aggregates the window [now-period, now) and writes the summary object.
// Any collaborator failure aborts the run with nothing written; the next
// scheduled tick reattempts an overlapping window.
func (s *Service) Run(ctx context.Context, now time.Time) (*Summary, error) {
	start := time.Now()
	end := now.UTC().Truncate(time.Second)
	windowStart := end.Add(-s.period)

	records, err := s.records.ScanWindow(ctx, windowStart, end)
	if err != nil {
		return nil, s.failed(ctx, "scan_failed", dErrors.Wrap(err, dErrors.CodeUnavailable, "record scan failed"))
	}

	result := s.compute(records, end, windowStart)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, s.failed(ctx, "summary_write_failed", dErrors.Wrap(err, dErrors.CodeInternal, "encode summary"))
	}

	name := ObjectName(windowStart, end)
	if err := s.objects.Put(ctx, name, payload); err != nil {
		return nil, s.failed(ctx, "summary_write_failed", dErrors.Wrap(err, dErrors.CodeUnavailable, "summary write failed"))
	}

	s.trail.Record(ctx, audit.EventSummaryGenerated, audit.Event{
		RecordID: name,
	})
	if s.metrics != nil {
		s.metrics.ObserveRun("success", time.Since(start))
		s.metrics.SetRecordsScanned(len(records))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "summary generated",
			"object", name,
			"total_count", result.TotalCount,
			"unique_users", result.UniqueUsers,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return result, nil
}

func (s *Service) compute(records []ingest.StoredRecord, end, windowStart time.Time) *Summary {
	byType := make(map[string]int)
	byUser := make(map[string]int)
	for _, record := range records {
		byType[record.EventType]++
		byUser[record.UserID]++
	}

	return &Summary{
		GeneratedAt:      end,
		WindowStart:      windowStart,
		WindowEnd:        end,
		TotalCount:       len(records),
		ByEventType:      byType,
		UniqueUsers:      len(byUser),
		UniqueEventTypes: len(byType),
		TopUsers:         topItems(byUser, s.topN),
		TopEventTypes:    topItems(byType, s.topN),
	}
}

func (s *Service) failed(ctx context.Context, reason string, err error) error {
	s.trail.Record(ctx, audit.EventSummaryFailed, audit.Event{
		Reason: reason,
	})
	if s.metrics != nil {
		s.metrics.ObserveRun("failure", 0)
	}
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "summary run failed", "reason", reason, "error", err)
	}
	return err
}

// topItems returns up to limit entries sorted by descending count, ties
// broken by name so the output is deterministic.
func topItems(counts map[string]int, limit int) []NameCount {
	items := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		items = append(items, NameCount{Name: name, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
