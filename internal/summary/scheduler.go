package summary

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler drives the aggregation service on a fixed interval. It stands in
// for an external timer: each tick invokes one run with the current time.
// A failed run is logged and the loop continues; the window math makes the
// next tick's overwrite self-healing.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(service *Service, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{service: service, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, invoking one aggregation per tick.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := s.service.Run(ctx, now); err != nil {
				s.logger.ErrorContext(ctx, "scheduled aggregation failed", "error", err)
			}
		}
	}
}
