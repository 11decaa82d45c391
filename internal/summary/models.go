// Package summary implements the periodic aggregation job. Each run scans
// stored records in a trailing window and writes exactly one summary object
// under a name derived from the window boundaries, so a rerun for the same
// window overwrites rather than accumulates.
package summary

import (
	"fmt"
	"time"
)

// Summary is the aggregation artifact for one window. Immutable once written.
type Summary struct {
	GeneratedAt      time.Time      `json:"generatedAt"`
	WindowStart      time.Time      `json:"windowStart"`
	WindowEnd        time.Time      `json:"windowEnd"`
	TotalCount       int            `json:"totalCount"`
	ByEventType      map[string]int `json:"byEventType"`
	UniqueUsers      int            `json:"uniqueUsers"`
	UniqueEventTypes int            `json:"uniqueEventTypes"`
	TopUsers         []NameCount    `json:"topUsers"`
	TopEventTypes    []NameCount    `json:"topEventTypes"`
}

// NameCount is one leaderboard entry.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ObjectName derives the deterministic storage name for a window. The same
// boundaries always yield the same name; that property carries the
// idempotent-overwrite guarantee for overlapping runs.
func ObjectName(start, end time.Time) string {
	return fmt.Sprintf("summaries/summary-%d-%d.json", start.Unix(), end.Unix())
}
