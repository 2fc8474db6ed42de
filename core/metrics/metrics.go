// Package metrics defines the sink interfaces the admission service records
// observability data through. Implementations live under infra/metrics.
package metrics

import (
	"time"

	"github.com/lessonbird/timetable/core/model"
)

// ResolutionRecord captures one admission decision.
type ResolutionRecord struct {
	Candidate model.Placement
	Admitted  bool
	// Kind names the rejection kind; empty when the candidate was admitted.
	Kind      string
	Evictions int
	Duration  time.Duration
	Time      time.Time
}

// MetricsSink records admission decisions for observability purposes.
type MetricsSink interface {
	RecordResolution(recs []ResolutionRecord) error
}

// ApplyRecord captures the outcome of committing a decision to the store.
type ApplyRecord struct {
	SchoolID string
	TermID   string
	Stale    bool
	Retries  int
	Err      string
	Time     time.Time
}

// ApplyRecorder is implemented by sinks able to record store commits.
type ApplyRecorder interface {
	RecordApply(rec ApplyRecord) error
}

// SnapshotSizeRecorder records the size of the snapshot a decision was made
// against.
type SnapshotSizeRecorder interface {
	RecordSnapshotSize(size int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordResolution([]ResolutionRecord) error { return nil }
func (NopSink) RecordApply(ApplyRecord) error             { return nil }
func (NopSink) RecordSnapshotSize(int) error              { return nil }
