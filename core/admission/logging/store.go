// Package logging persists admission decisions for later review.
package logging

import (
	"context"
	"time"

	"github.com/lessonbird/timetable/core/model"
)

// LogRecord captures one admission decision and its outcome.
type LogRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Candidate model.Placement `json:"candidate"`
	Admitted  bool            `json:"admitted"`
	// Evicted lists the placement ids removed to make room for the
	// candidate. Empty when the candidate was rejected.
	Evicted []string `json:"evicted,omitempty"`
	// ErrorKind and ErrorMessage describe the rejection; both are empty on
	// admission.
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start     time.Time
	End       time.Time
	ClassID   string
	TeacherID string
	// Admitted filters by outcome when non-nil.
	Admitted *bool
}

// matches reports whether the record satisfies every set filter.
func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.ClassID != "" && r.Candidate.ClassID != q.ClassID {
		return false
	}
	if q.TeacherID != "" && r.Candidate.TeacherID != q.TeacherID {
		return false
	}
	if q.Admitted != nil && r.Admitted != *q.Admitted {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}
