package events

import (
	"time"

	"github.com/lessonbird/timetable/core/model"
)

// Event is a timetable change carried on the event bus.
type Event interface {
	OccurredAt() time.Time
}

// AdmittedEvent is published after a candidate has been committed to the
// store.
type AdmittedEvent struct {
	Placement model.Placement
	Evicted   []string
	Time      time.Time
}

// OccurredAt returns the admission time.
func (e AdmittedEvent) OccurredAt() time.Time { return e.Time }

// EvictedEvent is published once per incumbent removed by an admission.
type EvictedEvent struct {
	Placement model.Placement
	// AdmittedID names the placement that claimed the slot.
	AdmittedID string
	Time       time.Time
}

// OccurredAt returns the eviction time.
func (e EvictedEvent) OccurredAt() time.Time { return e.Time }

// RemovedEvent is published when a placement is deleted explicitly rather
// than evicted.
type RemovedEvent struct {
	Placement model.Placement
	Time      time.Time
}

// OccurredAt returns the removal time.
func (e RemovedEvent) OccurredAt() time.Time { return e.Time }

// RejectedEvent is published when a candidate fails resolution.
type RejectedEvent struct {
	Candidate model.Placement
	Kind      string
	Reason    string
	Time      time.Time
}

// OccurredAt returns the rejection time.
func (e RejectedEvent) OccurredAt() time.Time { return e.Time }
