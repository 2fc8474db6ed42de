// Package events defines the timetable change events emitted on the event
// bus.
//
// Available event types:
//   - AdmittedEvent: a candidate placement was admitted and persisted
//   - EvictedEvent: an incumbent placement was removed to make room
//   - RemovedEvent: a placement was explicitly deleted
//   - RejectedEvent: a candidate placement was rejected
package events
