// Package store implements the persistence boundary of the admission engine.
// A store hands out versioned snapshots and commits decisions atomically;
// the engine itself never touches storage.
package store

import (
	"context"
	"errors"

	"github.com/lessonbird/timetable/core/model"
)

// ErrStaleSnapshot is returned by Apply when the scope version moved between
// snapshot capture and commit. The caller should take a fresh snapshot and
// re-run resolution.
var ErrStaleSnapshot = errors.New("store: snapshot is stale")

// ErrNotFound is returned when a placement id does not exist.
var ErrNotFound = errors.New("store: placement not found")

// Store persists placements per (school, term) scope.
//
// Apply must perform the deletes and the insert as one atomic unit so the
// slot invariants hold under concurrent admissions. Each scope carries a
// version stamp that Apply checks and bumps, implementing optimistic
// concurrency control.
type Store interface {
	// Snapshot returns every placement of the scope along with the scope
	// version the snapshot was taken at.
	Snapshot(ctx context.Context, schoolID, termID string) ([]model.Placement, uint64, error)
	// Apply atomically deletes the given ids and inserts the placement,
	// provided the scope version still equals version. Returns
	// ErrStaleSnapshot otherwise.
	Apply(ctx context.Context, schoolID, termID string, version uint64, deleteIDs []string, insert model.Placement) error
	// Remove deletes one placement by id and returns it.
	Remove(ctx context.Context, id string) (model.Placement, error)
	// Get returns one placement by id.
	Get(ctx context.Context, id string) (model.Placement, error)
	Close() error
}
