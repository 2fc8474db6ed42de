package admission

import (
	"errors"
	"fmt"
)

// Kind classifies resolution failures so callers can map them to a response
// (different slot, room or teacher) without parsing messages.
type Kind int

const (
	// KindNone marks the zero value; it is never carried by an Error.
	KindNone Kind = iota
	// KindValidation covers malformed input, unknown subjects and
	// mismatched school/term scope.
	KindValidation
	// KindSoloConflict is returned when a solo subject blocks the slot in
	// either direction.
	KindSoloConflict
	// KindPriorityConflict is returned when an equal-or-higher-priority
	// incumbent holds the slot.
	KindPriorityConflict
	// KindTeacherConflict is returned when the teacher is already assigned
	// elsewhere in the same period.
	KindTeacherConflict
	// KindLocationConflict is returned when the requested room is already
	// booked in the same period.
	KindLocationConflict
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindSoloConflict:
		return "solo_conflict"
	case KindPriorityConflict:
		return "priority_conflict"
	case KindTeacherConflict:
		return "teacher_conflict"
	case KindLocationConflict:
		return "location_conflict"
	default:
		return "none"
	}
}

// Error is the single error type surfaced by the engine. All kinds are
// caller-recoverable.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or KindNone when err is nil or not an
// admission error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
