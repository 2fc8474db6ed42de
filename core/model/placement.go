package model

import "fmt"

// Weekday identifies a school day. Values follow ISO-8601 ordering starting
// at Monday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// String returns a human-readable representation of the weekday.
func (d Weekday) String() string {
	switch d {
	case Monday:
		return "monday"
	case Tuesday:
		return "tuesday"
	case Wednesday:
		return "wednesday"
	case Thursday:
		return "thursday"
	case Friday:
		return "friday"
	case Saturday:
		return "saturday"
	case Sunday:
		return "sunday"
	default:
		return "unknown"
	}
}

// Placement is one timetable entry: a subject taught by a teacher to a class
// at a (day, period) coordinate, optionally in a specific room.
type Placement struct {
	// ID is empty for a candidate that has not been persisted yet.
	ID        string  `json:"id"`
	SchoolID  string  `json:"school_id"`
	TermID    string  `json:"term_id"`
	Day       Weekday `json:"day"`
	PeriodID  string  `json:"period_id"`
	ClassID   string  `json:"class_id"`
	SubjectID string  `json:"subject_id"`
	TeacherID string  `json:"teacher_id"`
	// RoomID is empty when the lesson has no assigned room.
	RoomID string `json:"room_id,omitempty"`
}

// ClassSlotKey is the coordinate placements compete for at the class level.
type ClassSlotKey struct {
	SchoolID string
	TermID   string
	Day      Weekday
	PeriodID string
	ClassID  string
}

// RoomSlotKey identifies one physical room at one (day, period).
type RoomSlotKey struct {
	SchoolID string
	TermID   string
	Day      Weekday
	PeriodID string
	RoomID   string
}

// TeacherSlotKey identifies one teacher at one (day, period).
type TeacherSlotKey struct {
	SchoolID  string
	TermID    string
	Day       Weekday
	PeriodID  string
	TeacherID string
}

// ClassSlot returns the class-slot coordinate of the placement.
func (p Placement) ClassSlot() ClassSlotKey {
	return ClassSlotKey{SchoolID: p.SchoolID, TermID: p.TermID, Day: p.Day, PeriodID: p.PeriodID, ClassID: p.ClassID}
}

// RoomSlot returns the room-slot coordinate. Only meaningful when RoomID is
// non-empty.
func (p Placement) RoomSlot() RoomSlotKey {
	return RoomSlotKey{SchoolID: p.SchoolID, TermID: p.TermID, Day: p.Day, PeriodID: p.PeriodID, RoomID: p.RoomID}
}

// TeacherSlot returns the teacher-slot coordinate of the placement.
func (p Placement) TeacherSlot() TeacherSlotKey {
	return TeacherSlotKey{SchoolID: p.SchoolID, TermID: p.TermID, Day: p.Day, PeriodID: p.PeriodID, TeacherID: p.TeacherID}
}

// SameScope reports whether both placements belong to the same school and
// term. Snapshots handed to the engine must be single-scope.
func (p Placement) SameScope(o Placement) bool {
	return p.SchoolID == o.SchoolID && p.TermID == o.TermID
}

// Validate checks that the placement carries the mandatory coordinates.
func (p Placement) Validate() error {
	if p.SchoolID == "" || p.TermID == "" {
		return fmt.Errorf("placement must carry school and term ids")
	}
	if p.Day < Monday || p.Day > Sunday {
		return fmt.Errorf("placement day %d out of range", p.Day)
	}
	if p.PeriodID == "" {
		return fmt.Errorf("placement must carry a period id")
	}
	if p.ClassID == "" {
		return fmt.Errorf("placement must carry a class id")
	}
	if p.SubjectID == "" {
		return fmt.Errorf("placement must carry a subject id")
	}
	if p.TeacherID == "" {
		return fmt.Errorf("placement must carry a teacher id")
	}
	return nil
}
