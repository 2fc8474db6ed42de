package model

import "fmt"

// Subject describes a teachable subject and the claim its placements have on
// a class slot.
type Subject struct {
	ID   string
	Name string

	// Priority is an ordinal rank. A candidate placement may evict
	// incumbents whose subjects rank strictly lower.
	Priority int

	// CanCoRun marks subjects whose placements may share a class slot with
	// other co-run placements (parallel elective tracks).
	CanCoRun bool

	// IsSolo marks subjects that must occupy their class slot exclusively.
	// Solo overrides co-run compatibility in both directions.
	IsSolo bool
}

// Validate checks that the subject definition is sound.
func (s Subject) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("subject id must not be empty")
	}
	if s.Priority < 0 {
		return fmt.Errorf("subject %s: priority must not be negative", s.ID)
	}
	return nil
}
