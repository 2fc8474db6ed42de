package admission

import "github.com/lessonbird/timetable/core/model"

// partition splits an existing-placements snapshot by how each entry
// competes with the candidate. Class and teacher membership are disjoint,
// but room membership is independent: an entry sharing the class slot and
// the room appears in both sets, so the location guard still sees room
// clashes among co-running incumbents.
type partition struct {
	sameClassSlot   []model.Placement
	sameRoomSlot    []model.Placement
	sameTeacherSlot []model.Placement
}

// classify partitions existing into the candidate's class-slot, room-slot
// and teacher-slot competitors. The snapshot must already be scoped to the
// candidate's school and term; a mismatch is a caller bug and fails with a
// validation error rather than a scheduling conflict.
func classify(candidate model.Placement, existing []model.Placement) (partition, error) {
	var p partition
	for _, e := range existing {
		if !candidate.SameScope(e) {
			return partition{}, newError(KindValidation,
				"snapshot entry %s belongs to school %s term %s, candidate targets school %s term %s",
				e.ID, e.SchoolID, e.TermID, candidate.SchoolID, candidate.TermID)
		}
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		if e.Day != candidate.Day || e.PeriodID != candidate.PeriodID {
			continue
		}
		if e.ClassID == candidate.ClassID {
			p.sameClassSlot = append(p.sameClassSlot, e)
		} else if e.TeacherID == candidate.TeacherID {
			p.sameTeacherSlot = append(p.sameTeacherSlot, e)
		}
		if candidate.RoomID != "" && e.RoomID == candidate.RoomID {
			p.sameRoomSlot = append(p.sameRoomSlot, e)
		}
	}
	return p, nil
}
