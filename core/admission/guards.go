package admission

import "github.com/lessonbird/timetable/core/model"

// checkTeacher rejects the candidate when its teacher already holds another
// class in the same period. The rule is absolute: neither subject priority
// nor co-run compatibility relaxes it, a person cannot teach two classes at
// once.
func checkTeacher(candidate model.Placement, sameTeacherSlot []model.Placement) error {
	for _, e := range sameTeacherSlot {
		if e.ClassID != candidate.ClassID {
			return newError(KindTeacherConflict, "teacher already assigned this period")
		}
	}
	return nil
}

// checkLocation rejects the candidate when its room is already booked in the
// same period. Physical rooms are never subject to priority override; the
// check also applies to placements that co-run at the class-slot level.
// Incumbents the resolver already marked for eviction vacate the room and do
// not count.
func checkLocation(candidate model.Placement, sameRoomSlot []model.Placement, evicted []string) error {
	if candidate.RoomID == "" {
		return nil
	}
	gone := make(map[string]struct{}, len(evicted))
	for _, id := range evicted {
		gone[id] = struct{}{}
	}
	for _, e := range sameRoomSlot {
		if e.ID == candidate.ID {
			continue
		}
		if _, ok := gone[e.ID]; ok {
			continue
		}
		return newError(KindLocationConflict, "location already booked")
	}
	return nil
}
