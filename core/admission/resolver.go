package admission

import (
	"github.com/lessonbird/timetable/core/catalog"
	"github.com/lessonbird/timetable/core/model"
)

// resolveClassSlot applies the solo, co-run and priority rules to the
// candidate's class-slot competitors. It returns the ids of incumbents to
// evict on admission, in snapshot order, or the first rejection. A rejection
// aborts the whole admission: no partial eviction ever leaks out.
func resolveClassSlot(candidate model.Placement, sameClassSlot []model.Placement, cat catalog.Catalog) ([]string, error) {
	subject, ok := cat.Lookup(candidate.SubjectID)
	if !ok {
		return nil, newError(KindValidation, "unknown subject %s", candidate.SubjectID)
	}

	// Solo incumbents block everything, and a solo candidate needs an empty
	// slot, regardless of co-run flags or priority.
	for _, e := range sameClassSlot {
		incumbent, ok := cat.Lookup(e.SubjectID)
		if !ok {
			return nil, newError(KindValidation, "unknown subject %s", e.SubjectID)
		}
		if incumbent.IsSolo {
			return nil, newError(KindSoloConflict, "a solo subject already occupies this slot")
		}
	}
	if subject.IsSolo && len(sameClassSlot) > 0 {
		return nil, newError(KindSoloConflict, "cannot place a solo subject into an occupied slot")
	}

	var evict []string
	seen := make(map[string]struct{}, len(sameClassSlot))
	for _, e := range sameClassSlot {
		incumbent, _ := cat.Lookup(e.SubjectID)
		if subject.CanCoRun && incumbent.CanCoRun {
			// Mutually co-run placements coexist: neither a conflict nor an
			// eviction.
			continue
		}
		if subject.Priority <= incumbent.Priority {
			// Ties favor the incumbent so resubmissions cannot thrash.
			return nil, newError(KindPriorityConflict, "an equal-or-higher-priority subject already occupies this slot")
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		evict = append(evict, e.ID)
	}
	return evict, nil
}
