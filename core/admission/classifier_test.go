package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonbird/timetable/core/model"
)

func TestClassify_PartitionsBySlot(t *testing.T) {
	candidate := placement("", "physics", "7a", "t-phys", "room-7", model.Monday, "p1")
	existing := []model.Placement{
		// Same class slot.
		placement("e1", "math", "7a", "t-math", "", model.Monday, "p1"),
		// Same teacher, different class.
		placement("e2", "math", "7b", "t-phys", "", model.Monday, "p1"),
		// Same room, different class and teacher.
		placement("e3", "art", "7c", "t-art", "room-7", model.Monday, "p1"),
		// Different period: no competition.
		placement("e4", "math", "7a", "t-phys", "room-7", model.Monday, "p2"),
		// Different day: no competition.
		placement("e5", "math", "7a", "t-phys", "room-7", model.Tuesday, "p1"),
	}

	p, err := classify(candidate, existing)
	require.NoError(t, err)
	require.Len(t, p.sameClassSlot, 1)
	require.Len(t, p.sameTeacherSlot, 1)
	require.Len(t, p.sameRoomSlot, 1)
	assert.Equal(t, "e1", p.sameClassSlot[0].ID)
	assert.Equal(t, "e2", p.sameTeacherSlot[0].ID)
	assert.Equal(t, "e3", p.sameRoomSlot[0].ID)
}

func TestClassify_ClassSlotKeepsRoomMembership(t *testing.T) {
	// An incumbent sharing class, teacher and room competes at the class
	// slot, never at the teacher slot, but stays visible to the location
	// guard through the room set.
	candidate := placement("", "physics", "7a", "t-shared", "room-7", model.Monday, "p1")
	existing := []model.Placement{
		placement("e1", "math", "7a", "t-shared", "room-7", model.Monday, "p1"),
	}

	p, err := classify(candidate, existing)
	require.NoError(t, err)
	assert.Len(t, p.sameClassSlot, 1)
	assert.Empty(t, p.sameTeacherSlot)
	require.Len(t, p.sameRoomSlot, 1)
	assert.Equal(t, "e1", p.sameRoomSlot[0].ID)
}

func TestClassify_NoRoomMeansNoRoomPartition(t *testing.T) {
	candidate := placement("", "physics", "7a", "t-phys", "", model.Monday, "p1")
	existing := []model.Placement{
		placement("e1", "art", "7c", "t-art", "room-7", model.Monday, "p1"),
	}

	p, err := classify(candidate, existing)
	require.NoError(t, err)
	assert.Empty(t, p.sameRoomSlot)
}

func TestClassify_ScopeMismatchFails(t *testing.T) {
	candidate := placement("", "physics", "7a", "t-phys", "", model.Monday, "p1")
	foreign := placement("e1", "math", "7a", "t-math", "", model.Monday, "p1")
	foreign.SchoolID = "school-2"

	_, err := classify(candidate, []model.Placement{foreign})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestClassify_ExcludesCandidateOwnID(t *testing.T) {
	candidate := placement("e1", "physics", "7a", "t-phys", "room-7", model.Monday, "p1")
	existing := []model.Placement{
		placement("e1", "physics", "7a", "t-phys", "room-7", model.Monday, "p1"),
	}

	p, err := classify(candidate, existing)
	require.NoError(t, err)
	assert.Empty(t, p.sameClassSlot)
	assert.Empty(t, p.sameTeacherSlot)
	assert.Empty(t, p.sameRoomSlot)
}
