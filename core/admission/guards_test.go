package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lessonbird/timetable/core/model"
)

func TestCheckTeacher(t *testing.T) {
	cand := placement("", "math", "7a", "t-shared", "", model.Monday, "p1")

	t.Run("different class rejects", func(t *testing.T) {
		slot := []model.Placement{placement("e1", "art", "7b", "t-shared", "", model.Monday, "p1")}
		err := checkTeacher(cand, slot)
		assert.Equal(t, KindTeacherConflict, KindOf(err))
	})

	t.Run("empty slot passes", func(t *testing.T) {
		assert.NoError(t, checkTeacher(cand, nil))
	})
}

func TestCheckLocation(t *testing.T) {
	t.Run("booked room rejects", func(t *testing.T) {
		cand := placement("", "math", "7a", "t1", "room-7", model.Monday, "p1")
		slot := []model.Placement{placement("e1", "art", "7b", "t2", "room-7", model.Monday, "p1")}
		err := checkLocation(cand, slot, nil)
		assert.Equal(t, KindLocationConflict, KindOf(err))
	})

	t.Run("no room requested passes", func(t *testing.T) {
		cand := placement("", "math", "7a", "t1", "", model.Monday, "p1")
		slot := []model.Placement{placement("e1", "art", "7b", "t2", "room-7", model.Monday, "p1")}
		assert.NoError(t, checkLocation(cand, slot, nil))
	})

	t.Run("own previous row passes", func(t *testing.T) {
		cand := placement("e1", "math", "7a", "t1", "room-7", model.Monday, "p1")
		slot := []model.Placement{placement("e1", "math", "7a", "t1", "room-7", model.Monday, "p1")}
		assert.NoError(t, checkLocation(cand, slot, nil))
	})

	t.Run("evicted incumbent vacates the room", func(t *testing.T) {
		cand := placement("", "math", "7a", "t1", "room-7", model.Monday, "p1")
		slot := []model.Placement{placement("e1", "art", "7a", "t2", "room-7", model.Monday, "p1")}
		assert.NoError(t, checkLocation(cand, slot, []string{"e1"}))
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindSoloConflict, KindOf(newError(KindSoloConflict, "x")))
	assert.Equal(t, KindNone, KindOf(assert.AnError))
}
