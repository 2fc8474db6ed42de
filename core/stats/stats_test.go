package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonbird/timetable/core/model"
)

func entry(class, teacher string, day model.Weekday, period string) model.Placement {
	return model.Placement{
		SchoolID: "s1", TermID: "t1", Day: day, PeriodID: period,
		ClassID: class, SubjectID: "math", TeacherID: teacher,
	}
}

func TestTeacherLoads(t *testing.T) {
	placements := []model.Placement{
		entry("7a", "t1", model.Monday, "p1"),
		entry("7a", "t1", model.Monday, "p2"),
		entry("7b", "t1", model.Tuesday, "p1"),
		entry("7b", "t2", model.Monday, "p1"),
	}

	sum := TeacherLoads(placements)
	require.Len(t, sum.Teachers, 2)
	assert.Equal(t, "t1", sum.Teachers[0].TeacherID)
	assert.Equal(t, 3, sum.Teachers[0].Periods)
	assert.Equal(t, 2, sum.Teachers[0].Classes)
	assert.Equal(t, 3, sum.Max)
	assert.InDelta(t, 2.0, sum.Mean, 1e-9)
	assert.Greater(t, sum.StdDev, 0.0)
}

func TestTeacherLoads_Empty(t *testing.T) {
	sum := TeacherLoads(nil)
	assert.Empty(t, sum.Teachers)
	assert.Zero(t, sum.Mean)
	assert.Zero(t, sum.Max)
}

func TestClassOccupancy(t *testing.T) {
	placements := []model.Placement{
		entry("7a", "t1", model.Monday, "p1"),
		entry("7a", "t2", model.Monday, "p1"),
		entry("7a", "t3", model.Tuesday, "p2"),
		entry("7b", "t4", model.Monday, "p1"),
	}

	occ := ClassOccupancy(placements, "7a")
	require.Len(t, occ, 2)
	assert.Equal(t, model.Monday, occ[0].Day)
	assert.Equal(t, 2, occ[0].Count)
	assert.Equal(t, model.Tuesday, occ[1].Day)
	assert.Equal(t, 1, occ[1].Count)
}
