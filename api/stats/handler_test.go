package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonbird/timetable/core/model"
	corestats "github.com/lessonbird/timetable/core/stats"
)

type fixedLister []model.Placement

func (f fixedLister) List(context.Context, string, string) ([]model.Placement, error) {
	return f, nil
}

func TestTeacherLoadHandler(t *testing.T) {
	lister := fixedLister{
		{ClassID: "7a", TeacherID: "t1", Day: model.Monday, PeriodID: "p1"},
		{ClassID: "7a", TeacherID: "t1", Day: model.Monday, PeriodID: "p2"},
		{ClassID: "7b", TeacherID: "t2", Day: model.Monday, PeriodID: "p1"},
	}
	h := NewTeacherLoadHandler(lister, "")

	req := httptest.NewRequest(http.MethodGet, "/api/stats/teachers?school_id=s1&term_id=t1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var sum corestats.LoadSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	require.Len(t, sum.Teachers, 2)
	assert.Equal(t, "t1", sum.Teachers[0].TeacherID)
	assert.Equal(t, 2, sum.Teachers[0].Periods)
}

func TestTeacherLoadHandler_RequiresScope(t *testing.T) {
	h := NewTeacherLoadHandler(fixedLister{}, "")
	req := httptest.NewRequest(http.MethodGet, "/api/stats/teachers", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeacherLoadHandler_TokenGuard(t *testing.T) {
	h := NewTeacherLoadHandler(fixedLister{}, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/stats/teachers?school_id=s1&term_id=t1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/stats/teachers?school_id=s1&term_id=t1", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
