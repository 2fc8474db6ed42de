package decisions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonbird/timetable/core/admission/logging"
	"github.com/lessonbird/timetable/core/model"
)

func seededStore(t *testing.T) logging.LogStore {
	t.Helper()
	store, err := logging.NewJSONLStore(filepath.Join(t.TempDir(), "decisions.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, logging.LogRecord{
		Timestamp: time.Now(),
		Candidate: model.Placement{ClassID: "7a", TeacherID: "t1", SubjectID: "math"},
		Admitted:  true,
	}))
	require.NoError(t, store.Append(ctx, logging.LogRecord{
		Timestamp:    time.Now(),
		Candidate:    model.Placement{ClassID: "7b", TeacherID: "t2", SubjectID: "art"},
		Admitted:     false,
		ErrorKind:    "solo_conflict",
		ErrorMessage: "a solo subject already occupies this slot",
	}))
	return store
}

func TestLogHandler_FilterByClass(t *testing.T) {
	h := NewLogHandler(seededStore(t), "")

	req := httptest.NewRequest(http.MethodGet, "/api/decisions?class_id=7b", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out []logging.LogRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "solo_conflict", out[0].ErrorKind)
}

func TestLogHandler_FilterByOutcome(t *testing.T) {
	h := NewLogHandler(seededStore(t), "")

	req := httptest.NewRequest(http.MethodGet, "/api/decisions?admitted=true", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out []logging.LogRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.True(t, out[0].Admitted)
}

func TestLogHandler_Token(t *testing.T) {
	h := NewLogHandler(seededStore(t), "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/decisions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogHandler_MethodNotAllowed(t *testing.T) {
	h := NewLogHandler(seededStore(t), "")
	req := httptest.NewRequest(http.MethodPost, "/api/decisions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
