// Package stats exposes occupancy summaries over HTTP.
package stats

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lessonbird/timetable/core/model"
	"github.com/lessonbird/timetable/core/stats"
)

// Lister returns the placements of one school/term scope.
type Lister interface {
	List(ctx context.Context, schoolID, termID string) ([]model.Placement, error)
}

// NewTeacherLoadHandler returns an HTTP handler exposing the per-teacher
// load summary via GET /api/stats/teachers. Requests must include an
// Authorization header with "Bearer <token>" when token is non-empty.
func NewTeacherLoadHandler(lister Lister, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		schoolID := r.URL.Query().Get("school_id")
		termID := r.URL.Query().Get("term_id")
		if schoolID == "" || termID == "" {
			http.Error(w, "school_id and term_id are required", http.StatusBadRequest)
			return
		}
		placements, err := lister.List(r.Context(), schoolID, termID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats.TeacherLoads(placements)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
