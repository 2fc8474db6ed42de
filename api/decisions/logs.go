// Package decisions exposes the admission decision log over HTTP.
package decisions

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lessonbird/timetable/core/admission/logging"
)

// NewLogHandler returns an HTTP handler exposing decision records via
// GET /api/decisions. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewLogHandler(store logging.LogStore, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := logging.LogQuery{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.ClassID = r.URL.Query().Get("class_id")
		q.TeacherID = r.URL.Query().Get("teacher_id")
		if s := r.URL.Query().Get("admitted"); s != "" {
			if v, err := strconv.ParseBool(s); err == nil {
				q.Admitted = &v
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
