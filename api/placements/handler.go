// Package placements exposes the placement CRUD surface over HTTP.
package placements

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lessonbird/timetable/core/admission"
	"github.com/lessonbird/timetable/core/model"
	"github.com/lessonbird/timetable/infra/store"
)

// Service is the slice of the application the handler needs.
type Service interface {
	// Admit submits a candidate placement and returns the persisted
	// placement plus the ids evicted to make room.
	Admit(ctx context.Context, candidate model.Placement) (model.Placement, []string, error)
	// Remove deletes one placement by id.
	Remove(ctx context.Context, id string) (model.Placement, error)
	// List returns the placements of one school/term scope.
	List(ctx context.Context, schoolID, termID string) ([]model.Placement, error)
}

type admitResponse struct {
	Placement model.Placement `json:"placement"`
	Evicted   []string        `json:"evicted,omitempty"`
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewHandler returns an HTTP handler serving /api/placements. Requests must
// include an Authorization header with "Bearer <token>" when token is
// non-empty.
func NewHandler(svc Service, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		switch {
		case r.Method == http.MethodGet:
			list(svc, w, r)
		case r.Method == http.MethodPost:
			admit(svc, w, r)
		case r.Method == http.MethodDelete:
			remove(svc, w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func list(svc Service, w http.ResponseWriter, r *http.Request) {
	schoolID := r.URL.Query().Get("school_id")
	termID := r.URL.Query().Get("term_id")
	if schoolID == "" || termID == "" {
		http.Error(w, "school_id and term_id are required", http.StatusBadRequest)
		return
	}
	out, err := svc.List(r.Context(), schoolID, termID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if classID := r.URL.Query().Get("class_id"); classID != "" {
		out = filterPlacements(out, func(p model.Placement) bool { return p.ClassID == classID })
	}
	if teacherID := r.URL.Query().Get("teacher_id"); teacherID != "" {
		out = filterPlacements(out, func(p model.Placement) bool { return p.TeacherID == teacherID })
	}
	writeJSON(w, http.StatusOK, out)
}

func admit(svc Service, w http.ResponseWriter, r *http.Request) {
	var candidate model.Placement
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: admission.KindValidation.String(), Message: err.Error()})
		return
	}
	placed, evicted, err := svc.Admit(r.Context(), candidate)
	if err != nil {
		kind := admission.KindOf(err)
		writeJSON(w, statusFor(kind), errorResponse{Kind: kind.String(), Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, admitResponse{Placement: placed, Evicted: evicted})
}

func remove(svc Service, w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/placements/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "placement id required", http.StatusBadRequest)
		return
	}
	if _, err := svc.Remove(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func filterPlacements(in []model.Placement, keep func(model.Placement) bool) []model.Placement {
	out := in[:0:0]
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// statusFor maps rejection kinds to HTTP statuses: conflicts are 409 so the
// submitter can pick another slot, validation is a plain 400.
func statusFor(kind admission.Kind) int {
	switch kind {
	case admission.KindValidation:
		return http.StatusBadRequest
	case admission.KindSoloConflict, admission.KindPriorityConflict,
		admission.KindTeacherConflict, admission.KindLocationConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
