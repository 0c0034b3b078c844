package handler

import (
	"net/http"

	"github.com/fitfusion/fitfusion-api/internal/application/exercise"
	"github.com/go-chi/chi/v5"
)

// ExerciseHandler proxies the exercise catalog endpoints.
type ExerciseHandler struct {
	svc exercise.Service
}

func NewExerciseHandler(svc exercise.Service) *ExerciseHandler { return &ExerciseHandler{svc: svc} }

func (h *ExerciseHandler) BodyPartList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.BodyPartList(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ExerciseHandler) EquipmentList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.EquipmentList(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ExerciseHandler) TargetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.TargetList(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Search handles /exercises/search/{type}/{query}.
func (h *ExerciseHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Search(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "query"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// SearchMultiple filters by any combination of query parameters.
func (h *ExerciseHandler) SearchMultiple(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results, err := h.svc.SearchMultiple(r.Context(), exercise.MultiSearchRequest{
		Name:      q.Get("name"),
		BodyPart:  q.Get("bodyPart"),
		Equipment: q.Get("equipment"),
		Target:    q.Get("target"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
