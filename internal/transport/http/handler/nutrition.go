package handler

import (
	"net/http"

	"github.com/fitfusion/fitfusion-api/internal/application/nutrition"
)

// NutritionHandler proxies the nutrition lookup endpoint.
type NutritionHandler struct {
	svc nutrition.Service
}

func NewNutritionHandler(svc nutrition.Service) *NutritionHandler {
	return &NutritionHandler{svc: svc}
}

func (h *NutritionHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Lookup(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
