package handlers

import (
	"net/http"

	"kisansathi-backend/internal/services"
)

type SchemeHandler struct {
	schemes *services.SchemeService
}

func NewSchemeHandler(schemes *services.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemes: schemes}
}

func (h *SchemeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.schemes.List(q.Get("category"), q.Get("search")))
}
