package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirelio/api-console/internal/docs"
)

type DocsHandler struct{}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// List returns all documentation sections.
// GET /api/v1/docs
func (h *DocsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"auth_header": docs.AuthHeader,
		"sections":    docs.Sections(),
	})
}

// Get returns one documentation section by id.
// GET /api/v1/docs/{id}
func (h *DocsHandler) Get(w http.ResponseWriter, r *http.Request) {
	section, ok := docs.SectionByID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown documentation section")
		return
	}
	respondJSON(w, http.StatusOK, section)
}
