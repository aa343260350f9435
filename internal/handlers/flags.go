package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirelio/api-console/internal/flags"
)

type FlagHandler struct {
	registry *flags.Registry
}

func NewFlagHandler(registry *flags.Registry) *FlagHandler {
	return &FlagHandler{registry: registry}
}

// List returns every flag and its current state.
// GET /api/v1/flags
func (h *FlagHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.registry.Snapshot())
}

// Toggle flips one flag.
// POST /api/v1/flags/{name}/toggle
func (h *FlagHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	enabled, err := h.registry.Toggle(name)
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown feature flag")
		return
	}
	respondJSON(w, http.StatusOK, flags.Flag{Name: name, Enabled: enabled})
}

// Reset restores all flags to their configured defaults.
// POST /api/v1/flags/reset
func (h *FlagHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.registry.Reset()
	respondJSON(w, http.StatusOK, h.registry.Snapshot())
}
