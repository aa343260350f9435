package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirelio/api-console/internal/keys"
)

type KeyHandler struct {
	svc *keys.Service
}

func NewKeyHandler(svc *keys.Service) *KeyHandler {
	return &KeyHandler{svc: svc}
}

type createKeyRequest struct {
	Name string `json:"name"`
}

// List returns the full key collection in insertion order, plus the
// advisory operating flag so clients can disable their action buttons.
// GET /api/v1/keys
func (h *KeyHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"keys":      h.svc.List(),
		"operating": h.svc.Operating(),
	})
}

// Get returns one key by id.
// GET /api/v1/keys/{id}
func (h *KeyHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "api key not found")
		return
	}
	respondJSON(w, http.StatusOK, key)
}

// Create mints a new active key.
// POST /api/v1/keys
func (h *KeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.rejectWhenOperating(w) {
		return
	}

	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := h.svc.Create(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, keys.ErrNameRequired) {
			respondError(w, http.StatusBadRequest, "api key name is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create api key")
		return
	}
	respondJSON(w, http.StatusCreated, key)
}

// Regenerate replaces a key's secret.
// POST /api/v1/keys/{id}/regenerate
func (h *KeyHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	if h.rejectWhenOperating(w) {
		return
	}

	key, err := h.svc.Regenerate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, keys.ErrNotFound) {
			respondError(w, http.StatusNotFound, "api key not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to regenerate api key")
		return
	}
	respondJSON(w, http.StatusOK, key)
}

// Revoke disables a key. Idempotent.
// POST /api/v1/keys/{id}/revoke
func (h *KeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if h.rejectWhenOperating(w) {
		return
	}

	key, err := h.svc.Revoke(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, keys.ErrNotFound) {
			respondError(w, http.StatusNotFound, "api key not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to revoke api key")
		return
	}
	respondJSON(w, http.StatusOK, key)
}

// Delete removes a key permanently.
// DELETE /api/v1/keys/{id}
func (h *KeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.rejectWhenOperating(w) {
		return
	}

	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, keys.ErrNotFound) {
			respondError(w, http.StatusNotFound, "api key not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete api key")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *KeyHandler) rejectWhenOperating(w http.ResponseWriter) bool {
	if h.svc.Operating() {
		respondError(w, http.StatusConflict, "another key operation is in progress")
		return true
	}
	return false
}
