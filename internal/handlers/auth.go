package handlers

import (
	"net/http"

	"github.com/mirelio/api-console/internal/auth"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login signs the guest in. Always succeeds; there are no credentials
// to check.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	token, err := h.svc.Login(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	respondJSON(w, http.StatusOK, token)
}

// Session returns the current persisted session, 401 if none.
// GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Session(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if session == nil {
		respondError(w, http.StatusUnauthorized, "no active session")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Logout clears the persisted session.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
