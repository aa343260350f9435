// Package handlers wires the console services to the HTTP surface.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondRetryable marks the failure as transient so clients know a
// retry is worthwhile.
func respondRetryable(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: msg, Retryable: true})
}
