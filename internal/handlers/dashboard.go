package handlers

import (
	"net/http"

	"github.com/mirelio/api-console/internal/analytics"
)

type DashboardHandler struct {
	projector *analytics.Projector
}

func NewDashboardHandler(projector *analytics.Projector) *DashboardHandler {
	return &DashboardHandler{projector: projector}
}

// Metrics returns the headline dashboard figures.
// GET /api/v1/dashboard/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.projector.Metrics())
}
