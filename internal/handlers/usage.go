package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/analytics"
	"github.com/mirelio/api-console/internal/charts"
	"github.com/mirelio/api-console/internal/export"
	"github.com/mirelio/api-console/internal/flags"
)

type UsageHandler struct {
	engine   *analytics.Engine
	renderer *charts.Renderer
	registry *flags.Registry
	faults   *FaultInjector
}

func NewUsageHandler(engine *analytics.Engine, renderer *charts.Renderer, registry *flags.Registry, faults *FaultInjector) *UsageHandler {
	return &UsageHandler{
		engine:   engine,
		renderer: renderer,
		registry: registry,
		faults:   faults,
	}
}

func rangeLabel(r *http.Request) string {
	label := r.URL.Query().Get("range")
	if label == "" {
		label = "7d"
	}
	return label
}

// Chart returns the per-day request counts for the selected window.
// GET /api/v1/usage/chart?range=7d
func (h *UsageHandler) Chart(w http.ResponseWriter, r *http.Request) {
	if h.faults.Hit() {
		respondRetryable(w, "failed to fetch usage data")
		return
	}

	label := rangeLabel(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"range":  label,
		"points": h.engine.ChartData(label),
	})
}

// Table returns the usage details rows for the selected window.
// GET /api/v1/usage/table?range=7d
func (h *UsageHandler) Table(w http.ResponseWriter, r *http.Request) {
	if h.faults.Hit() {
		respondRetryable(w, "failed to fetch usage data")
		return
	}

	label := rangeLabel(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"range": label,
		"rows":  h.engine.TableData(label),
	})
}

// Summary returns the aggregate statistics for the selected window.
// GET /api/v1/usage/summary?range=7d
func (h *UsageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.faults.Hit() {
		respondRetryable(w, "failed to fetch usage data")
		return
	}

	respondJSON(w, http.StatusOK, h.engine.Summary(rangeLabel(r)))
}

// Breakdown returns the status code buckets for one day.
// GET /api/v1/usage/breakdown/{date}
func (h *UsageHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	codes, ok := h.engine.StatusBreakdown(date)
	if !ok {
		respondError(w, http.StatusNotFound, "no usage data for date")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"date":         date,
		"status_codes": codes,
	})
}

// Export streams the current window as a CSV download. The export is
// always served from the already-loaded dataset, so it does not go
// through the fault injector: a failed chart fetch must not block the
// download.
// GET /api/v1/usage/export?range=7d
func (h *UsageHandler) Export(w http.ResponseWriter, r *http.Request) {
	label := rangeLabel(r)
	rows := h.engine.TableData(label)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(label)))

	if err := export.WriteCSV(w, rows); err != nil {
		log.Error().Err(err).Msg("failed to write CSV export")
	}
}

// ChartPNG renders the window as a PNG image. The chartV2 flag selects
// the line renderer, modernColors the palette.
// GET /api/v1/usage/chart.png?range=7d
func (h *UsageHandler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	label := rangeLabel(r)
	points := h.engine.ChartData(label)

	png, err := h.renderer.UsagePNG("API Usage - "+label, points, charts.Options{
		LineChart:    h.registry.Enabled(flags.ChartV2),
		ModernColors: h.registry.Enabled(flags.ModernColors),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Error().Err(err).Msg("failed to write chart image")
	}
}
