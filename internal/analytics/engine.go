// Package analytics derives chart series, table rows and summary
// statistics from the bundled usage dataset.
package analytics

import (
	"math"
	"math/rand"

	"github.com/mirelio/api-console/internal/fixture"
	"github.com/mirelio/api-console/internal/models"
)

// Simulated latency model: a flat baseline plus a volume term, with
// uniform jitter on top. There is no real backend to measure, so the
// numbers only need to look plausible and scale with traffic.
const (
	baseLatencyMs      = 50
	latencyPerHundred  = 2
	latencyJitterRange = 20
)

// Jitter produces the random component of a simulated latency sample,
// a float in [0, latencyJitterRange). Tests inject a fixed source.
type Jitter func() float64

// Engine computes windowed aggregates over the dataset.
type Engine struct {
	fx     *fixture.Store
	jitter Jitter
}

// NewEngine creates an engine with the default random jitter source.
func NewEngine(fx *fixture.Store) *Engine {
	return &Engine{
		fx:     fx,
		jitter: func() float64 { return rand.Float64() * latencyJitterRange },
	}
}

// NewEngineWithJitter creates an engine with an injected jitter source.
func NewEngineWithJitter(fx *fixture.Store, jitter Jitter) *Engine {
	return &Engine{fx: fx, jitter: jitter}
}

// Window returns the trailing N days for a filter label, oldest first.
// A dataset shorter than the window yields everything available.
func (e *Engine) Window(label string) []models.UsageDay {
	days := ResolveDays(label)
	all := e.fx.Days()
	if days >= len(all) {
		return all
	}
	return all[len(all)-days:]
}

// ChartData returns the {date, requests} series for the window.
func (e *Engine) ChartData(label string) []models.ChartPoint {
	window := e.Window(label)
	points := make([]models.ChartPoint, 0, len(window))
	for _, day := range window {
		points = append(points, models.ChartPoint{Date: day.Date, Requests: day.Requests})
	}
	return points
}

// TableData returns per-day rows for the usage details table, with the
// simulated latency sampled once per row.
func (e *Engine) TableData(label string) []models.UsageRow {
	window := e.Window(label)
	rows := make([]models.UsageRow, 0, len(window))
	for _, day := range window {
		rows = append(rows, models.UsageRow{
			Date:     day.Date,
			Requests: day.Requests,
			Errors:   day.Errors(),
			Latency:  e.simulateLatency(day.Requests),
		})
	}
	return rows
}

// Summary computes the aggregate statistics for the window. A day with
// zero requests contributes a zero error rate rather than dividing by
// zero. An empty window yields the zero summary.
func (e *Engine) Summary(label string) models.UsageSummary {
	window := e.Window(label)
	if len(window) == 0 {
		return models.UsageSummary{}
	}

	var (
		totalRequests int64
		totalErrors   int64
		rateSum       float64
		latencySum    float64
	)
	for _, day := range window {
		errs := day.Errors()
		totalRequests += day.Requests
		totalErrors += errs
		if day.Requests > 0 {
			rateSum += float64(errs) / float64(day.Requests) * 100
		}
		latencySum += float64(e.simulateLatency(day.Requests))
	}

	n := float64(len(window))
	return models.UsageSummary{
		TotalRequests:    totalRequests,
		TotalErrors:      totalErrors,
		AverageErrorRate: rateSum / n,
		AverageLatency:   int64(math.Round(latencySum / n)),
	}
}

// StatusBreakdown returns the status-code histogram for an exact date.
func (e *Engine) StatusBreakdown(date string) (map[string]int64, bool) {
	day, ok := e.fx.ByDate(date)
	if !ok {
		return nil, false
	}
	return day.StatusCodes, true
}

func (e *Engine) simulateLatency(requests int64) int64 {
	volume := requests / 100 * latencyPerHundred
	return int64(math.Round(float64(baseLatencyMs+volume) + e.jitter()))
}
