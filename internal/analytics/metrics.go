package analytics

import (
	"fmt"
	"time"

	"github.com/mirelio/api-console/internal/fixture"
	"github.com/mirelio/api-console/internal/models"
)

// KeyCounter reports how many persisted keys are currently active.
// Satisfied by the key service; tests supply a literal.
type KeyCounter interface {
	ActiveKeyCount() int
}

// Projector derives the dashboard headline metrics. It is independent
// of the time-window selector: it always looks at "today", falling back
// to the dataset's most recent day when today is not covered.
type Projector struct {
	fx   *fixture.Store
	keys KeyCounter
	now  func() time.Time
}

// NewProjector creates a projector using wall-clock time.
func NewProjector(fx *fixture.Store, keys KeyCounter) *Projector {
	return &Projector{fx: fx, keys: keys, now: time.Now}
}

// NewProjectorAt creates a projector with an injected clock.
func NewProjectorAt(fx *fixture.Store, keys KeyCounter, now func() time.Time) *Projector {
	return &Projector{fx: fx, keys: keys, now: now}
}

// Metrics computes the headline figures. An empty dataset produces
// zeroes and a "0.0%" success rate rather than an error.
func (p *Projector) Metrics() models.DashboardMetrics {
	m := models.DashboardMetrics{
		ActiveKeys:  p.keys.ActiveKeyCount(),
		SuccessRate: "0.0%",
	}

	today := p.now().Format("2006-01-02")
	day, ok := p.fx.ByDate(today)
	if !ok {
		day, ok = p.fx.Latest()
	}
	if !ok {
		return m
	}

	m.CallsToday = day.Requests
	m.ErrorsToday = day.Errors()
	if day.Requests > 0 {
		rate := float64(day.StatusCodes["200"]) / float64(day.Requests) * 100
		m.SuccessRate = fmt.Sprintf("%.1f%%", rate)
	}
	return m
}
