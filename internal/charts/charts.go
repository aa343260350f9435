// Package charts renders the usage chart as a PNG. The default
// renderer draws bars; with the chartV2 flag a time-series line chart
// is drawn instead, and modernColors swaps the palette.
package charts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mirelio/api-console/internal/models"
)

// Options selects the renderer variant and palette.
type Options struct {
	LineChart    bool
	ModernColors bool
}

// Renderer turns chart points into PNG bytes.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

const dateLayout = "2006-01-02"

func (r *Renderer) palette(modern bool) (fill, stroke drawing.Color) {
	if modern {
		return drawing.ColorFromHex("7c3aed"), drawing.ColorFromHex("a78bfa")
	}
	return drawing.ColorFromHex("2563eb"), drawing.ColorFromHex("60a5fa")
}

// UsagePNG renders the given window of points. At least two points are
// required for the line variant, one for bars.
func (r *Renderer) UsagePNG(title string, points []models.ChartPoint, opts Options) ([]byte, error) {
	if opts.LineChart {
		return r.linePNG(title, points, opts)
	}
	return r.barPNG(title, points, opts)
}

func (r *Renderer) barPNG(title string, points []models.ChartPoint, opts Options) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no data points to render")
	}

	fill, stroke := r.palette(opts.ModernColors)

	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		label := p.Date
		if t, err := time.Parse(dateLayout, p.Date); err == nil {
			label = t.Format("Jan 2")
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: float64(p.Requests),
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: stroke,
				StrokeWidth: 1.0,
			},
		})
	}

	graph := chart.BarChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize: 14,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Width:    900,
		Height:   400,
		BarWidth: 18,
		Bars:     bars,
		YAxis: chart.YAxis{
			ValueFormatter: requestCountFormatter,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (r *Renderer) linePNG(title string, points []models.ChartPoint, opts Options) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("not enough data points to generate a chart")
	}

	_, stroke := r.palette(opts.ModernColors)

	var xValues []time.Time
	var yValues []float64
	for _, p := range points {
		t, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid point date %q: %w", p.Date, err)
		}
		xValues = append(xValues, t)
		yValues = append(yValues, float64(p.Requests))
	}

	graph := chart.Chart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize: 14,
		},
		Width:  900,
		Height: 400,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2"),
		},
		YAxis: chart.YAxis{
			Name:           "Requests",
			ValueFormatter: requestCountFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Requests",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: stroke,
					StrokeWidth: 3.0,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func requestCountFormatter(v interface{}) string {
	typed, ok := v.(float64)
	if !ok {
		return ""
	}
	if typed >= 1000000 {
		return fmt.Sprintf("%.1fM", typed/1000000)
	}
	if typed >= 1000 {
		return fmt.Sprintf("%.1fK", typed/1000)
	}
	return fmt.Sprintf("%.0f", typed)
}
