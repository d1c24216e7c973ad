// Package plot renders the metrics window as a stacked area chart.
package plot

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ChicagoDave/episim/pkg/metrics"
)

// ErrNotEnoughData is returned when there are fewer than two columns to draw.
var ErrNotEnoughData = errors.New("chart needs at least two metrics columns")

var (
	colorHealthy  = chart.ColorGreen
	colorImmune   = drawing.Color{R: 0, G: 121, B: 241, A: 255}
	colorInfected = chart.ColorRed
	colorDead     = drawing.Color{R: 0, G: 0, B: 0, A: 255}
)

// Data is the chart input: the window width and its columns and labels.
type Data struct {
	Width   int
	Columns []metrics.Column
	Labels  []metrics.Label
}

// FromWindow copies the current contents of w.
func FromWindow(w *metrics.Window) Data {
	return Data{Width: w.Width(), Columns: w.Columns(), Labels: w.Labels()}
}

// Options control the rendered image size.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions matches the on-screen graph.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 500}
}

// RenderPNG writes a PNG chart of d to w. Bands are stacked bottom to top as
// dead, infected, immune, healthy, so every column reaches 100%.
func RenderPNG(w io.Writer, d Data, opt Options) error {
	if len(d.Columns) < 2 {
		return ErrNotEnoughData
	}
	if opt.Width <= 0 || opt.Height <= 0 {
		opt = DefaultOptions()
	}

	n := len(d.Columns)
	xs := make([]float64, n)
	dead := make([]float64, n)
	infected := make([]float64, n)
	immune := make([]float64, n)
	healthy := make([]float64, n)
	for i, c := range d.Columns {
		xs[i] = float64(c.X)
		dead[i] = c.Dead
		infected[i] = dead[i] + c.Infected
		immune[i] = infected[i] + c.Immune
		healthy[i] = immune[i] + c.Healthy
	}

	xMax := float64(max(d.Width-1, n-1))
	graph := chart.Chart{
		Width:  opt.Width,
		Height: opt.Height,
		XAxis: chart.XAxis{
			Name:  "hour",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: hourTicks(d.Labels),
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f%%", v.(float64)*100)
			},
		},
		// Painted in order, so the tallest band goes first.
		Series: []chart.Series{
			band("healthy", xs, healthy, colorHealthy),
			band("immune", xs, immune, colorImmune),
			band("infected", xs, infected, colorInfected),
			band("dead", xs, dead, colorDead),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

func band(name string, xs, ys []float64, color drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: color,
			FillColor:   color,
			StrokeWidth: 1.0,
		},
	}
}

// hourTicks returns one tick per label, or nil so the axis picks its own when
// fewer than two labels are visible.
func hourTicks(labels []metrics.Label) []chart.Tick {
	if len(labels) < 2 {
		return nil
	}
	ticks := make([]chart.Tick, 0, len(labels))
	for _, l := range labels {
		ticks = append(ticks, chart.Tick{
			Value: float64(l.X),
			Label: fmt.Sprintf("%d:00", l.Hour),
		})
	}
	return ticks
}
