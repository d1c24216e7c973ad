// Package metrics keeps the sliding time series of population health ratios
// shown on the stacked chart.
package metrics

import (
	"github.com/ChicagoDave/episim/pkg/clock"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/population"
)

// DefaultWidth is the number of columns in a full window.
const DefaultWidth = 700

// Sample is the share of the population in each health state.
type Sample struct {
	Healthy  float64 `json:"healthy"`
	Infected float64 `json:"infected"`
	Immune   float64 `json:"immune"`
	Dead     float64 `json:"dead"`
}

// Ratios divides every count by total. A non-positive total yields zeros.
func Ratios(c population.Counts, total int) Sample {
	if total <= 0 {
		return Sample{}
	}
	t := float64(total)
	return Sample{
		Healthy:  float64(c.Healthy) / t,
		Infected: float64(c.Infected) / t,
		Immune:   float64(c.Immune) / t,
		Dead:     float64(c.Dead) / t,
	}
}

// Column is one sample at horizontal offset X within the window.
type Column struct {
	X int `json:"x"`
	Sample
}

// Label marks the column at which a simulated hour began.
type Label struct {
	X    int `json:"x"`
	Hour int `json:"hour"`
}

// Window is a fixed width series of columns. It fills left to right, then
// scrolls: each update evicts the left-most column and shifts the rest left.
type Window struct {
	width   int
	frame   int
	columns []Column
	labels  []Label

	// Frames since the last label and the hour of day the next label marks.
	sinceLabel int
	hour       int
}

// NewWindow returns an empty window of the given width in columns.
func NewWindow(width int) *Window {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Window{
		width:   width,
		columns: make([]Column, 0, width),
	}
}

// Update appends one column for the current counts. A label is added every
// ceil(hourLength*60) updates, carrying the hour of day it marks. Hours are
// counted label by label, so a new hour length only changes the spacing of
// labels still to come.
func (w *Window) Update(c population.Counts, total int, hourLength float64) {
	x := len(w.columns)
	if w.Full() {
		w.columns = w.columns[1:]
		for i := range w.columns {
			w.columns[i].X--
		}
		kept := w.labels[:0]
		for _, l := range w.labels {
			l.X--
			if l.X >= 0 {
				kept = append(kept, l)
			}
		}
		w.labels = kept
		x = w.width - 1
	}
	w.columns = append(w.columns, Column{X: x, Sample: Ratios(c, total)})

	if w.sinceLabel == 0 {
		w.labels = append(w.labels, Label{X: x, Hour: w.hour})
	}
	w.sinceLabel++
	if w.sinceLabel >= framesPerHour(hourLength) {
		w.sinceLabel = 0
		w.hour = (w.hour + 1) % 24
	}
	w.frame++
}

func framesPerHour(hourLength float64) int {
	n := clock.FramesPerHour(hourLength, disease.FrameRate)
	if n < 1 {
		return 1
	}
	return n
}

// Full reports whether the initial fill phase is over.
func (w *Window) Full() bool {
	return len(w.columns) >= w.width
}

// Columns returns a copy of the current columns, left to right.
func (w *Window) Columns() []Column {
	return append([]Column(nil), w.columns...)
}

// Labels returns a copy of the current hour labels, left to right.
func (w *Window) Labels() []Label {
	return append([]Label(nil), w.labels...)
}

// Latest returns the right-most sample.
func (w *Window) Latest() (Sample, bool) {
	if len(w.columns) == 0 {
		return Sample{}, false
	}
	return w.columns[len(w.columns)-1].Sample, true
}

func (w *Window) Width() int { return w.width }
func (w *Window) Frames() int { return w.frame }
