package metrics

import (
	"testing"

	"github.com/ChicagoDave/episim/pkg/population"
)

func TestRatios(t *testing.T) {
	s := Ratios(population.Counts{Healthy: 5, Infected: 3, Immune: 1, Dead: 1}, 10)
	want := Sample{Healthy: 0.5, Infected: 0.3, Immune: 0.1, Dead: 0.1}
	if s != want {
		t.Errorf("Ratios = %+v, want %+v", s, want)
	}
	if s := Ratios(population.Counts{Healthy: 3}, 0); s != (Sample{}) {
		t.Errorf("Ratios with zero total = %+v, want zero", s)
	}
}

func TestFillPhase(t *testing.T) {
	w := NewWindow(5)
	for i := 0; i < 5; i++ {
		if w.Full() {
			t.Fatalf("Full() after %d updates", i)
		}
		w.Update(population.Counts{Healthy: i}, 10, 1)
	}
	if !w.Full() {
		t.Fatal("Full() = false after width updates")
	}
	cols := w.Columns()
	if len(cols) != 5 {
		t.Fatalf("len(Columns) = %d, want 5", len(cols))
	}
	for i, c := range cols {
		if c.X != i {
			t.Errorf("column %d X = %d, want %d", i, c.X, i)
		}
	}
}

func TestScrollPhase(t *testing.T) {
	w := NewWindow(4)
	for i := 0; i < 10; i++ {
		w.Update(population.Counts{Infected: i}, 10, 1)
	}
	cols := w.Columns()
	if len(cols) != 4 {
		t.Fatalf("len(Columns) = %d, want 4", len(cols))
	}
	for i, c := range cols {
		if c.X != i {
			t.Errorf("column %d X = %d, want %d", i, c.X, i)
		}
		// Columns 6..9 survive.
		want := float64(6+i) / 10
		if c.Infected != want {
			t.Errorf("column %d Infected = %v, want %v", i, c.Infected, want)
		}
	}
	latest, ok := w.Latest()
	if !ok || latest.Infected != 0.9 {
		t.Errorf("Latest = %+v, %v", latest, ok)
	}
}

func TestHourLabels(t *testing.T) {
	// hour length 0.05s is 3 frames per hour
	w := NewWindow(100)
	for i := 0; i < 10; i++ {
		w.Update(population.Counts{Healthy: 1}, 1, 0.05)
	}
	want := []Label{{X: 0, Hour: 0}, {X: 3, Hour: 1}, {X: 6, Hour: 2}, {X: 9, Hour: 3}}
	got := w.Labels()
	if len(got) != len(want) {
		t.Fatalf("Labels = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLabelsScrollAndEvict(t *testing.T) {
	w := NewWindow(5)
	for i := 0; i < 12; i++ {
		w.Update(population.Counts{Healthy: 1}, 1, 0.05)
	}
	// Frames 0..11 with labels every 3 frames; the window holds frames 7..11
	// at X 0..4, so labels for frames 9 (hour 3) remain at X 2.
	got := w.Labels()
	want := []Label{{X: 2, Hour: 3}}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Labels = %+v, want %+v", got, want)
	}
	for _, l := range got {
		if l.X < 0 || l.X >= w.Width() {
			t.Errorf("label %+v outside window", l)
		}
	}
}

func TestHourLabelsWrapAtMidnight(t *testing.T) {
	w := NewWindow(10)
	for i := 0; i < 25*3+1; i++ {
		w.Update(population.Counts{Healthy: 1}, 1, 0.05)
	}
	labels := w.Labels()
	last := labels[len(labels)-1]
	if last.Hour != 1 {
		t.Errorf("hour after 25 hours = %d, want 1", last.Hour)
	}
}

func TestHourLabelsAfterHourLengthChange(t *testing.T) {
	w := NewWindow(100)
	for i := 0; i < 6; i++ {
		w.Update(population.Counts{Healthy: 1}, 1, 0.05) // 3 frames per hour
	}
	for i := 0; i < 13; i++ {
		w.Update(population.Counts{Healthy: 1}, 1, 0.1) // 6 frames per hour
	}
	want := []Label{{X: 0, Hour: 0}, {X: 3, Hour: 1}, {X: 6, Hour: 2}, {X: 12, Hour: 3}, {X: 18, Hour: 4}}
	got := w.Labels()
	if len(got) != len(want) {
		t.Fatalf("Labels = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNewWindowDefaultsWidth(t *testing.T) {
	if w := NewWindow(0); w.Width() != DefaultWidth {
		t.Errorf("Width = %d, want %d", w.Width(), DefaultWidth)
	}
}
