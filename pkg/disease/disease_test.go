package disease

import (
	"math"
	"testing"
)

func TestPerFrameCompoundsToHourly(t *testing.T) {
	p := PerFrame(0.05, 60)
	if got := math.Pow(1-p, 60); math.Abs(got-0.95) > 1e-9 {
		t.Errorf("(1-p)^60 = %v, want 0.95", got)
	}
}

func TestPerFrameBounds(t *testing.T) {
	tests := []struct {
		perHour, fph float64
		want         float64
	}{
		{0, 60, 0},
		{1, 60, 1},
		{0.5, 1, 0.5},
	}
	for _, tt := range tests {
		if got := PerFrame(tt.perHour, tt.fph); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("PerFrame(%v, %v) = %v, want %v", tt.perHour, tt.fph, got, tt.want)
		}
	}
}

func TestDerive(t *testing.T) {
	p := Default()
	r := Derive(p, 2, 100)
	if r.FramesPerHour != 120 {
		t.Errorf("FramesPerHour = %v, want 120", r.FramesPerHour)
	}
	if r.MovementSpeed != 500 {
		t.Errorf("MovementSpeed = %v, want 500", r.MovementSpeed)
	}
	if got := 1 - math.Pow(1-r.Death, 120); math.Abs(got-p.DeathProbabilityPerHour) > 1e-9 {
		t.Errorf("hourly death from frame rate = %v, want %v", got, p.DeathProbabilityPerHour)
	}
	if got := 1 - math.Pow(1-r.DeathInHospital, 120); math.Abs(got-p.DeathProbabilityPerHourInHospital) > 1e-9 {
		t.Errorf("hourly hospital death = %v, want %v", got, p.DeathProbabilityPerHourInHospital)
	}
	if r.GoingToHospital <= 0 || r.GoingToHospital >= p.ProbabilityOfGoingToHospitalPerHour {
		t.Errorf("GoingToHospital = %v, want in (0, %v)", r.GoingToHospital, p.ProbabilityOfGoingToHospitalPerHour)
	}
}
