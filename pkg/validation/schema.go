package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/scenario"
)

// ValidateScenario performs schema validation on a parsed Scenario.
// It checks field ranges before any city is generated.
func ValidateScenario(s *scenario.Scenario) *Report {
	r := NewReport()

	validatePopulation(s, r)
	validateCity(s, r)
	validateClock(s, r)
	validateMetrics(s, r)
	validateRun(s, r)
	r.Merge(ValidateParameters(s.Disease))
	validateCapacity(s, r)

	return r
}

func validatePopulation(s *scenario.Scenario, r *Report) {
	if s.Population.Size <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "population size must be greater than 0",
			Path:        "population.size",
			ActualValue: s.Population.Size,
			Expected:    "> 0",
		})
	}
	if s.Population.ResidentsPerHouse <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "residents per house must be greater than 0",
			Path:        "population.residents_per_house",
			ActualValue: s.Population.ResidentsPerHouse,
			Expected:    "> 0",
		})
	}
	checkProbability(r, "population.initial_immune_ratio", s.Population.InitialImmuneRatio)
}

func validateCity(s *scenario.Scenario, r *Report) {
	if s.City.Intensity < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("intensity %.2f must be non-negative", s.City.Intensity),
			Path:        "city.intensity",
			ActualValue: s.City.Intensity,
			Expected:    ">= 0",
		})
	}
}

func validateClock(s *scenario.Scenario, r *Report) {
	r.Merge(ValidateHourLength(s.Clock.HourLength))
	switch {
	case s.Clock.FrameRate <= 0:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "frame rate must be greater than 0",
			Path:        "clock.frame_rate",
			ActualValue: s.Clock.FrameRate,
			Expected:    "> 0",
		})
	case s.Clock.FrameRate != disease.FrameRate:
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("per-frame rates assume %.0f frames per second; simulated hours will not match the hour length", disease.FrameRate),
			Path:        "clock.frame_rate",
			ActualValue: s.Clock.FrameRate,
			Expected:    fmt.Sprintf("%.0f", disease.FrameRate),
		})
	}
}

func validateMetrics(s *scenario.Scenario, r *Report) {
	if s.Metrics.Width <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "metrics width must be greater than 0",
			Path:        "metrics.width",
			ActualValue: s.Metrics.Width,
			Expected:    "> 0",
		})
	}
}

func validateRun(s *scenario.Scenario, r *Report) {
	if s.Run.Days < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "run days must be non-negative",
			Path:        "run.days",
			ActualValue: s.Run.Days,
			Expected:    ">= 0",
		})
	}
}

// capacityMargin is the spare housing below which a scenario is flagged.
const capacityMargin = 1.1

// validateCapacity warns when the expected number of houses leaves little
// room above the population. The check uses the 70% residential share;
// actual area types are random, so a thin margin can end in ErrNoHousing.
func validateCapacity(s *scenario.Scenario, r *Report) {
	side, err := city.SideLength(s.Population.Size, s.Population.ResidentsPerHouse)
	if err != nil {
		return
	}
	houses := int(math.Round(city.ResidentialShare * float64(side*side-1)))
	capacity := houses * s.Population.ResidentsPerHouse
	want := int(math.Ceil(capacityMargin * float64(s.Population.Size)))
	if capacity < want {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("expected housing for %d agents leaves little room for population %d", capacity, s.Population.Size),
			Path:        "population",
			ActualValue: capacity,
			Expected:    fmt.Sprintf(">= %d", want),
			Suggestions: []string{"Increase residents_per_house"},
		})
	}
	r.AddInfo(Result{
		Level:       LevelSchema,
		Message:     fmt.Sprintf("city grid will be %dx%d cells with about %d houses", side, side, houses),
		Path:        "city",
		ActualValue: side,
	})
}

// ValidateParameters checks a set of disease parameters.
func ValidateParameters(p disease.Parameters) *Report {
	r := NewReport()
	checkProbability(r, "disease.infection_probability_per_hour", p.InfectionProbabilityPerHour)
	checkProbability(r, "disease.death_probability_per_hour", p.DeathProbabilityPerHour)
	checkProbability(r, "disease.death_probability_per_hour_in_hospital", p.DeathProbabilityPerHourInHospital)
	checkProbability(r, "disease.probability_of_going_to_hospital_per_hour", p.ProbabilityOfGoingToHospitalPerHour)
	checkNonNegative(r, "disease.hours_to_get_immune", p.HoursToGetImmune)
	checkNonNegative(r, "disease.hours_to_get_symptoms", p.HoursToGetSymptoms)
	checkNonNegative(r, "disease.infection_radius", p.InfectionRadius)

	if p.HoursToGetSymptoms >= p.HoursToGetImmune && p.HoursToGetImmune >= 0 {
		r.AddInfo(Result{
			Level:   LevelSchema,
			Message: "agents become immune before symptoms start; nobody will die or be hospitalized",
			Path:    "disease.hours_to_get_symptoms",
		})
	}
	return r
}

// ValidateHourLength checks the seconds of frame time per simulated hour.
func ValidateHourLength(seconds float64) *Report {
	r := NewReport()
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "hour length must be a positive number of seconds",
			Path:        "clock.hour_length",
			ActualValue: seconds,
			Expected:    "> 0",
		})
	}
	return r
}

func checkProbability(r *Report, path string, p float64) {
	if !(p >= 0 && p <= 1) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%v is not a probability", p),
			Path:        path,
			ActualValue: p,
			Expected:    "0 <= p <= 1",
		})
	}
}

func checkNonNegative(r *Report, path string, v float64) {
	if !(v >= 0) || math.IsInf(v, 0) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%v must be a non-negative number", v),
			Path:        path,
			ActualValue: v,
			Expected:    ">= 0",
		})
	}
}
