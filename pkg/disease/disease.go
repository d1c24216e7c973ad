// Package disease holds the per-hour disease parameters and their
// conversion to per-frame probabilities.
package disease

import "math"

// FrameRate is the number of frames in one second of frame time.
const FrameRate = 60.0

// Parameters are the hourly disease rates and thresholds.
type Parameters struct {
	InfectionProbabilityPerHour         float64 `yaml:"infection_probability_per_hour" json:"infection_probability_per_hour"`
	DeathProbabilityPerHour             float64 `yaml:"death_probability_per_hour" json:"death_probability_per_hour"`
	DeathProbabilityPerHourInHospital   float64 `yaml:"death_probability_per_hour_in_hospital" json:"death_probability_per_hour_in_hospital"`
	ProbabilityOfGoingToHospitalPerHour float64 `yaml:"probability_of_going_to_hospital_per_hour" json:"probability_of_going_to_hospital_per_hour"`
	HoursToGetImmune                    float64 `yaml:"hours_to_get_immune" json:"hours_to_get_immune"`
	HoursToGetSymptoms                  float64 `yaml:"hours_to_get_symptoms" json:"hours_to_get_symptoms"`
	InfectionRadius                     float64 `yaml:"infection_radius" json:"infection_radius"`
}

// Default returns the reference parameters.
func Default() Parameters {
	return Parameters{
		InfectionProbabilityPerHour:         0.05,
		DeathProbabilityPerHour:             0.005,
		DeathProbabilityPerHourInHospital:   0.002,
		ProbabilityOfGoingToHospitalPerHour: 0.01,
		HoursToGetImmune:                    24,
		HoursToGetSymptoms:                  12,
		InfectionRadius:                     20,
	}
}

// PerFrame converts an hourly hazard probability to the probability for one
// of framesPerHour equal steps: 1 - (1-p)^(1/framesPerHour).
func PerFrame(perHour, framesPerHour float64) float64 {
	return 1 - math.Pow(1-perHour, 1/framesPerHour)
}

// Rates are the frame-level quantities derived from Parameters and the hour length.
type Rates struct {
	FramesPerHour   float64 `json:"frames_per_hour"`
	MovementSpeed   float64 `json:"movement_speed"` // pixels per second
	Infection       float64 `json:"infection"`
	Death           float64 `json:"death"`
	DeathInHospital float64 `json:"death_in_hospital"`
	GoingToHospital float64 `json:"going_to_hospital"`
}

// Derive computes per-frame rates for the given hour length (seconds) and
// square width (pixels). Agents cross 10 squares per simulated hour.
func Derive(p Parameters, hourLength float64, squareWidth int) Rates {
	fph := FrameRate * hourLength
	return Rates{
		FramesPerHour:   fph,
		MovementSpeed:   10 * float64(squareWidth) / hourLength,
		Infection:       PerFrame(p.InfectionProbabilityPerHour, fph),
		Death:           PerFrame(p.DeathProbabilityPerHour, fph),
		DeathInHospital: PerFrame(p.DeathProbabilityPerHourInHospital, fph),
		GoingToHospital: PerFrame(p.ProbabilityOfGoingToHospitalPerHour, fph),
	}
}
