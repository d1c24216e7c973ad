package scenario

import (
	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/metrics"
	"github.com/ChicagoDave/episim/pkg/population"
)

// Scenario is the top-level description of one simulation run.
type Scenario struct {
	ScenarioVersion string             `yaml:"scenario_version" json:"scenario_version"`
	Name            string             `yaml:"name" json:"name"`
	Seed            uint64             `yaml:"seed" json:"seed"`
	Population      PopulationDef      `yaml:"population" json:"population"`
	City            CityDef            `yaml:"city" json:"city"`
	Disease         disease.Parameters `yaml:"disease" json:"disease"`
	Clock           ClockDef           `yaml:"clock" json:"clock"`
	Metrics         MetricsDef         `yaml:"metrics" json:"metrics"`
	Run             RunDef             `yaml:"run" json:"run"`
}

type PopulationDef struct {
	Size               int     `yaml:"size" json:"size"`
	ResidentsPerHouse  int     `yaml:"residents_per_house" json:"residents_per_house"`
	InitialImmuneRatio float64 `yaml:"initial_immune_ratio" json:"initial_immune_ratio"`
}

type CityDef struct {
	// Intensity scales the number of large block placement attempts (side² × intensity).
	Intensity float64 `yaml:"intensity" json:"intensity"`
}

type ClockDef struct {
	HourLength float64 `yaml:"hour_length" json:"hour_length"` // seconds per simulated hour
	FrameRate  float64 `yaml:"frame_rate" json:"frame_rate"`
}

type MetricsDef struct {
	Width int `yaml:"width" json:"width"`
}

// RunDef controls the headless run command.
type RunDef struct {
	Days int `yaml:"days" json:"days"`
}

// Default returns the reference scenario.
func Default() Scenario {
	return Scenario{
		ScenarioVersion: "0.1.0",
		Name:            "default",
		Population: PopulationDef{
			Size:               500,
			ResidentsPerHouse:  4,
			InitialImmuneRatio: population.DefaultImmuneRatio,
		},
		City:    CityDef{Intensity: city.DefaultIntensity},
		Disease: disease.Default(),
		Clock: ClockDef{
			HourLength: 1.0,
			FrameRate:  disease.FrameRate,
		},
		Metrics: MetricsDef{Width: metrics.DefaultWidth},
		Run:     RunDef{Days: 7},
	}
}

// FrameTime returns the seconds of frame time covered by one tick.
func (s *Scenario) FrameTime() float64 {
	return 1 / s.Clock.FrameRate
}

// Frames returns the number of ticks needed to cover the configured run length.
func (s *Scenario) Frames() int {
	return int(float64(s.Run.Days) * 24 * s.Clock.HourLength * s.Clock.FrameRate)
}
