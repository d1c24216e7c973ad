// Package sim wires the city, population, clock and metrics window of one
// run together and advances them one frame at a time.
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ChicagoDave/episim/pkg/building"
	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/clock"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/metrics"
	"github.com/ChicagoDave/episim/pkg/population"
	"github.com/ChicagoDave/episim/pkg/scenario"
	"github.com/ChicagoDave/episim/pkg/validation"
)

// Peak records the highest infected count seen and when it was first reached.
type Peak struct {
	Infected int `json:"infected"`
	Day      int `json:"day"`
	Hour     int `json:"hour"`
}

// Status is the status panel data: clock, counts and run progress.
type Status struct {
	RunID      string            `json:"run_id"`
	Day        int               `json:"day"`
	Hour       int               `json:"hour"`
	HourLength float64           `json:"hour_length"`
	Frames     int               `json:"frames"`
	Population int               `json:"population"`
	Counts     population.Counts `json:"counts"`
	Peak       Peak              `json:"peak"`
}

// Simulation is one run. It is not safe for concurrent use.
type Simulation struct {
	RunID uuid.UUID

	scenario   scenario.Scenario
	clock      *clock.Clock
	plan       *city.Plan
	city       *building.Registry
	population *population.Population
	window     *metrics.Window
	logger     *log.Logger

	frames int
	peak   Peak
}

// NewRNG returns a PCG generator for seed. Seed 0 seeds from the current time.
func NewRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// New generates a city for s and populates it. A nil rng is replaced by
// NewRNG(s.Seed); a nil logger discards output.
func New(s *scenario.Scenario, rng *rand.Rand, logger *log.Logger) (*Simulation, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if rng == nil {
		rng = NewRNG(s.Seed)
	}

	// 1. Size the grid.
	side, err := city.SideLength(s.Population.Size, s.Population.ResidentsPerHouse)
	if err != nil {
		return nil, fmt.Errorf("sizing city: %w", err)
	}
	if err := validation.ValidateScenario(s).Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	logger = logger.With("run", id.String()[:8])

	// 2. Generate blocks and buildings.
	plan := city.Generate(side, s.City.Intensity, rng)
	logger.Debug("generated city", "side", side, "blocks", len(plan.Blocks),
		"residential", plan.CountArea(city.AreaResidential),
		"green", plan.CountArea(city.AreaGreen))

	registry, err := building.NewRegistry(plan)
	if err != nil {
		return nil, fmt.Errorf("placing buildings: %w", err)
	}
	logger.Debug("placed buildings", "total", registry.Len(),
		"houses", len(registry.OfKind(building.KindHouse)),
		"workplaces", len(registry.OfKind(building.KindWorkplace)),
		"shops", len(registry.OfKind(building.KindShop)))

	// 3. Populate.
	pop, err := population.New(population.Config{
		Size:              s.Population.Size,
		ResidentsPerHouse: s.Population.ResidentsPerHouse,
		Parameters:        s.Disease,
		HourLength:        s.Clock.HourLength,
		ImmuneRatio:       s.Population.InitialImmuneRatio,
	}, registry, rng)
	if err != nil {
		return nil, fmt.Errorf("creating population: %w", err)
	}

	sim := &Simulation{
		RunID:      id,
		scenario:   *s,
		clock:      clock.New(s.Clock.HourLength),
		plan:       plan,
		city:       registry,
		population: pop,
		window:     metrics.NewWindow(s.Metrics.Width),
		logger:     logger,
	}
	sim.observePeak(pop.Counts())
	logger.Info("simulation ready", "population", pop.Len(), "side", side)
	return sim, nil
}

// Tick advances the run by one frame of dt seconds: clock, schedule on an
// hour change, agents, then the metrics window.
func (s *Simulation) Tick(dt float64) {
	s.clock.Advance(dt)
	if s.clock.ConsumeHourChanged() {
		s.population.OnHour(s.clock.Hour())
		c := s.population.Counts()
		s.logger.Info("hour", "day", s.clock.Day(), "hour", s.clock.Hour(),
			"healthy", c.Healthy, "infected", c.Infected, "immune", c.Immune, "dead", c.Dead)
	}

	s.population.OnFrame(dt)

	c := s.population.Counts()
	s.window.Update(c, s.population.Len(), s.clock.HourLength())
	s.observePeak(c)
	s.frames++
}

// Run ticks n frames of dt seconds, stopping early if ctx is cancelled.
func (s *Simulation) Run(ctx context.Context, n int, dt float64) error {
	for i := 0; i < n; i++ {
		if i%int(disease.FrameRate) == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.Tick(dt)
	}
	return nil
}

func (s *Simulation) observePeak(c population.Counts) {
	if c.Infected > s.peak.Infected {
		s.peak = Peak{Infected: c.Infected, Day: s.clock.Day(), Hour: s.clock.Hour()}
	}
}

// ApplyParameters validates p and hands every agent a copy of it.
func (s *Simulation) ApplyParameters(p disease.Parameters) error {
	if err := validation.ValidateParameters(p).Err(); err != nil {
		return err
	}
	s.scenario.Disease = p
	s.population.ApplyParameters(p)
	s.logger.Info("applied parameters",
		"infection", p.InfectionProbabilityPerHour, "death", p.DeathProbabilityPerHour,
		"radius", p.InfectionRadius)
	return nil
}

// SetHourLength changes the seconds of frame time per simulated hour for the
// clock and every agent.
func (s *Simulation) SetHourLength(seconds float64) error {
	if err := validation.ValidateHourLength(seconds).Err(); err != nil {
		return err
	}
	s.scenario.Clock.HourLength = seconds
	s.clock.SetHourLength(seconds)
	s.population.SetHourLength(seconds)
	s.logger.Info("changed hour length", "seconds", seconds)
	return nil
}

// Status returns the current clock and counts.
func (s *Simulation) Status() Status {
	return Status{
		RunID:      s.RunID.String(),
		Day:        s.clock.Day(),
		Hour:       s.clock.Hour(),
		HourLength: s.clock.HourLength(),
		Frames:     s.frames,
		Population: s.population.Len(),
		Counts:     s.population.Counts(),
		Peak:       s.peak,
	}
}

func (s *Simulation) Scenario() scenario.Scenario { return s.scenario }
func (s *Simulation) Parameters() disease.Parameters { return s.scenario.Disease }
func (s *Simulation) Clock() *clock.Clock { return s.clock }
func (s *Simulation) Plan() *city.Plan { return s.plan }
func (s *Simulation) City() *building.Registry { return s.city }
func (s *Simulation) Population() *population.Population { return s.population }
func (s *Simulation) Window() *metrics.Window { return s.window }
func (s *Simulation) Frames() int { return s.frames }
func (s *Simulation) Peak() Peak { return s.peak }
