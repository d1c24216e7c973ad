// Package population owns every agent of a run. It assigns homes,
// workplaces and shops at construction, fans hour and frame ticks out to the
// agents, and runs the pairwise infection scan.
package population

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/building"
	"github.com/ChicagoDave/episim/pkg/disease"
)

// DefaultImmuneRatio is the share of agents that start out immune.
const DefaultImmuneRatio = 0.05

var (
	ErrInvalidSize = errors.New("population size and residents per house must be greater than zero")
	ErrNoHousing   = errors.New("no house with free capacity")
	ErrNoWorkplace = errors.New("city has no workplace")
	ErrNoShop      = errors.New("city has no shop")
	ErrNoHospital  = building.ErrNoHospital
)

// Config describes the population to create.
type Config struct {
	Size              int
	ResidentsPerHouse int
	Parameters        disease.Parameters
	HourLength        float64
	ImmuneRatio       float64
}

// Counts are the number of agents in each health state.
type Counts struct {
	Healthy  int `json:"healthy"`
	Infected int `json:"infected"`
	Immune   int `json:"immune"`
	Dead     int `json:"dead"`
}

// Total returns the number of agents counted.
func (c Counts) Total() int {
	return c.Healthy + c.Infected + c.Immune + c.Dead
}

// Population is the ordered collection of agents in one run.
type Population struct {
	agents   []*agent.Agent
	hospital building.ID
}

// New creates cfg.Size agents living in the houses of city. The first agent
// is infected; the rest are immune with probability cfg.ImmuneRatio and
// healthy otherwise.
func New(cfg Config, city *building.Registry, rng *rand.Rand) (*Population, error) {
	if cfg.Size <= 0 || cfg.ResidentsPerHouse <= 0 {
		return nil, ErrInvalidSize
	}

	houses := city.OfKind(building.KindHouse)
	workplaces := city.OfKind(building.KindWorkplace)
	shops := city.OfKind(building.KindShop)
	hospitals := city.OfKind(building.KindHospital)
	switch {
	case len(hospitals) == 0:
		return nil, ErrNoHospital
	case len(workplaces) == 0:
		return nil, ErrNoWorkplace
	case len(shops) == 0:
		return nil, ErrNoShop
	}

	p := &Population{
		agents:   make([]*agent.Agent, 0, cfg.Size),
		hospital: city.Hospital(),
	}

	occupancy := make(map[building.ID]int, len(houses))
	eligible := make([]building.ID, 0, len(houses))
	for i := 0; i < cfg.Size; i++ {
		eligible = eligible[:0]
		for _, h := range houses {
			if occupancy[h] < cfg.ResidentsPerHouse {
				eligible = append(eligible, h)
			}
		}
		if len(eligible) == 0 {
			return nil, fmt.Errorf("placing agent %d of %d: %w", i+1, cfg.Size, ErrNoHousing)
		}

		house := eligible[rng.IntN(len(eligible))]
		occupancy[house]++

		state := agent.Healthy
		switch {
		case i == 0:
			state = agent.Infected
		case rng.Float64() < cfg.ImmuneRatio:
			state = agent.Immune
		}

		p.agents = append(p.agents, agent.New(agent.Config{
			Position: city.Get(house).Position,
			State:    state,
			Places: agent.Places{
				House:     house,
				Workplace: workplaces[rng.IntN(len(workplaces))],
				Shop:      shops[rng.IntN(len(shops))],
				Hospital:  p.hospital,
			},
			Schedule:   agent.RandomSchedule(rng),
			Parameters: cfg.Parameters,
			HourLength: cfg.HourLength,
		}, city, rng))
	}
	return p, nil
}

// OnHour applies the daily schedule of every agent.
func (p *Population) OnHour(hour int) {
	for _, a := range p.agents {
		a.OnHour(hour)
	}
}

// OnFrame advances every agent by dt seconds. After an agent moves, if it is
// infected and outside the hospital, every healthy agent within range gets
// one infection roll.
func (p *Population) OnFrame(dt float64) {
	for _, a := range p.agents {
		a.OnFrame(dt)
		if a.State() != agent.Infected || a.InHospital() {
			continue
		}
		for _, other := range p.agents {
			if other == a || other.State() != agent.Healthy {
				continue
			}
			if a.Collides(other) {
				other.Expose()
			}
		}
	}
}

// Counts scans every agent and tallies health states.
func (p *Population) Counts() Counts {
	var c Counts
	for _, a := range p.agents {
		switch a.State() {
		case agent.Healthy:
			c.Healthy++
		case agent.Infected:
			c.Infected++
		case agent.Immune:
			c.Immune++
		case agent.Dead:
			c.Dead++
		}
	}
	return c
}

// ApplyParameters gives every agent its own copy of params.
func (p *Population) ApplyParameters(params disease.Parameters) {
	for _, a := range p.agents {
		a.SetParameters(params)
	}
}

// SetHourLength re-derives every agent's movement speed and per-frame rates.
func (p *Population) SetHourLength(seconds float64) {
	for _, a := range p.agents {
		a.SetHourLength(seconds)
	}
}

func (p *Population) Agents() []*agent.Agent { return p.agents }
func (p *Population) Len() int { return len(p.agents) }
func (p *Population) Hospital() building.ID { return p.hospital }
