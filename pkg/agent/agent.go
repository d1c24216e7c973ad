// Package agent implements one simulated person: a daily schedule, movement
// along the road lattice toward an assigned building, and the
// healthy / infected / immune / dead state machine.
package agent

import (
	"math/rand/v2"

	"github.com/ChicagoDave/episim/pkg/building"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/grid"
)

// State is an agent's health state.
type State string

const (
	Healthy  State = "healthy"
	Infected State = "infected"
	Immune   State = "immune"
	Dead     State = "dead"
)

// Places are the buildings an agent moves between.
type Places struct {
	House     building.ID `json:"house"`
	Workplace building.ID `json:"workplace"`
	Shop      building.ID `json:"shop"`
	Hospital  building.ID `json:"hospital"`
}

// Config describes a new agent.
type Config struct {
	Position   grid.Vec2i
	State      State
	Places     Places
	Schedule   Schedule
	Parameters disease.Parameters
	HourLength float64
}

// Agent is one simulated person. It reads building positions from a shared
// registry and owns a private copy of the disease parameters.
type Agent struct {
	city *building.Registry
	rng  *rand.Rand

	position      grid.Vec2i
	state         State
	sinceInfected float64 // simulated hours

	params     disease.Parameters
	hourLength float64
	rates      disease.Rates

	places   Places
	schedule Schedule

	destination    building.ID
	hasDestination bool

	// Pathfinding cursor on the intersection lattice.
	current   grid.Vec2i
	next      grid.Vec2i
	nextPixel grid.Vec2i
	target    grid.Vec2i
	reached   bool

	// Distance owed when a frame's travel is below one pixel.
	banked float64
}

// New creates an agent. Per-frame rates are derived immediately from
// cfg.Parameters and cfg.HourLength.
func New(cfg Config, city *building.Registry, rng *rand.Rand) *Agent {
	a := &Agent{
		city:       city,
		rng:        rng,
		position:   cfg.Position,
		state:      cfg.State,
		params:     cfg.Parameters,
		hourLength: cfg.HourLength,
		places:     cfg.Places,
		schedule:   cfg.Schedule,
		reached:    true,
	}
	if a.state == "" {
		a.state = Healthy
	}
	a.deriveRates()
	return a
}

func (a *Agent) deriveRates() {
	a.rates = disease.Derive(a.params, a.hourLength, a.city.Geometry().SquareWidth)
}

// SetHourLength re-derives movement speed and per-frame probabilities.
func (a *Agent) SetHourLength(seconds float64) {
	a.hourLength = seconds
	a.deriveRates()
}

// SetParameters replaces the agent's copy of the disease parameters and
// re-derives its per-frame probabilities.
func (a *Agent) SetParameters(p disease.Parameters) {
	a.params = p
	a.deriveRates()
}

// OnHour applies the daily schedule for the given hour of day. Agents bound
// for or inside the hospital ignore the schedule. The shopping trip only
// starts once the previous trip has arrived.
func (a *Agent) OnHour(hour int) {
	if a.state == Dead || a.InHospital() {
		return
	}
	switch hour {
	case a.schedule.WorkStart:
		a.MoveTo(a.places.Workplace)
	case a.schedule.WorkEnd:
		a.MoveTo(a.places.House)
	case a.schedule.ShoppingStart:
		if a.reached {
			a.MoveTo(a.places.Shop)
		}
	case a.schedule.ShoppingEnd:
		a.MoveTo(a.places.House)
	}
}

// OnFrame advances the disease and moves the agent one frame of dt seconds.
func (a *Agent) OnFrame(dt float64) {
	if a.state == Dead {
		return
	}

	if a.state == Infected {
		a.sinceInfected += dt / a.hourLength

		if a.sinceInfected > a.params.HoursToGetImmune {
			a.state = Immune
			if a.InHospital() {
				a.MoveTo(a.places.House)
			}
		}

		if a.state == Infected && a.sinceInfected > a.params.HoursToGetSymptoms {
			death := a.rates.Death
			if a.InHospital() {
				death = a.rates.DeathInHospital
			}
			if a.roll(death) {
				a.state = Dead
				return
			}
			if !a.InHospital() && a.roll(a.rates.GoingToHospital) {
				a.MoveTo(a.places.Hospital)
			}
		}
	}

	a.move(dt)
}

// MoveTo sets a new destination and resets the pathfinding cursor from the
// agent's current position.
func (a *Agent) MoveTo(id building.ID) {
	a.destination = id
	a.hasDestination = true
	a.reached = false
	a.banked = 0

	a.current = a.city.PixelToGrid(a.position)
	a.target = a.city.PixelToGrid(a.city.Get(id).Position)
	a.next = NextIntersection(a.current, a.target)
	a.nextPixel = a.city.GridToPixel(a.next)
}

func (a *Agent) move(dt float64) {
	if a.reached || !a.hasDestination {
		return
	}

	// At the intersection next to the destination: step inside.
	if a.current == a.target {
		a.position = a.city.Get(a.destination).Position
		a.reached = true
		return
	}

	if a.position == a.nextPixel {
		a.current = a.next
		a.next = NextIntersection(a.current, a.target)
		a.nextPixel = a.city.GridToPixel(a.next)
	}

	step := a.step(dt)
	switch {
	case a.position.X != a.nextPixel.X:
		a.position.X = stepToward(a.position.X, a.nextPixel.X, step)
	case a.position.Y != a.nextPixel.Y:
		a.position.Y = stepToward(a.position.Y, a.nextPixel.Y, step)
	}
}

// step returns the whole pixels to travel this frame. Speeds of at least one
// pixel per frame truncate; slower speeds bank the fraction and release a
// pixel once a whole one has accumulated.
func (a *Agent) step(dt float64) int {
	travel := a.rates.MovementSpeed * dt
	if step := int(travel); step > 0 {
		return step
	}
	a.banked += travel
	step := int(a.banked)
	a.banked -= float64(step)
	return step
}

// Expose gives a healthy agent outside the hospital one chance to become
// infected. It reports whether the agent was infected.
func (a *Agent) Expose() bool {
	if a.state != Healthy || a.InHospital() {
		return false
	}
	if !a.roll(a.rates.Infection) {
		return false
	}
	a.state = Infected
	a.sinceInfected = 0
	return true
}

// Collides reports whether other is within exposure range of a.
func (a *Agent) Collides(other *Agent) bool {
	return a.position.Distance(other.position) < 2*a.params.InfectionRadius
}

func (a *Agent) roll(p float64) bool {
	return a.rng.Float64() < p
}

// InHospital reports whether the agent's current destination is the hospital.
func (a *Agent) InHospital() bool {
	return a.hasDestination && a.destination == a.places.Hospital
}

// Destination returns the current destination, if any.
func (a *Agent) Destination() (building.ID, bool) {
	return a.destination, a.hasDestination
}

func (a *Agent) Position() grid.Vec2i { return a.position }
func (a *Agent) State() State { return a.state }
func (a *Agent) Alive() bool { return a.state != Dead }
func (a *Agent) Reached() bool { return a.reached }
func (a *Agent) SinceInfected() float64 { return a.sinceInfected }
func (a *Agent) Schedule() Schedule { return a.schedule }
func (a *Agent) Places() Places { return a.places }
func (a *Agent) Rates() disease.Rates { return a.rates }
func (a *Agent) Parameters() disease.Parameters { return a.params }
