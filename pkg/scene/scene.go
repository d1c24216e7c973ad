// Package scene assembles the presentation snapshot of a running
// simulation: blocks, buildings, agents, status panel and chart data.
package scene

import (
	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/building"
	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/grid"
	"github.com/ChicagoDave/episim/pkg/metrics"
	"github.com/ChicagoDave/episim/pkg/sim"
)

// Rect is an axis-aligned pixel rectangle, Max exclusive.
type Rect struct {
	Min grid.Vec2i `json:"min"`
	Max grid.Vec2i `json:"max"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p grid.Vec2i) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X < r.Max.X && p.Y < r.Max.Y
}

// Block is a city block with the pixel rectangle it covers.
type Block struct {
	ID int `json:"id"`
	city.Block
	Bounds Rect `json:"bounds"`
}

// Agent is the drawable state of one agent.
type Agent struct {
	ID         int         `json:"id"`
	Position   grid.Vec2i  `json:"position"`
	State      agent.State `json:"state"`
	Alive      bool        `json:"alive"`
	InHospital bool        `json:"in_hospital"`
}

// Metrics is the chart data of the metrics window.
type Metrics struct {
	Width   int              `json:"width"`
	Full    bool             `json:"full"`
	Columns []metrics.Column `json:"columns"`
	Labels  []metrics.Label  `json:"labels"`
}

// Snapshot is everything a renderer needs to draw one frame.
type Snapshot struct {
	Metadata  Metadata            `json:"metadata"`
	Blocks    []Block             `json:"blocks"`
	Buildings []building.Building `json:"buildings"`
	Agents    []Agent             `json:"agents"`
	Status    sim.Status          `json:"status"`
	Metrics   Metrics             `json:"metrics"`
	Groups    Groups              `json:"groups"`
}

// Metadata holds snapshot-level information.
type Metadata struct {
	RunID           string `json:"run_id"`
	Scenario        string `json:"scenario"`
	ScenarioVersion string `json:"scenario_version"`
	GeneratedAt     string `json:"generated_at"`
	Side            int    `json:"side"`
	Bounds          Rect   `json:"bounds"`
}

// Groups index buildings and agents for fast filtering.
type Groups struct {
	BuildingKinds map[building.Kind][]building.ID `json:"building_kinds"`
	AgentStates   map[agent.State][]int           `json:"agent_states"`
	BlockAreas    map[city.AreaType][]int         `json:"block_areas"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Blocks:    []Block{},
		Buildings: []building.Building{},
		Agents:    []Agent{},
		Groups: Groups{
			BuildingKinds: make(map[building.Kind][]building.ID),
			AgentStates:   make(map[agent.State][]int),
			BlockAreas:    make(map[city.AreaType][]int),
		},
	}
}

// Plan rebuilds the city plan from the snapshot's blocks.
func (s *Snapshot) Plan() *city.Plan {
	p := &city.Plan{Side: s.Metadata.Side}
	for _, b := range s.Blocks {
		p.Blocks = append(p.Blocks, b.Block)
	}
	return p
}
