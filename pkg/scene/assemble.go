package scene

import (
	"time"

	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/grid"
	"github.com/ChicagoDave/episim/pkg/sim"
)

// Assemble captures the current state of s.
func Assemble(s *sim.Simulation) *Snapshot {
	snap := NewSnapshot()
	geo := s.City().Geometry()

	assembleBlocks(s.Plan(), geo, snap)
	assembleBuildings(s, snap)
	assembleAgents(s, snap)

	w := s.Window()
	snap.Metrics = Metrics{
		Width:   w.Width(),
		Full:    w.Full(),
		Columns: w.Columns(),
		Labels:  w.Labels(),
	}
	snap.Status = s.Status()

	sc := s.Scenario()
	snap.Metadata = Metadata{
		RunID:           s.RunID.String(),
		Scenario:        sc.Name,
		ScenarioVersion: sc.ScenarioVersion,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Side:            geo.Side,
		Bounds:          cityBounds(geo),
	}
	return snap
}

func assembleBlocks(plan *city.Plan, geo grid.Geometry, snap *Snapshot) {
	for i, b := range plan.Blocks {
		snap.Blocks = append(snap.Blocks, Block{ID: i, Block: b, Bounds: blockBounds(b, geo)})
		snap.Groups.BlockAreas[b.Area] = append(snap.Groups.BlockAreas[b.Area], i)
	}
}

func assembleBuildings(s *sim.Simulation, snap *Snapshot) {
	for _, b := range s.City().All() {
		snap.Buildings = append(snap.Buildings, b)
		snap.Groups.BuildingKinds[b.Kind] = append(snap.Groups.BuildingKinds[b.Kind], b.ID)
	}
}

func assembleAgents(s *sim.Simulation, snap *Snapshot) {
	for i, a := range s.Population().Agents() {
		snap.Agents = append(snap.Agents, Agent{
			ID:         i,
			Position:   a.Position(),
			State:      a.State(),
			Alive:      a.Alive(),
			InHospital: a.InHospital(),
		})
		snap.Groups.AgentStates[a.State()] = append(snap.Groups.AgentStates[a.State()], i)
	}
}

// blockBounds spans from the origin of the block's first cell to the far
// corner of its last cell, covering the roads between its cells.
func blockBounds(b city.Block, geo grid.Geometry) Rect {
	lo, hi := b.Cells[0], b.Cells[0]
	for _, c := range b.Cells[1:] {
		lo = grid.Pt(min(lo.X, c.X), min(lo.Y, c.Y))
		hi = grid.Pt(max(hi.X, c.X), max(hi.Y, c.Y))
	}
	far := geo.CellOrigin(hi)
	return Rect{
		Min: geo.CellOrigin(lo),
		Max: grid.Pt(far.X+geo.SquareWidth, far.Y+geo.SquareWidth),
	}
}

func cityBounds(geo grid.Geometry) Rect {
	half := geo.PixelSize() / 2
	return Rect{
		Min: grid.Pt(-half, -half),
		Max: grid.Pt(geo.PixelSize()-half, geo.PixelSize()-half),
	}
}
