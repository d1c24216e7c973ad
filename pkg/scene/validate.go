package scene

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/episim/pkg/agent"
	"github.com/ChicagoDave/episim/pkg/building"
	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/grid"
	"github.com/ChicagoDave/episim/pkg/population"
	"github.com/ChicagoDave/episim/pkg/validation"
)

// ValidateSnapshot performs structural validation on an assembled snapshot.
// It checks the block partition, building placement, group index
// consistency, count conservation and metrics window bounds.
func ValidateSnapshot(s *Snapshot) *validation.Report {
	r := validation.NewReport()

	if s == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelRuntime,
			Message: "snapshot is nil",
		})
		return r
	}

	validatePartition(s, r)
	validateBuildings(s, r)
	validateGroups(s, r)
	validateCounts(s, r)
	validateAgents(s, r)
	validateMetrics(s, r)

	return r
}

func validatePartition(s *Snapshot, r *validation.Report) {
	if err := city.CheckPartition(s.Plan()); err != nil {
		r.AddError(validation.Result{
			Level:   validation.LevelGeneration,
			Message: err.Error(),
			Path:    "blocks",
		})
	}
}

func validateBuildings(s *Snapshot, r *validation.Report) {
	geo := grid.NewGeometry(s.Metadata.Side)
	areaAt := make(map[grid.Vec2i]city.AreaType)
	for _, b := range s.Blocks {
		for _, c := range b.Cells {
			areaAt[c] = b.Area
		}
	}

	hospitals := 0
	for i, b := range s.Buildings {
		path := fmt.Sprintf("buildings[%d]", i)
		if b.ID != building.ID(i) {
			r.AddError(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("building at index %d has ID %d", i, b.ID),
				Path:        path + ".id",
				ActualValue: b.ID,
				Expected:    fmt.Sprintf("%d", i),
			})
		}
		if b.Kind == building.KindHospital {
			hospitals++
		}
		area, ok := areaAt[b.Cell]
		switch {
		case !ok:
			r.AddError(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("building %d sits on cell %v outside every block", b.ID, b.Cell),
				Path:        path + ".cell",
				ActualValue: b.Cell,
			})
		case area == city.AreaGreen:
			r.AddError(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("building %d sits on green space at %v", b.ID, b.Cell),
				Path:        path + ".cell",
				ActualValue: b.Cell,
			})
		}
		if want := geo.CellCenter(b.Cell); b.Position != want {
			r.AddError(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("building %d is not at the center of cell %v", b.ID, b.Cell),
				Path:        path + ".position",
				ActualValue: b.Position,
				Expected:    fmt.Sprintf("%v", want),
			})
		}
	}

	if hospitals != 1 {
		r.AddError(validation.Result{
			Level:       validation.LevelGeneration,
			Message:     fmt.Sprintf("city has %d hospitals", hospitals),
			Path:        "buildings",
			ActualValue: hospitals,
			Expected:    "1",
		})
	}
}

func validateGroups(s *Snapshot, r *validation.Report) {
	indexed := 0
	for kind, ids := range s.Groups.BuildingKinds {
		for _, id := range ids {
			indexed++
			if int(id) < 0 || int(id) >= len(s.Buildings) || s.Buildings[id].Kind != kind {
				r.AddError(validation.Result{
					Level:       validation.LevelRuntime,
					Message:     fmt.Sprintf("group building_kinds.%s references building %d of another kind", kind, id),
					Path:        fmt.Sprintf("groups.building_kinds.%s", kind),
					ActualValue: id,
				})
			}
		}
	}
	if indexed != len(s.Buildings) {
		r.AddWarning(validation.Result{
			Level:       validation.LevelRuntime,
			Message:     fmt.Sprintf("%d of %d buildings are indexed by kind", indexed, len(s.Buildings)),
			Path:        "groups.building_kinds",
			ActualValue: indexed,
		})
	}

	indexed = 0
	for state, ids := range s.Groups.AgentStates {
		for _, id := range ids {
			indexed++
			if id < 0 || id >= len(s.Agents) || s.Agents[id].State != state {
				r.AddError(validation.Result{
					Level:       validation.LevelRuntime,
					Message:     fmt.Sprintf("group agent_states.%s references agent %d in another state", state, id),
					Path:        fmt.Sprintf("groups.agent_states.%s", state),
					ActualValue: id,
				})
			}
		}
	}
	if indexed != len(s.Agents) {
		r.AddWarning(validation.Result{
			Level:       validation.LevelRuntime,
			Message:     fmt.Sprintf("%d of %d agents are indexed by state", indexed, len(s.Agents)),
			Path:        "groups.agent_states",
			ActualValue: indexed,
		})
	}
}

func validateCounts(s *Snapshot, r *validation.Report) {
	var scan population.Counts
	for _, a := range s.Agents {
		switch a.State {
		case agent.Healthy:
			scan.Healthy++
		case agent.Infected:
			scan.Infected++
		case agent.Immune:
			scan.Immune++
		case agent.Dead:
			scan.Dead++
		}
	}

	c := s.Status.Counts
	if c.Total() != s.Status.Population || len(s.Agents) != s.Status.Population {
		r.AddError(validation.Result{
			Level:       validation.LevelRuntime,
			Message:     fmt.Sprintf("counts sum to %d with %d agents, population is %d", c.Total(), len(s.Agents), s.Status.Population),
			Path:        "status.counts",
			ActualValue: c.Total(),
			Expected:    fmt.Sprintf("%d", s.Status.Population),
		})
	}
	if scan != c {
		r.AddError(validation.Result{
			Level:       validation.LevelRuntime,
			Message:     fmt.Sprintf("status counts %+v do not match agent states %+v", c, scan),
			Path:        "status.counts",
			ActualValue: c,
		})
	}
}

func validateAgents(s *Snapshot, r *validation.Report) {
	for i, a := range s.Agents {
		if a.Alive != (a.State != agent.Dead) {
			r.AddError(validation.Result{
				Level:       validation.LevelRuntime,
				Message:     fmt.Sprintf("agent %d is %s but alive=%v", i, a.State, a.Alive),
				Path:        fmt.Sprintf("agents[%d].alive", i),
				ActualValue: a.Alive,
			})
		}
		if !s.Metadata.Bounds.Contains(a.Position) {
			r.AddError(validation.Result{
				Level:       validation.LevelRuntime,
				Message:     fmt.Sprintf("agent %d at %v is outside the city", i, a.Position),
				Path:        fmt.Sprintf("agents[%d].position", i),
				ActualValue: a.Position,
			})
		}
	}
}

func validateMetrics(s *Snapshot, r *validation.Report) {
	m := s.Metrics
	if len(m.Columns) > m.Width {
		r.AddError(validation.Result{
			Level:       validation.LevelRuntime,
			Message:     fmt.Sprintf("metrics window holds %d columns, width is %d", len(m.Columns), m.Width),
			Path:        "metrics.columns",
			ActualValue: len(m.Columns),
		})
	}
	for i, c := range m.Columns {
		if c.X != i {
			r.AddError(validation.Result{
				Level:       validation.LevelRuntime,
				Message:     fmt.Sprintf("column %d has x=%d", i, c.X),
				Path:        fmt.Sprintf("metrics.columns[%d].x", i),
				ActualValue: c.X,
				Expected:    fmt.Sprintf("%d", i),
			})
		}
		sum := c.Healthy + c.Infected + c.Immune + c.Dead
		if s.Status.Population > 0 && math.Abs(sum-1) > 1e-9 {
			r.AddError(validation.Result{
				Level:       validation.LevelRuntime,
				Message:     fmt.Sprintf("column %d ratios sum to %v", i, sum),
				Path:        fmt.Sprintf("metrics.columns[%d]", i),
				ActualValue: sum,
				Expected:    "1",
			})
		}
	}
	for i, l := range m.Labels {
		if l.X < 0 || l.X >= m.Width || l.Hour < 0 || l.Hour > 23 {
			r.AddError(validation.Result{
				Level:       validation.LevelRuntime,
				Message:     fmt.Sprintf("label %d at x=%d hour=%d is out of range", i, l.X, l.Hour),
				Path:        fmt.Sprintf("metrics.labels[%d]", i),
				ActualValue: l,
			})
		}
	}
}
