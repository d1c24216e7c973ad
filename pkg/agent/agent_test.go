package agent

import (
	"math/rand/v2"
	"testing"

	"github.com/ChicagoDave/episim/pkg/building"
	"github.com/ChicagoDave/episim/pkg/city"
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/grid"
)

const frame = 1.0 / 60

// testCity is a 5x5 city with the hospital at the center, one house in the
// top-left corner, a workplace at (4,3) and a shop at (0,4).
func testCity(t *testing.T) (*building.Registry, Places) {
	t.Helper()
	special := map[grid.Vec2i]city.AreaType{
		{X: 2, Y: 2}: city.AreaHospital,
		{X: 0, Y: 0}: city.AreaResidential,
		{X: 4, Y: 3}: city.AreaWorkplace,
		{X: 0, Y: 4}: city.AreaShopping,
	}
	plan := &city.Plan{Side: 5}
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			c := grid.Pt(x, y)
			area, ok := special[c]
			if !ok {
				area = city.AreaGreen
			}
			plan.Blocks = append(plan.Blocks, city.Block{Cells: []grid.Vec2i{c}, Size: city.SizeStandard, Area: area})
		}
	}
	reg, err := building.NewRegistry(plan)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	places := Places{
		House:     reg.OfKind(building.KindHouse)[0],
		Workplace: reg.OfKind(building.KindWorkplace)[0],
		Shop:      reg.OfKind(building.KindShop)[0],
		Hospital:  reg.Hospital(),
	}
	return reg, places
}

// quietParameters never infect, kill or hospitalize anyone.
func quietParameters() disease.Parameters {
	return disease.Parameters{
		HoursToGetImmune:   24,
		HoursToGetSymptoms: 12,
		InfectionRadius:    20,
	}
}

func newTestAgent(t *testing.T, state State, p disease.Parameters) (*Agent, *building.Registry) {
	t.Helper()
	reg, places := testCity(t)
	a := New(Config{
		Position:   reg.Get(places.House).Position,
		State:      state,
		Places:     places,
		Schedule:   Schedule{WorkStart: 6, WorkEnd: 15, ShoppingStart: 17, ShoppingEnd: 19},
		Parameters: p,
		HourLength: 1,
	}, reg, rand.New(rand.NewPCG(1, 2)))
	return a, reg
}

func TestNextIntersectionLShape(t *testing.T) {
	cur := grid.Pt(0, 0)
	target := grid.Pt(2, 3)
	want := []grid.Vec2i{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 3}}
	for i, w := range want {
		cur = NextIntersection(cur, target)
		if cur != w {
			t.Fatalf("step %d: got %v, want %v", i, cur, w)
		}
	}
}

func TestNextIntersectionNegativeDirection(t *testing.T) {
	if got := NextIntersection(grid.Pt(3, 3), grid.Pt(1, 0)); got != grid.Pt(2, 3) {
		t.Errorf("got %v, want (2,3)", got)
	}
	if got := NextIntersection(grid.Pt(1, 3), grid.Pt(1, 0)); got != grid.Pt(1, 2) {
		t.Errorf("got %v, want (1,2)", got)
	}
}

func TestRandomScheduleBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 1000; i++ {
		s := RandomSchedule(rng)
		if s.WorkStart < 5 || s.WorkStart > 8 {
			t.Fatalf("WorkStart = %d", s.WorkStart)
		}
		if s.WorkEnd != (s.WorkStart+9)%24 {
			t.Fatalf("WorkEnd = %d for WorkStart %d", s.WorkEnd, s.WorkStart)
		}
		if s.ShoppingStart < s.WorkEnd+1 || s.ShoppingStart > s.WorkEnd+3 {
			t.Fatalf("ShoppingStart = %d for WorkEnd %d", s.ShoppingStart, s.WorkEnd)
		}
		d := (s.ShoppingEnd - s.ShoppingStart + 24) % 24
		if d < 1 || d > 2 {
			t.Fatalf("shopping lasts %d hours", d)
		}
	}
}

func TestScheduleArrival(t *testing.T) {
	a, reg := newTestAgent(t, Healthy, quietParameters())
	work := reg.Get(a.Places().Workplace)

	a.OnHour(6)
	if dest, ok := a.Destination(); !ok || dest != work.ID {
		t.Fatalf("destination = %v, want workplace %v", dest, work.ID)
	}
	for i := 0; i < 3*60 && !a.Reached(); i++ {
		a.OnFrame(frame)
	}
	if !a.Reached() {
		t.Fatal("agent did not reach the workplace within 3 simulated hours")
	}
	if a.Position() != work.Position {
		t.Errorf("position = %v, want workplace %v", a.Position(), work.Position)
	}
}

func TestScheduleArrivalLongHour(t *testing.T) {
	a, reg := newTestAgent(t, Healthy, quietParameters())
	a.SetHourLength(30)
	if travel := a.Rates().MovementSpeed * frame; travel >= 1 {
		t.Fatalf("travel per frame = %v, want below one pixel", travel)
	}
	work := reg.Get(a.Places().Workplace)

	a.OnHour(6)
	framesPerHour := 30 * 60
	for i := 0; i < 3*framesPerHour && !a.Reached(); i++ {
		before := a.Position()
		a.OnFrame(frame)
		if a.Reached() {
			break
		}
		if d := grid.Pt(0, 0).Manhattan(a.Position().Sub(before)); d > 1 {
			t.Fatalf("frame %d moved %d pixels, want at most 1", i, d)
		}
	}
	if !a.Reached() {
		t.Fatalf("agent stuck at %v, did not reach the workplace within 3 simulated hours", a.Position())
	}
	if a.Position() != work.Position {
		t.Errorf("position = %v, want workplace %v", a.Position(), work.Position)
	}
}

func TestMovementBound(t *testing.T) {
	a, _ := newTestAgent(t, Healthy, quietParameters())
	a.OnHour(6)
	limit := a.Rates().MovementSpeed * frame

	for i := 0; i < 3*60 && !a.Reached(); i++ {
		before := a.Position()
		a.OnFrame(frame)
		if a.Reached() {
			break // final frame snaps into the building
		}
		after := a.Position()
		d := after.Sub(before)
		if d.X != 0 && d.Y != 0 {
			t.Fatalf("frame %d moved diagonally: %v -> %v", i, before, after)
		}
		if float64(grid.Pt(0, 0).Manhattan(d)) > limit {
			t.Fatalf("frame %d moved %v, limit %v", i, d, limit)
		}
		np := a.nextPixel
		if (before.X-np.X)*(after.X-np.X) < 0 || (before.Y-np.Y)*(after.Y-np.Y) < 0 {
			t.Fatalf("frame %d overshot intersection %v: %v -> %v", i, np, before, after)
		}
	}
}

func TestDeadIsAbsorbing(t *testing.T) {
	p := disease.Parameters{
		InfectionProbabilityPerHour:         1,
		DeathProbabilityPerHour:             1,
		ProbabilityOfGoingToHospitalPerHour: 1,
		HoursToGetImmune:                    0,
		InfectionRadius:                     1000,
	}
	a, _ := newTestAgent(t, Dead, p)
	start := a.Position()
	for h := 0; h < 48; h++ {
		a.OnHour(h % 24)
		for f := 0; f < 60; f++ {
			a.OnFrame(frame)
			if a.Expose() {
				t.Fatal("dead agent was infected")
			}
		}
	}
	if a.State() != Dead {
		t.Errorf("state = %s, want dead", a.State())
	}
	if a.Position() != start {
		t.Errorf("dead agent moved from %v to %v", start, a.Position())
	}
	if a.Alive() {
		t.Error("Alive() = true for dead agent")
	}
}

func TestDiesAndStaysDead(t *testing.T) {
	p := quietParameters()
	p.DeathProbabilityPerHour = 1
	p.HoursToGetSymptoms = 0
	a, _ := newTestAgent(t, Infected, p)
	a.OnFrame(frame)
	if a.State() != Dead {
		t.Fatalf("state = %s, want dead", a.State())
	}
	pos := a.Position()
	a.OnHour(6)
	for i := 0; i < 120; i++ {
		a.OnFrame(frame)
	}
	if a.Position() != pos || a.State() != Dead {
		t.Errorf("dead agent changed: %v %s", a.Position(), a.State())
	}
}

func TestInfectedBecomesImmune(t *testing.T) {
	p := quietParameters()
	p.HoursToGetImmune = 1
	a, _ := newTestAgent(t, Infected, p)
	for i := 0; i < 59; i++ {
		a.OnFrame(frame)
	}
	if a.State() != Infected {
		t.Fatalf("state = %s before hoursToGetImmune, want infected", a.State())
	}
	for i := 0; i < 5; i++ {
		a.OnFrame(frame)
	}
	if a.State() != Immune {
		t.Errorf("state = %s, want immune", a.State())
	}
}

func TestHospitalAdmissionAndDischarge(t *testing.T) {
	p := quietParameters()
	p.ProbabilityOfGoingToHospitalPerHour = 1
	p.HoursToGetSymptoms = 0
	p.HoursToGetImmune = 2
	a, _ := newTestAgent(t, Infected, p)

	a.OnFrame(frame)
	if !a.InHospital() {
		t.Fatal("expected hospital admission once symptoms start")
	}
	a.OnHour(6)
	if !a.InHospital() {
		t.Error("schedule must not pull an agent out of the hospital")
	}
	for i := 0; i < 3*60; i++ {
		a.OnFrame(frame)
	}
	if a.State() != Immune {
		t.Fatalf("state = %s, want immune", a.State())
	}
	if dest, _ := a.Destination(); dest != a.Places().House {
		t.Errorf("destination = %v after recovery, want house %v", dest, a.Places().House)
	}
}

func TestAdmittedAgentStaysInHospital(t *testing.T) {
	p := quietParameters()
	p.ProbabilityOfGoingToHospitalPerHour = 1
	p.HoursToGetSymptoms = 0
	a, reg := newTestAgent(t, Infected, p)
	hospital := reg.Get(a.Places().Hospital)

	for i := 0; i < 3*60 && !a.Reached(); i++ {
		a.OnFrame(frame)
	}
	if !a.Reached() || a.Position() != hospital.Position {
		t.Fatalf("position = %v, reached = %v, want hospital %v", a.Position(), a.Reached(), hospital.Position)
	}
	for h := 6; h < 20; h++ {
		a.OnHour(h)
		for f := 0; f < 60; f++ {
			a.OnFrame(frame)
		}
		if a.State() != Infected {
			break
		}
		if a.Position() != hospital.Position || !a.Reached() {
			t.Fatalf("hour %d: position = %v, reached = %v, want to stay in hospital", h, a.Position(), a.Reached())
		}
	}
}

func TestDeathRateDependsOnHospital(t *testing.T) {
	p := quietParameters()
	p.HoursToGetSymptoms = 0
	p.DeathProbabilityPerHourInHospital = 1

	outside, _ := newTestAgent(t, Infected, p)
	for i := 0; i < 60; i++ {
		outside.OnFrame(frame)
	}
	if outside.State() != Infected {
		t.Errorf("agent outside hospital: state = %s, want infected", outside.State())
	}

	inside, _ := newTestAgent(t, Infected, p)
	inside.MoveTo(inside.Places().Hospital)
	inside.OnFrame(frame)
	if inside.State() != Dead {
		t.Errorf("agent in hospital: state = %s, want dead", inside.State())
	}
}

func TestExpose(t *testing.T) {
	p := quietParameters()
	p.InfectionProbabilityPerHour = 1

	a, _ := newTestAgent(t, Healthy, p)
	if !a.Expose() {
		t.Fatal("expected infection with probability 1")
	}
	if a.State() != Infected || a.SinceInfected() != 0 {
		t.Errorf("state = %s since = %v", a.State(), a.SinceInfected())
	}
	if a.Expose() {
		t.Error("infected agent must not be re-infected")
	}

	b, _ := newTestAgent(t, Healthy, p)
	b.MoveTo(b.Places().Hospital)
	if b.Expose() {
		t.Error("agent in hospital must not be infected")
	}

	c, _ := newTestAgent(t, Immune, p)
	if c.Expose() {
		t.Error("immune agent must not be infected")
	}
}

func TestCollides(t *testing.T) {
	p := quietParameters()
	a, reg := newTestAgent(t, Infected, p)
	b, _ := newTestAgent(t, Healthy, p)

	tests := []struct {
		offset grid.Vec2i
		want   bool
	}{
		{grid.Pt(0, 0), true},
		{grid.Pt(39, 0), true},
		{grid.Pt(40, 0), false},
		{grid.Pt(28, 28), true}, // 39.6
		{grid.Pt(29, 29), false},
	}
	for _, tt := range tests {
		b.position = reg.Get(b.Places().House).Position.Add(tt.offset)
		if got := a.Collides(b); got != tt.want {
			t.Errorf("offset %v: Collides = %v, want %v", tt.offset, got, tt.want)
		}
	}

	p.InfectionRadius = 0
	a.SetParameters(p)
	b.position = a.Position()
	if a.Collides(b) {
		t.Error("zero radius must never collide")
	}
}

func TestShoppingWaitsForArrival(t *testing.T) {
	a, _ := newTestAgent(t, Healthy, quietParameters())
	a.MoveTo(a.Places().Workplace)
	a.OnHour(17)
	if dest, _ := a.Destination(); dest != a.Places().Workplace {
		t.Fatalf("shopping interrupted a trip: destination = %v", dest)
	}
	for i := 0; i < 3*60 && !a.Reached(); i++ {
		a.OnFrame(frame)
	}
	a.OnHour(17)
	if dest, _ := a.Destination(); dest != a.Places().Shop {
		t.Errorf("destination = %v, want shop %v", dest, a.Places().Shop)
	}
}

func TestWorkEndInterruptsTrip(t *testing.T) {
	a, _ := newTestAgent(t, Healthy, quietParameters())
	a.OnHour(6)
	a.OnFrame(frame)
	a.OnHour(15)
	if dest, _ := a.Destination(); dest != a.Places().House {
		t.Errorf("destination = %v, want house", dest)
	}
}

func TestSetHourLengthRederives(t *testing.T) {
	p := disease.Default()
	a, _ := newTestAgent(t, Healthy, p)
	fast := a.Rates()
	a.SetHourLength(2)
	slow := a.Rates()
	if slow.MovementSpeed != fast.MovementSpeed/2 {
		t.Errorf("MovementSpeed = %v, want %v", slow.MovementSpeed, fast.MovementSpeed/2)
	}
	if slow.Infection >= fast.Infection {
		t.Errorf("per-frame infection should drop with more frames per hour: %v vs %v", slow.Infection, fast.Infection)
	}
	if slow.FramesPerHour != 120 {
		t.Errorf("FramesPerHour = %v, want 120", slow.FramesPerHour)
	}
}
