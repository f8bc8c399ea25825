package script

import (
	"testing"

	"starops-sim/internal/mission"
)

func newTestEngine(world *testWorld) (*Engine, *recordSink) {
	sink := &recordSink{}
	def := &mission.Mission{Name: "cond"}
	return New(def, world, sink), sink
}

func TestCompareCount(t *testing.T) {
	cases := []struct {
		rel       mission.CountRelation
		live, thr int
		want      bool
	}{
		{mission.RelationEquals, 3, 3, true},
		{mission.RelationEquals, 2, 3, false},
		{mission.RelationBelow, 2, 3, true},
		{mission.RelationBelow, 3, 3, false},
		{mission.RelationAbove, 4, 3, true},
		{mission.RelationAbove, 3, 3, false},
		{mission.RelationAtMost, 3, 3, true},
		{mission.RelationAtMost, 4, 3, false},
		{mission.RelationAtLeast, 3, 3, true},
		{mission.RelationAtLeast, 2, 3, false},
	}
	for _, c := range cases {
		if got := compareCount(c.rel, c.live, c.thr); got != c.want {
			t.Errorf("compareCount(%s, %d, %d) = %v, want %v", c.rel, c.live, c.thr, got, c.want)
		}
	}
}

func TestCountExcludesDestroyedAndAway(t *testing.T) {
	world := &testWorld{craft: []*testCraft{
		{name: "Alpha 1", squad: "Alpha"},
		{name: "Alpha 2", squad: "Alpha"},
		{name: "Alpha 3", squad: "Alpha"},
		{name: "Alpha 4", squad: "Alpha", destroyed: true},
		{name: "Alpha 5", squad: "Alpha", away: true},
	}}
	e, _ := newTestEngine(world)

	cond := &mission.Condition{
		Kind:     mission.ConditionCount,
		Subjects: mission.SubjectGroup{Squads: []string{"Alpha"}},
		Count:    &mission.CountParams{Relation: mission.RelationAtLeast, Count: 3},
	}
	var cs conditionState
	if !e.evalCondition(cond, &cs) {
		t.Fatalf("at_least 3 should hold with 3 of 5 live")
	}
	world.craft[0].destroyed = true
	if e.evalCondition(cond, &cs) {
		t.Fatalf("at_least 3 should fail with 2 of 5 live")
	}
}

func TestDestroyedEmptyResolutionIsTrue(t *testing.T) {
	e, _ := newTestEngine(&testWorld{})
	cond := &mission.Condition{
		Kind:     mission.ConditionDestroyed,
		Subjects: mission.SubjectGroup{Spacecraft: []string{"Ghost"}},
	}
	var cs conditionState
	if !e.evalCondition(cond, &cs) {
		t.Fatalf("destroyed over an unresolvable subject should be true")
	}
}

func TestIntegrityExcludesDestroyed(t *testing.T) {
	world := &testWorld{craft: []*testCraft{
		{name: "A", hull: 20},
		{name: "B", hull: 90, destroyed: true},
	}}
	e, _ := newTestEngine(world)

	cond := &mission.Condition{
		Kind:      mission.ConditionHullIntegrity,
		Subjects:  mission.SubjectGroup{Spacecraft: []string{"A", "B"}},
		Integrity: &mission.IntegrityParams{Max: floatPtr(30)},
	}
	var cs conditionState
	if !e.evalCondition(cond, &cs) {
		t.Fatalf("only the survivor counts; its hull is within bounds")
	}

	world.craft[0].destroyed = true
	if e.evalCondition(cond, &cs) {
		t.Fatalf("no survivors should evaluate false")
	}
}

func TestDistanceNearestTarget(t *testing.T) {
	world := &testWorld{craft: []*testCraft{
		{name: "S", x: 0, y: 0},
		{name: "Near", x: 30, y: 40},   // 50 away
		{name: "Far", x: 300, y: 400},  // 500 away
		{name: "Gone", x: 1, y: 1, away: true},
	}}
	e, _ := newTestEngine(world)

	cond := &mission.Condition{
		Kind:     mission.ConditionDistance,
		Subjects: mission.SubjectGroup{Spacecraft: []string{"S"}},
		Distance: &mission.DistanceParams{
			Target: mission.SubjectGroup{Spacecraft: []string{"Near", "Far", "Gone"}},
			Max:    floatPtr(60),
		},
	}
	var cs conditionState
	if !e.evalCondition(cond, &cs) {
		t.Fatalf("nearest present target is 50 away, within max 60")
	}

	cond.Distance.Max = floatPtr(40)
	if e.evalCondition(cond, &cs) {
		t.Fatalf("nearest target is 50 away, outside max 40")
	}
}

func TestDistanceSelfOnlyTargetIsFalse(t *testing.T) {
	world := &testWorld{craft: []*testCraft{{name: "S"}}}
	e, _ := newTestEngine(world)

	cond := &mission.Condition{
		Kind:     mission.ConditionDistance,
		Subjects: mission.SubjectGroup{Spacecraft: []string{"S"}},
		Distance: &mission.DistanceParams{
			Target: mission.SubjectGroup{Spacecraft: []string{"S"}},
			Max:    floatPtr(100),
		},
	}
	var cs conditionState
	if e.evalCondition(cond, &cs) {
		t.Fatalf("a craft is never within distance of itself alone")
	}
}

func TestHitMatchesByGroup(t *testing.T) {
	world := &testWorld{craft: []*testCraft{
		{name: "Hero"},
		{name: "Bandit", team: "Red"},
		{name: "Other", team: "Red"},
	}}
	e, _ := newTestEngine(world)

	cond := &mission.Condition{
		Kind:     mission.ConditionHit,
		Subjects: mission.SubjectGroup{Spacecraft: []string{"Hero"}},
		By:       &mission.ByParams{By: mission.SubjectGroup{Spacecraft: []string{"Bandit"}}},
	}
	var cs conditionState

	world.events = []CombatEvent{{Kind: EventHit, Subject: "Hero", Other: "Other"}}
	if e.evalCondition(cond, &cs) {
		t.Fatalf("hit by craft outside the by-group should not match")
	}

	world.events = []CombatEvent{{Kind: EventHit, Subject: "Hero", Other: "Bandit"}}
	if !e.evalCondition(cond, &cs) {
		t.Fatalf("hit by the by-group should match")
	}

	// next tick without events: condition is tick-scoped
	world.events = nil
	if e.evalCondition(cond, &cs) {
		t.Fatalf("hit condition must not persist across ticks")
	}
}

func TestCollisionIsSymmetric(t *testing.T) {
	world := &testWorld{craft: []*testCraft{{name: "A"}, {name: "B"}}}
	e, _ := newTestEngine(world)

	cond := &mission.Condition{
		Kind:     mission.ConditionCollision,
		Subjects: mission.SubjectGroup{Spacecraft: []string{"B"}},
		By:       &mission.ByParams{By: mission.SubjectGroup{Spacecraft: []string{"A"}}},
	}
	var cs conditionState
	// recorded once with A as subject; B's view must still match
	world.events = []CombatEvent{{Kind: EventCollision, Subject: "A", Other: "B"}}
	if !e.evalCondition(cond, &cs) {
		t.Fatalf("collision must match both orientations of the pair")
	}
}

func TestRepeatTimerCatchUpSkipsBacklog(t *testing.T) {
	e, _ := newTestEngine(&testWorld{})
	p := &mission.TimeParams{When: mission.TimeRepeat, TimeMS: 1000}
	var cs conditionState

	e.now = ms(100)
	if e.evalTime(p, &cs) {
		t.Fatalf("fired before first period elapsed")
	}
	// a huge tick gap covers several periods but yields one activation
	e.now = ms(3500)
	if !e.evalTime(p, &cs) {
		t.Fatalf("expected activation after gap")
	}
	e.now = ms(3600)
	if e.evalTime(p, &cs) {
		t.Fatalf("backlog activation after catch-up")
	}
	e.now = ms(4000)
	if !e.evalTime(p, &cs) {
		t.Fatalf("expected next activation at the following period")
	}
}

func TestTimeStartEventGatesCondition(t *testing.T) {
	e, _ := newTestEngine(&testWorld{})
	p := &mission.TimeParams{When: mission.TimeMissionStart, TimeMS: 1000, Start: "jump_out"}
	var cs conditionState

	e.now = ms(5000)
	if e.evalTime(p, &cs) {
		t.Fatalf("start event has not fired; condition must be false")
	}
	e.firedAt["jump_out"] = ms(4500)
	if e.evalTime(p, &cs) {
		t.Fatalf("only 500ms since start event")
	}
	e.now = ms(5600)
	if !e.evalTime(p, &cs) {
		t.Fatalf("1100ms since start event; condition should hold")
	}
}

func TestRepeatTimerResetsWhenBaseChanges(t *testing.T) {
	e, _ := newTestEngine(&testWorld{})
	p := &mission.TimeParams{When: mission.TimeRepeat, TimeMS: 1000, Start: "wave"}
	var cs conditionState

	e.firedAt["wave"] = ms(0)
	e.now = ms(1000)
	if !e.evalTime(p, &cs) {
		t.Fatalf("expected activation one period after base")
	}

	// the start event fires again; the schedule restarts from the new base
	e.firedAt["wave"] = ms(1500)
	e.now = ms(2000)
	if e.evalTime(p, &cs) {
		t.Fatalf("only 500ms since the new base")
	}
	e.now = ms(2500)
	if !e.evalTime(p, &cs) {
		t.Fatalf("expected activation one period after the new base")
	}
}

func TestMissionStateCondition(t *testing.T) {
	e, _ := newTestEngine(&testWorld{})
	cond := &mission.Condition{
		Kind:         mission.ConditionMissionState,
		MissionState: &mission.MissionStateParams{States: []mission.State{mission.StateFailed}},
	}
	var cs conditionState
	if e.evalCondition(cond, &cs) {
		t.Fatalf("mission is in progress, not failed")
	}
	e.state = mission.StateFailed
	if !e.evalCondition(cond, &cs) {
		t.Fatalf("mission failed; condition should hold")
	}
}

func TestAwayAndOnTeamQuantifiers(t *testing.T) {
	world := &testWorld{craft: []*testCraft{
		{name: "A", team: "Blue", away: true},
		{name: "B", team: "Blue"},
	}}
	e, _ := newTestEngine(world)
	var cs conditionState

	away := &mission.Condition{
		Kind:     mission.ConditionAway,
		Subjects: mission.SubjectGroup{Spacecraft: []string{"A", "B"}},
		Which:    mission.QuantifierAny,
		Away:     &mission.AwayParams{Away: true},
	}
	if !e.evalCondition(away, &cs) {
		t.Fatalf("any-away should hold with one craft away")
	}
	away.Which = mission.QuantifierAll
	if e.evalCondition(away, &cs) {
		t.Fatalf("all-away should fail with one craft present")
	}

	onTeam := &mission.Condition{
		Kind:     mission.ConditionOnTeam,
		Subjects: mission.SubjectGroup{Spacecraft: []string{"A", "B"}},
		OnTeam:   &mission.OnTeamParams{Team: "Blue"},
	}
	if !e.evalCondition(onTeam, &cs) {
		t.Fatalf("both craft are on Blue")
	}
	world.craft[1].team = "Red"
	if e.evalCondition(onTeam, &cs) {
		t.Fatalf("all-on-team should fail after defection")
	}
}
