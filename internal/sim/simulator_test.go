package sim

import (
	"testing"
	"time"

	"starops-sim/internal/battlelog"
	"starops-sim/internal/mission"
	"starops-sim/internal/script"
)

// MockWriter collects battle log rows for validation.
type MockWriter struct {
	Actions  []battlelog.ActionRow
	Messages []battlelog.MessageRow
	Huds     []battlelog.HudRow
	States   []battlelog.StateRow
}

func (w *MockWriter) WriteAction(row battlelog.ActionRow) error {
	w.Actions = append(w.Actions, row)
	return nil
}

func (w *MockWriter) WriteMessage(row battlelog.MessageRow) error {
	w.Messages = append(w.Messages, row)
	return nil
}

func (w *MockWriter) WriteHud(row battlelog.HudRow) error {
	w.Huds = append(w.Huds, row)
	return nil
}

func (w *MockWriter) WriteState(row battlelog.StateRow) error {
	w.States = append(w.States, row)
	return nil
}

func mockWriters(w *MockWriter) Writers {
	return Writers{Actions: w, Messages: w, Hud: w, State: w}
}

func skirmishMission(t *testing.T) *mission.Mission {
	t.Helper()
	m := &mission.Mission{
		Name:  "skirmish",
		Teams: []mission.Team{{Name: "Blue"}, {Name: "Red"}},
		Spacecraft: []mission.SpacecraftSpec{
			{Name: "Hero", Class: "corvette", Team: "Blue", Position: mission.Position{X: 0, Y: 0}},
			{Name: "Bandit", Class: "fighter", Team: "Red", Position: mission.Position{X: 5000, Y: 0}},
		},
		Events: []*mission.Event{
			{
				Name: "opening",
				Actions: []mission.Action{
					{Kind: mission.ActionMessage, Message: &mission.MessageParams{Text: "engage"}},
					{Kind: mission.ActionHud, Hud: &mission.HudParams{Section: "objectives", Visible: true}},
				},
			},
			{
				Name: "bandit_down",
				Trigger: mission.Trigger{Conditions: []mission.Condition{
					{Kind: mission.ConditionDestroyed, Subjects: mission.SubjectGroup{Spacecraft: []string{"Bandit"}}},
				}},
				Actions: []mission.Action{{Kind: mission.ActionWin}},
			},
		},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("mission validation failed: %v", err)
	}
	return m
}

func TestSimulator_StepEmitsRows(t *testing.T) {
	w := &MockWriter{}
	s := NewSimulator("battle-test", skirmishMission(t), mockWriters(w), time.Second, 1)

	s.Step()

	if len(w.Messages) != 1 || w.Messages[0].Text != "engage" {
		t.Fatalf("messages = %+v", w.Messages)
	}
	if len(w.Huds) != 1 || w.Huds[0].Section != "objectives" || !w.Huds[0].Visible {
		t.Fatalf("huds = %+v", w.Huds)
	}
	if len(w.States) != 1 {
		t.Fatalf("got %d state rows, want 1 per tick", len(w.States))
	}
	st := w.States[0]
	if st.BattleID != "battle-test" || st.State != string(mission.StateInProgress) || st.AliveCraft != 2 || st.Tick != 1 {
		t.Fatalf("state row = %+v", st)
	}
	if st.MissionTimeMS != 1000 {
		t.Fatalf("mission time = %d, want 1000", st.MissionTimeMS)
	}
}

func TestSimulator_ActionRowsCarrySubjectsAndCommand(t *testing.T) {
	m := skirmishMission(t)
	m.Events = append(m.Events, &mission.Event{
		Name: "retreat",
		Actions: []mission.Action{{
			Kind:     mission.ActionCommand,
			Subjects: mission.SubjectGroup{Spacecraft: []string{"Hero"}},
			Command:  &mission.CommandParams{Command: mission.CommandJump},
		}},
	})
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	w := &MockWriter{}
	s := NewSimulator("battle-test", m, mockWriters(w), time.Second, 1)
	s.Step()

	if len(w.Actions) != 1 {
		t.Fatalf("got %d action rows, want 1", len(w.Actions))
	}
	row := w.Actions[0]
	if row.Event != "retreat" || row.Kind != string(mission.ActionCommand) || row.Command != string(mission.CommandJump) {
		t.Fatalf("action row = %+v", row)
	}
	if len(row.Subjects) != 1 || row.Subjects[0] != "Hero" {
		t.Fatalf("subjects = %v", row.Subjects)
	}

	// the command also reached the world: jump completes after the windup
	for i := 0; i < 3; i++ {
		s.Step()
	}
	for _, c := range s.CraftSnapshot() {
		if c.Name == "Hero" && !c.Away {
			t.Fatalf("jump command was not applied to the world")
		}
	}
}

func TestSimulator_MissionOutcomeRowOnTransition(t *testing.T) {
	w := &MockWriter{}
	s := NewSimulator("battle-test", skirmishMission(t), mockWriters(w), time.Second, 1)

	s.Step()
	if s.MissionState() != mission.StateInProgress {
		t.Fatalf("premature outcome: %v", s.MissionState())
	}

	// sink the bandit through the engine-visible world
	damage := &mission.Action{
		Kind:       mission.ActionDamage,
		Properties: &mission.PropertyParams{Hull: floatPtr(200), Shield: floatPtr(200)},
	}
	bandit, _ := s.world.CraftByName("Bandit")
	s.world.ApplyAction(damage, []script.Craft{bandit}, 0)

	s.Step()
	if s.MissionState() != mission.StateCompleted {
		t.Fatalf("state = %v, want completed", s.MissionState())
	}
	var sawOutcome bool
	for _, st := range w.States {
		if st.State == string(mission.StateCompleted) {
			sawOutcome = true
		}
	}
	if !sawOutcome {
		t.Fatalf("no completed state row written: %+v", w.States)
	}
}

func TestSimulator_PauseFreezesTicks(t *testing.T) {
	w := &MockWriter{}
	s := NewSimulator("battle-test", skirmishMission(t), mockWriters(w), time.Second, 1)

	if !s.TogglePause() {
		t.Fatalf("TogglePause should report paused")
	}
	s.Step()
	s.Step()
	if len(w.States) != 0 {
		t.Fatalf("paused simulator still produced %d state rows", len(w.States))
	}
	if s.TogglePause() {
		t.Fatalf("TogglePause should report resumed")
	}
	s.Step()
	if len(w.States) != 1 {
		t.Fatalf("resumed simulator produced %d state rows, want 1", len(w.States))
	}
}

func TestSimulator_HudSectionsTrackToggles(t *testing.T) {
	w := &MockWriter{}
	s := NewSimulator("battle-test", skirmishMission(t), mockWriters(w), time.Second, 1)

	s.Step()
	hud := s.HudSections()
	if !hud["objectives"] {
		t.Fatalf("hud sections = %v, want objectives visible", hud)
	}
}

func TestSimulator_EventStatus(t *testing.T) {
	w := &MockWriter{}
	s := NewSimulator("battle-test", skirmishMission(t), mockWriters(w), time.Second, 1)

	s.Step()
	status := s.EventStatus()
	if len(status) != 2 {
		t.Fatalf("got %d event statuses, want 2", len(status))
	}
	if status[0].Name != "opening" || status[0].FiredAt == nil {
		t.Fatalf("opening should have fired: %+v", status[0])
	}
	if status[1].FiredAt != nil {
		t.Fatalf("bandit_down should not have fired: %+v", status[1])
	}
}

func floatPtr(v float64) *float64 { return &v }
