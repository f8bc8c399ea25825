// Simulator orchestrating the battle world and the mission scripting engine
package sim

import (
	"sync"
	"time"

	"starops-sim/internal/battlelog"
	"starops-sim/internal/fleet"
	"starops-sim/internal/mission"
	"starops-sim/internal/script"
)

// Writers bundles the row sinks a simulator reports to. Nil writers are
// skipped.
type Writers struct {
	Actions  ActionWriter
	Messages MessageWriter
	Hud      HudWriter
	State    StateWriter
}

// CraftStatus is a point-in-time spacecraft summary for status surfaces.
type CraftStatus struct {
	Name      string  `json:"name"`
	Squad     string  `json:"squad,omitempty"`
	Team      string  `json:"team"`
	Class     string  `json:"class,omitempty"`
	Hull      float64 `json:"hull"`
	Shield    float64 `json:"shield"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Target    string  `json:"target,omitempty"`
	Destroyed bool    `json:"destroyed,omitempty"`
	Away      bool    `json:"away,omitempty"`
}

// Simulator drives one battle: each tick it advances the fleet world, runs
// the scripting engine over the result, applies dispatched effects, and
// writes the produced rows. It is the engine's Sink.
type Simulator struct {
	battleID     string
	def          *mission.Mission
	world        *fleet.World
	engine       *script.Engine
	writers      Writers
	tickInterval time.Duration
	clock        func() time.Time

	mu     sync.Mutex
	now    time.Duration
	tick   int64
	paused bool
	hud    map[string]bool

	// per-tick row buffers, flushed after each engine pass
	actions  []battlelog.ActionRow
	messages []battlelog.MessageRow
	huds     []battlelog.HudRow
	states   []battlelog.StateRow
}

// NewSimulator builds a simulator for a validated mission. seed fixes the
// battle world's squad placement randomness.
func NewSimulator(battleID string, def *mission.Mission, writers Writers, tickInterval time.Duration, seed int64) *Simulator {
	s := &Simulator{
		battleID:     battleID,
		def:          def,
		writers:      writers,
		tickInterval: tickInterval,
		clock:        time.Now,
		hud:          make(map[string]bool),
	}
	s.world = fleet.NewWorld(def, seed)
	s.engine = script.New(def, s.world, s)
	return s
}

// Step advances the battle by exactly one tick. Exposed for tests and for
// accelerated (non-realtime) runs.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.tick++
	s.now += s.tickInterval

	s.world.Step(s.now, s.tickInterval)
	s.engine.Tick(s.now)

	s.states = append(s.states, battlelog.StateRow{
		BattleID:      s.battleID,
		State:         string(s.engine.State()),
		AliveCraft:    s.world.AliveCount(),
		Tick:          s.tick,
		MissionTimeMS: s.now.Milliseconds(),
		Timestamp:     s.clock().UTC(),
	})
	s.flush()
}

// OnAction implements script.Sink: command and property effects are
// applied to the world immediately so the next physics/AI pass sees them.
func (s *Simulator) OnAction(event string, a *mission.Action, subjects []script.Craft) {
	s.world.ApplyAction(a, subjects, s.now)

	names := make([]string, 0, len(subjects))
	for _, c := range subjects {
		names = append(names, c.Name())
	}
	row := battlelog.ActionRow{
		BattleID:      s.battleID,
		Event:         event,
		Kind:          string(a.Kind),
		Subjects:      names,
		MissionTimeMS: s.now.Milliseconds(),
		Timestamp:     s.clock().UTC(),
	}
	if a.Kind == mission.ActionCommand {
		row.Command = string(a.Command.Command)
	}
	s.actions = append(s.actions, row)
}

// OnMessage implements script.Sink.
func (s *Simulator) OnMessage(msg script.Message) {
	s.messages = append(s.messages, battlelog.MessageRow{
		BattleID:      s.battleID,
		Event:         msg.Event,
		Text:          msg.Text,
		Key:           msg.Key,
		Sender:        msg.Sender,
		DurationMS:    msg.Duration.Milliseconds(),
		Permanent:     msg.Permanent,
		Urgent:        msg.Urgent,
		Style:         msg.Style,
		MissionTimeMS: s.now.Milliseconds(),
		Timestamp:     s.clock().UTC(),
	})
}

// OnHud implements script.Sink.
func (s *Simulator) OnHud(section string, visible bool) {
	s.hud[section] = visible
	s.huds = append(s.huds, battlelog.HudRow{
		BattleID:      s.battleID,
		Section:       section,
		Visible:       visible,
		MissionTimeMS: s.now.Milliseconds(),
		Timestamp:     s.clock().UTC(),
	})
}

// OnMissionStateChanged implements script.Sink.
func (s *Simulator) OnMissionStateChanged(state mission.State) {
	s.states = append(s.states, battlelog.StateRow{
		BattleID:      s.battleID,
		State:         string(state),
		AliveCraft:    s.world.AliveCount(),
		Tick:          s.tick,
		MissionTimeMS: s.now.Milliseconds(),
		Timestamp:     s.clock().UTC(),
	})
}

func (s *Simulator) flush() {
	werr := func(err error) {
		if err != nil {
			// writer failures must not stall the battle loop
			logFlushError(err)
		}
	}
	werr(writeActions(s.writers.Actions, s.actions))
	werr(writeMessages(s.writers.Messages, s.messages))
	if s.writers.Hud != nil {
		for _, r := range s.huds {
			werr(s.writers.Hud.WriteHud(r))
		}
	}
	if s.writers.State != nil {
		for _, r := range s.states {
			werr(s.writers.State.WriteState(r))
		}
	}
	s.actions = s.actions[:0]
	s.messages = s.messages[:0]
	s.huds = s.huds[:0]
	s.states = s.states[:0]
}

// MissionState returns the engine's current outcome state.
func (s *Simulator) MissionState() mission.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// EventStatus returns the engine's per-event trigger status.
func (s *Simulator) EventStatus() []script.EventStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Status()
}

// HudSections returns the current HUD section visibility map.
func (s *Simulator) HudSections() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.hud))
	for k, v := range s.hud {
		out[k] = v
	}
	return out
}

// CraftSnapshot returns the latest state for all spacecraft.
func (s *Simulator) CraftSnapshot() []CraftStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CraftStatus
	for _, c := range s.world.Craft() {
		out = append(out, CraftStatus{
			Name:      c.CraftName,
			Squad:     c.SquadName,
			Team:      c.TeamName,
			Class:     c.Class,
			Hull:      c.HullPct,
			Shield:    c.ShieldPct,
			X:         c.Pos.X,
			Y:         c.Pos.Y,
			Target:    c.TargetName,
			Destroyed: c.IsDestroyed,
			Away:      c.IsAway,
		})
	}
	return out
}

// TogglePause flips the pause flag and returns the new state.
func (s *Simulator) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

// Paused reports whether the simulation is paused.
func (s *Simulator) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// MissionName returns the loaded mission's display name.
func (s *Simulator) MissionName() string {
	return s.def.Name
}
