package script

import (
	"time"

	"starops-sim/internal/mission"
)

// Engine is the mission event table: it owns the per-tick evaluation loop
// over every mission event, the delayed-action queue, and the mission
// state. The engine is single-threaded; the host calls Tick once per
// simulation frame and all evaluation and dispatch for that tick completes
// before Tick returns.
type Engine struct {
	def      *mission.Mission
	world    World
	sink     Sink
	state    mission.State
	triggers []*triggerRuntime
	queue    actionQueue
	seq      uint64
	now      time.Duration
	firedAt  map[string]time.Duration
}

// New builds an engine over a validated mission. Behavior over an
// unvalidated mission is undefined.
func New(def *mission.Mission, world World, sink Sink) *Engine {
	e := &Engine{
		def:     def,
		world:   world,
		sink:    sink,
		state:   mission.StateInProgress,
		firedAt: make(map[string]time.Duration),
	}
	for _, ev := range def.Events {
		e.triggers = append(e.triggers, newTriggerRuntime(&ev.Trigger))
	}
	return e
}

// Tick re-evaluates every event trigger at the given mission time, fires
// transitioned triggers, and dispatches all delayed actions that have come
// due. Triggers are evaluated in mission-definition order.
func (e *Engine) Tick(now time.Duration) {
	e.now = now
	for i, ev := range e.def.Events {
		rt := e.triggers[i]
		value := e.combinedValue(rt)
		if rt.step(now, value) {
			if ev.Name != "" {
				e.firedAt[ev.Name] = now
			}
			e.scheduleActions(ev, now)
		}
	}
	e.dispatchDue()
}

// State returns the current mission outcome state.
func (e *Engine) State() mission.State {
	return e.state
}

// EventStatus is a point-in-time view of one mission event, for status
// surfaces.
type EventStatus struct {
	Name    string       `json:"name"`
	Phase   TriggerPhase `json:"phase"`
	FiredAt *int64       `json:"fired_at_ms,omitempty"`
	Pending int          `json:"pending_actions"`
}

// Status reports every event's trigger phase and last fire time.
func (e *Engine) Status() []EventStatus {
	pending := make(map[string]int)
	for _, sa := range e.queue {
		pending[sa.event]++
	}
	out := make([]EventStatus, 0, len(e.def.Events))
	for i, ev := range e.def.Events {
		st := EventStatus{Name: ev.Name, Phase: e.triggers[i].phase, Pending: pending[ev.Name]}
		if t, ok := e.firedAt[ev.Name]; ok {
			ms := t.Milliseconds()
			st.FiredAt = &ms
		}
		out = append(out, st)
	}
	return out
}

// Reset discards all trigger and pending-action state atomically, as when
// a mission is unloaded or restarted. The next Tick starts from a fresh
// mission.
func (e *Engine) Reset() {
	e.state = mission.StateInProgress
	e.queue = nil
	e.seq = 0
	e.now = 0
	e.firedAt = make(map[string]time.Duration)
	for i, ev := range e.def.Events {
		e.triggers[i] = newTriggerRuntime(&ev.Trigger)
	}
}
