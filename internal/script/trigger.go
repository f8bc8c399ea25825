package script

import (
	"time"

	"starops-sim/internal/mission"
)

// TriggerPhase is the trigger state machine's current state. Fired is only
// reachable for one-shot triggers; repeatable triggers cycle between Armed
// and Pending.
type TriggerPhase string

const (
	PhaseArmed   TriggerPhase = "armed"
	PhasePending TriggerPhase = "pending"
	PhaseFired   TriggerPhase = "fired"
)

// triggerRuntime tracks one trigger's evaluation state across ticks.
type triggerRuntime struct {
	def        *mission.Trigger
	phase      TriggerPhase
	prev       bool
	fireAt     time.Duration
	condStates []conditionState
}

func newTriggerRuntime(def *mission.Trigger) *triggerRuntime {
	return &triggerRuntime{
		def:        def,
		phase:      PhaseArmed,
		condStates: make([]conditionState, len(def.Conditions)),
	}
}

// step advances the state machine with this tick's combined condition value
// and reports whether the trigger fires. An edge matching the trigger's
// When moves Armed to Pending(now+delay); a pending fire is cancelled if
// the value reverses before the delay elapses.
func (t *triggerRuntime) step(now time.Duration, value bool) bool {
	defer func() { t.prev = value }()

	if t.phase == PhaseFired {
		return false
	}

	var edge, holds bool
	switch t.def.When {
	case mission.BecomesFalse:
		edge = t.prev && !value
		holds = !value
	default: // becomes_true
		edge = !t.prev && value
		holds = value
	}

	if t.phase == PhaseArmed && edge {
		t.phase = PhasePending
		t.fireAt = now + millis(t.def.DelayMS)
	}
	if t.phase != PhasePending {
		return false
	}
	if !holds {
		// edge reversed before the delay elapsed
		t.phase = PhaseArmed
		return false
	}
	if now < t.fireAt {
		return false
	}
	if t.def.ResolvedOnce {
		t.phase = PhaseFired
	} else {
		t.phase = PhaseArmed
	}
	return true
}

// combinedValue evaluates all of a trigger's conditions under its
// combinator. A trigger with no conditions is permanently true, giving
// "mission start" semantics.
func (e *Engine) combinedValue(t *triggerRuntime) bool {
	conds := t.def.Conditions
	if len(conds) == 0 {
		return true
	}
	if t.def.Combine == mission.CombineAny {
		result := false
		for i := range conds {
			// every condition is evaluated so stateful conditions advance
			if e.evalCondition(&conds[i], &t.condStates[i]) {
				result = true
			}
		}
		return result
	}
	result := true
	for i := range conds {
		if !e.evalCondition(&conds[i], &t.condStates[i]) {
			result = false
		}
	}
	return result
}
